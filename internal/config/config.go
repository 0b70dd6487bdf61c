// Package config provides configuration types and helpers for quill.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/bimmerbailey/quill/internal/cipher"
	"github.com/bimmerbailey/quill/internal/docstring"
)

// Config holds the application-wide configuration.
type Config struct {
	Format      string                       `mapstructure:"format"`
	Verbose     bool                         `mapstructure:"verbose"`
	Label       string                       `mapstructure:"label"`
	Cipher      CipherConfig                 `mapstructure:"cipher"`
	Strip       StripConfig                  `mapstructure:"strip"`
	Watch       WatchConfig                  `mapstructure:"watch"`
	Credentials map[string]map[string]string `mapstructure:"credentials"`
}

// CipherConfig holds settings for the obscuring codec.
type CipherConfig struct {
	// Rotation selects "legacy" (default, compatible with existing
	// artifacts) or "cyclic".
	Rotation string `mapstructure:"rotation"`
}

// StripConfig holds settings for docstring stripping.
type StripConfig struct {
	Mode        string   `mapstructure:"mode"`        // "splice" or "replace"
	Strict      bool     `mapstructure:"strict"`      // fail on unterminated blocks
	Prefix      string   `mapstructure:"prefix"`      // file name prefix of generated copies
	Include     []string `mapstructure:"include"`     // patterns matched when walking directories
	Concurrency int      `mapstructure:"concurrency"` // files processed in parallel
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Format: "text",
		Cipher: CipherConfig{Rotation: cipher.RotationLegacy.String()},
		Strip: StripConfig{
			Mode:        docstring.ModeSplice.String(),
			Prefix:      "nosync_",
			Include:     []string{"*.py"},
			Concurrency: 4,
		},
		Watch: WatchConfig{Debounce: 200 * time.Millisecond},
	}
}

// Validate checks values that cannot be enforced by types alone.
func (c *Config) Validate() error {
	if _, err := cipher.ParseRotation(c.Cipher.Rotation); err != nil {
		return fmt.Errorf("cipher.rotation: %w", err)
	}
	if _, err := docstring.ParseMode(c.Strip.Mode); err != nil {
		return fmt.Errorf("strip.mode: %w", err)
	}
	if c.Strip.Concurrency < 1 {
		return fmt.Errorf("strip.concurrency must be at least 1, got %d", c.Strip.Concurrency)
	}
	if strings.ContainsAny(c.Strip.Prefix, `/\`) {
		return fmt.Errorf("strip.prefix must be a file name prefix, got %q", c.Strip.Prefix)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// CipherOptions returns codec options for the configured rotation.
// Call Validate first; an invalid rotation falls back to the default.
func (c *Config) CipherOptions() []cipher.Option {
	mode, _ := cipher.ParseRotation(c.Cipher.Rotation)
	return []cipher.Option{cipher.WithRotation(mode)}
}

// Stripper returns the docstring stripper described by the configuration.
func (c *Config) Stripper() docstring.Stripper {
	mode, _ := docstring.ParseMode(c.Strip.Mode)
	return docstring.Stripper{Mode: mode, Strict: c.Strip.Strict}
}

// Codec builds a codec for label, or for the configured label when label
// is empty.
func (c *Config) Codec(label string) (*cipher.Codec, error) {
	if label == "" {
		label = c.Label
	}
	if label == "" {
		return nil, fmt.Errorf("no label configured: pass --label or set label in the config file")
	}
	return cipher.New(label, c.CipherOptions()...)
}
