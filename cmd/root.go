package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bimmerbailey/quill/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Prepare Python sources for LLM documentation runs",
	Long: `Quill prepares source trees for LLM-driven documentation generation.

It strips existing docstrings so a model writes fresh ones, cleans up the
generated copies afterwards, and obscures credentials and artifacts with a
label-keyed reversible codec.

Examples:
  quill strip --write src/mypkg
  quill clean src/mypkg
  quill obscure --label mypkg "hunter2"
  quill secret get gotify admin`,
	SilenceUsage: true,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.quill.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringP("label", "L", "", "codec label, conventionally the package name")
	rootCmd.PersistentFlags().String("rotation", "", "codec rotation mode (legacy, cyclic)")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("label", rootCmd.PersistentFlags().Lookup("label"))
	_ = viper.BindPFlag("cipher.rotation", rootCmd.PersistentFlags().Lookup("rotation"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".quill")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("QUILL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	defaults := config.Defaults()
	viper.SetDefault("format", defaults.Format)
	viper.SetDefault("verbose", false)
	viper.SetDefault("cipher.rotation", defaults.Cipher.Rotation)
	viper.SetDefault("strip.mode", defaults.Strip.Mode)
	viper.SetDefault("strip.strict", defaults.Strip.Strict)
	viper.SetDefault("strip.prefix", defaults.Strip.Prefix)
	viper.SetDefault("strip.include", defaults.Strip.Include)
	viper.SetDefault("strip.concurrency", defaults.Strip.Concurrency)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// loadConfig overlays viper settings on the built-in defaults and validates
// the result.
func loadConfig() (*config.Config, error) {
	cfg := config.Defaults()
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// newLogger returns a stderr logger that reports errors only, or
// informational messages too when verbose is set.
func newLogger() *slog.Logger {
	level := slog.LevelError
	if viper.GetBool("verbose") {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// commandContext returns the command's context, or a background context when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
