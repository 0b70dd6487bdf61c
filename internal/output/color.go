package output

import (
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// Status classifies the outcome of processing a single file.
type Status int

const (
	StatusUnchanged Status = iota
	StatusChanged
	StatusRemoved
	StatusWarning
	StatusFailed
)

// String returns the label printed for a Status.
func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusChanged:
		return "stripped"
	case StatusRemoved:
		return "removed"
	case StatusWarning:
		return "warning"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so JSON output uses labels.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w interface{}) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// Colorize wraps text in the color of status.
func Colorize(status Status, text string) string {
	switch status {
	case StatusUnchanged:
		return colorGray + text + colorReset
	case StatusChanged, StatusRemoved:
		return colorGreen + text + colorReset
	case StatusWarning:
		return colorYellow + text + colorReset
	case StatusFailed:
		return colorBold + colorRed + text + colorReset
	default:
		return text
	}
}
