// Package output provides formatted rendering of command results.
// It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Format returns the configured format.
func (wr *Writer) Format() Format {
	return wr.format
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteTable outputs rows as aligned columns under a header and an
// underline. Cells longer than 80 characters are truncated.
func (wr *Writer) WriteTable(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)

	underline := make([]string, len(headers))
	for i, h := range headers {
		underline[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	fmt.Fprintln(tw, strings.Join(underline, "\t"))

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if len(cell) > 80 {
				cell = cell[:77] + "..."
			}
			cells[i] = cell
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

// WriteLine writes a single line of text.
func (wr *Writer) WriteLine(s string) error {
	_, err := fmt.Fprintln(wr.w, s)
	return err
}

// WriteStatus writes "label: message" with the label colored by status
// when mode allows it.
func (wr *Writer) WriteStatus(status Status, message string, mode ColorMode) error {
	label := status.String()
	if shouldColorize(mode, wr.w) {
		label = Colorize(status, label)
	}
	_, err := fmt.Fprintf(wr.w, "%s: %s\n", label, message)
	return err
}
