package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bimmerbailey/quill/internal/docstring"
	"github.com/bimmerbailey/quill/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var pySource = []string{
	"class Greeter:",
	`    """Say hello.`,
	"",
	"    Longer description.",
	`    """`,
	"",
	"    def greet(self):",
	`        """Return a greeting."""`,
	`        return "hi"`,
}

var pyStripped = strings.Join([]string{
	"class Greeter:",
	"",
	"",
	"    def greet(self):",
	"",
	`        return "hi"`,
}, "\n")

func newStripTestCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "strip"}
	cmd.Flags().String("mode", "", "")
	cmd.Flags().Bool("strict", false, "")
	cmd.Flags().BoolP("write", "w", false, "")
	cmd.Flags().BoolP("in-place", "i", false, "")
	cmd.Flags().Bool("watch", false, "")
	cmd.Flags().Bool("no-color", true, "")
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd
}

func TestStripPrintsStrippedSource(t *testing.T) {
	resetViper("text")

	dir := t.TempDir()
	path := writeTempFile(t, dir, "greeter.py", pySource)

	var out bytes.Buffer
	if err := runStrip(newStripTestCmd(&out), []string{path}); err != nil {
		t.Fatalf("runStrip() error = %v", err)
	}

	if got := out.String(); got != pyStripped {
		t.Errorf("runStrip() output:\n%q\nwant:\n%q", got, pyStripped)
	}
	if got := readFile(t, path); got != strings.Join(pySource, "\n") {
		t.Error("source file was modified without --write or --in-place")
	}
}

func TestStripMultipleFilesAddsHeaders(t *testing.T) {
	resetViper("text")

	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.py", []string{"x = 1"})
	b := writeTempFile(t, dir, "b.py", []string{"y = 2"})

	var out bytes.Buffer
	if err := runStrip(newStripTestCmd(&out), []string{b, a}); err != nil {
		t.Fatalf("runStrip() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "==> "+a+" <==\nx = 1") || !strings.Contains(got, "==> "+b+" <==\ny = 2") {
		t.Errorf("missing file headers:\n%s", got)
	}
	if strings.Index(got, a) > strings.Index(got, b) {
		t.Error("results are not in sorted order")
	}
}

func TestStripWriteCreatesPrefixedCopy(t *testing.T) {
	resetViper("text")

	dir := t.TempDir()
	path := writeTempFile(t, dir, "pkg/greeter.py", pySource)
	writeTempFile(t, dir, "pkg/notes.txt", []string{`"""not python"""`})

	var out bytes.Buffer
	cmd := newStripTestCmd(&out)
	_ = cmd.Flags().Set("write", "true")
	if err := runStrip(cmd, []string{dir}); err != nil {
		t.Fatalf("runStrip() error = %v", err)
	}

	generated := filepath.Join(dir, "pkg", "nosync_greeter.py")
	if got := readFile(t, generated); got != pyStripped {
		t.Errorf("generated copy:\n%q\nwant:\n%q", got, pyStripped)
	}
	if got := readFile(t, path); got != strings.Join(pySource, "\n") {
		t.Error("original file was modified by --write")
	}
	if _, err := os.Stat(filepath.Join(dir, "pkg", "nosync_notes.txt")); !os.IsNotExist(err) {
		t.Error("files outside strip.include must not be processed")
	}
	if !strings.Contains(out.String(), "stripped: ") || !strings.Contains(out.String(), "-> "+generated) {
		t.Errorf("unexpected status output:\n%s", out.String())
	}

	// A second run must not pick up the generated copy as input.
	out.Reset()
	if err := runStrip(cmd, []string{dir}); err != nil {
		t.Fatalf("second runStrip() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "pkg", "nosync_nosync_greeter.py")); !os.IsNotExist(err) {
		t.Error("generated copies must be skipped")
	}
}

func TestStripInPlaceJSON(t *testing.T) {
	resetViper("json")

	dir := t.TempDir()
	changed := writeTempFile(t, dir, "changed.py", pySource)
	clean := writeTempFile(t, dir, "clean.py", []string{"x = 1"})

	var out bytes.Buffer
	cmd := newStripTestCmd(&out)
	_ = cmd.Flags().Set("in-place", "true")
	if err := runStrip(cmd, []string{changed, clean}); err != nil {
		t.Fatalf("runStrip() error = %v", err)
	}

	// Status is written as its label.
	var results []struct {
		Path   string `json:"path"`
		Output string `json:"output"`
		Status string `json:"status"`
		Blocks int    `json:"blocks"`
	}
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Status != output.StatusChanged.String() || results[0].Blocks != 2 || results[0].Output != changed {
		t.Errorf("unexpected result for changed file: %+v", results[0])
	}
	if results[1].Status != output.StatusUnchanged.String() || results[1].Output != "" {
		t.Errorf("unexpected result for clean file: %+v", results[1])
	}
	if got := readFile(t, changed); got != pyStripped {
		t.Errorf("in-place result:\n%q", got)
	}
}

func TestStripReplaceModeFromConfig(t *testing.T) {
	resetViper("text")
	viper.Set("strip.mode", "replace")

	dir := t.TempDir()
	path := writeTempFile(t, dir, "dup.py", []string{`"""a"""`, `print('"""a"""')`})

	var out bytes.Buffer
	if err := runStrip(newStripTestCmd(&out), []string{path}); err != nil {
		t.Fatalf("runStrip() error = %v", err)
	}
	if got := out.String(); got != "\nprint('')" {
		t.Errorf("replace mode = %q", got)
	}

	// The flag wins over the config file.
	out.Reset()
	cmd := newStripTestCmd(&out)
	_ = cmd.Flags().Set("mode", "splice")
	if err := runStrip(cmd, []string{path}); err != nil {
		t.Fatalf("runStrip() error = %v", err)
	}
	if got := out.String(); got != "\nprint('\"\"\"a\"\"\"')" {
		t.Errorf("splice mode = %q", got)
	}
}

func TestStripUnterminated(t *testing.T) {
	resetViper("text")

	dir := t.TempDir()
	lines := []string{`"""Module."""`, "x = 1", `"""`, "never closed"}
	path := writeTempFile(t, dir, "broken.py", lines)

	var out bytes.Buffer
	cmd := newStripTestCmd(&out)
	_ = cmd.Flags().Set("write", "true")
	if err := runStrip(cmd, []string{path}); err != nil {
		t.Fatalf("lenient runStrip() error = %v", err)
	}
	if !strings.Contains(out.String(), "warning: ") || !strings.Contains(out.String(), "line 3") {
		t.Errorf("expected unterminated warning:\n%s", out.String())
	}

	out.Reset()
	strict := newStripTestCmd(&out)
	_ = strict.Flags().Set("strict", "true")
	err := runStrip(strict, []string{path})
	if !errors.Is(err, docstring.ErrUnterminated) {
		t.Errorf("strict runStrip() error = %v, want ErrUnterminated", err)
	}
}

func TestStripFlagErrors(t *testing.T) {
	resetViper("text")
	path := writeTempFile(t, t.TempDir(), "a.py", []string{"x = 1"})

	tests := []struct {
		name  string
		flags map[string]string
		want  string
	}{
		{"write and in-place", map[string]string{"write": "true", "in-place": "true"}, "mutually exclusive"},
		{"watch without write", map[string]string{"watch": "true"}, "--watch requires --write"},
		{"bad mode", map[string]string{"mode": "shred"}, "strip.mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := newStripTestCmd(&out)
			for k, v := range tt.flags {
				_ = cmd.Flags().Set(k, v)
			}
			err := runStrip(cmd, []string{path})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("runStrip() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestStripWriteSkipsNamedGeneratedCopy(t *testing.T) {
	resetViper("text")

	dir := t.TempDir()
	path := writeTempFile(t, dir, "nosync_x.py", pySource)

	var out bytes.Buffer
	cmd := newStripTestCmd(&out)
	_ = cmd.Flags().Set("write", "true")
	if err := runStrip(cmd, []string{path}); err != nil {
		t.Fatalf("runStrip() error = %v", err)
	}

	if !strings.Contains(out.String(), "No matching files found.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "nosync_nosync_x.py")); !os.IsNotExist(err) {
		t.Error("a generated copy must not be stripped again")
	}
}
