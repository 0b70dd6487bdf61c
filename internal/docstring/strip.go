package docstring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnterminated is returned by a strict Stripper when the text ends inside
// a docstring block.
var ErrUnterminated = errors.New("docstring: unterminated block")

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("docstring: unknown strip mode")

// Mode selects how matched blocks are removed.
type Mode int

const (
	// ModeSplice removes each block by its line position only.
	ModeSplice Mode = iota

	// ModeReplace removes each block's text wherever it occurs, so a
	// duplicate of a docstring elsewhere in the text disappears too. Kept
	// for output compatibility with earlier releases.
	ModeReplace
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSplice:
		return "splice"
	case ModeReplace:
		return "replace"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a configuration value into a Mode. The empty string
// selects ModeSplice.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "splice":
		return ModeSplice, nil
	case "replace":
		return ModeReplace, nil
	default:
		return ModeSplice, fmt.Errorf("%w: %q (must be 'splice' or 'replace')", ErrUnknownMode, s)
	}
}

// Stripper removes docstring blocks from text.
// The zero value splices and ignores unterminated blocks.
type Stripper struct {
	Mode Mode

	// Strict turns an unterminated block into an error instead of leaving
	// it in place.
	Strict bool
}

// Strip removes every closed docstring block from text. The lines of a block
// are removed; the newlines around it stay, so a block between two lines
// leaves an empty line behind.
//
// The returned Result describes what was found in the input.
func (s Stripper) Strip(text string) (string, Result, error) {
	res := Scan(text)
	if res.Unterminated != nil && s.Strict {
		return "", res, fmt.Errorf("%w: %s opened on line %d", ErrUnterminated, res.Unterminated.Delimiter, res.Unterminated.Line+1)
	}
	if len(res.Ranges) == 0 {
		return text, res, nil
	}

	lines := strings.Split(text, "\n")
	if s.Mode == ModeReplace {
		out := text
		for _, r := range res.Ranges {
			out = strings.ReplaceAll(out, strings.Join(lines[r.Start:r.End], "\n"), "")
		}
		return out, res, nil
	}

	offsets := make([]int, len(lines))
	pos := 0
	for i, line := range lines {
		offsets[i] = pos
		pos += len(line) + 1
	}

	var sb strings.Builder
	sb.Grow(len(text))
	cursor := 0
	for _, r := range res.Ranges {
		from := offsets[r.Start]
		to := offsets[r.End-1] + len(lines[r.End-1])
		sb.WriteString(text[cursor:from])
		cursor = to
	}
	sb.WriteString(text[cursor:])
	return sb.String(), res, nil
}

// Strip removes all closed docstring blocks from text by position.
func Strip(text string) string {
	out, _, _ := Stripper{}.Strip(text)
	return out
}
