// Package docstring locates and strips triple-quoted comment blocks from
// source text before it is handed to a language model.
//
// Scanning is line oriented and deliberately shallow: a block opens on a
// line whose trimmed text starts with a triple-quote delimiter and closes on
// the next line containing the same delimiter. Delimiters that appear in the
// middle of an ordinary line flip a toggle so that a string literal spanning
// into the next line is not mistaken for a docstring.
package docstring

import "strings"

// Delimiter is a triple-quote token.
type Delimiter string

const (
	DoubleQuotes Delimiter = `"""`
	SingleQuotes Delimiter = `'''`
)

var delimiters = []Delimiter{DoubleQuotes, SingleQuotes}

// Range is a half-open interval [Start, End) of zero-indexed lines.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of lines covered by r.
func (r Range) Len() int { return r.End - r.Start }

// Unterminated describes a block that was opened but never closed.
type Unterminated struct {
	Line      int       `json:"line"`
	Delimiter Delimiter `json:"delimiter"`
}

// Result is the outcome of a Scan.
type Result struct {
	Ranges []Range `json:"ranges"`

	// Unterminated is set when the text ends inside a block. That block has
	// no entry in Ranges.
	Unterminated *Unterminated `json:"unterminated,omitempty"`
}

// opening returns the delimiter a trimmed line starts with, if any.
func opening(trimmed string) (Delimiter, bool) {
	for _, d := range delimiters {
		if strings.HasPrefix(trimmed, string(d)) {
			return d, true
		}
	}
	return "", false
}

func containsDelimiter(line string) bool {
	for _, d := range delimiters {
		if strings.Contains(line, string(d)) {
			return true
		}
	}
	return false
}

// Scan walks text line by line and reports every closed docstring block.
func Scan(text string) Result {
	var (
		res    Result
		inside bool
		kind   Delimiter
		start  int
		stray  bool
	)

	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if !inside {
			if d, ok := opening(trimmed); ok && !stray {
				inside, kind, start, stray = true, d, i, false
				// A one-line docstring closes on its opening line.
				trimmed = strings.TrimSpace(trimmed[len(d):])
			} else {
				if containsDelimiter(line) {
					stray = !stray
				}
				continue
			}
		}

		if strings.Contains(trimmed, string(kind)) {
			res.Ranges = append(res.Ranges, Range{Start: start, End: i + 1})
			inside = false
		}
	}

	if inside {
		res.Unterminated = &Unterminated{Line: start, Delimiter: kind}
	}
	return res
}

// FindRanges returns the line ranges of all closed docstring blocks in text.
// An unterminated block at the end of text is ignored.
func FindRanges(text string) []Range {
	return Scan(text).Ranges
}
