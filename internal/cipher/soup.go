package cipher

import (
	"fmt"
	"math/big"
	"strings"
)

// RotationMode selects how a position beyond the alphabet length rotates
// the soup.
type RotationMode int

const (
	// RotationLegacy clamps the rotation like a slice: any offset at or past
	// AlphabetSize leaves the soup unrotated. Artifacts produced by earlier
	// releases depend on this.
	RotationLegacy RotationMode = iota

	// RotationCyclic rotates by offset modulo AlphabetSize. Not compatible
	// with legacy artifacts longer than AlphabetSize characters.
	RotationCyclic
)

// String returns the configuration name of the mode.
func (m RotationMode) String() string {
	switch m {
	case RotationLegacy:
		return "legacy"
	case RotationCyclic:
		return "cyclic"
	default:
		return fmt.Sprintf("RotationMode(%d)", int(m))
	}
}

// ParseRotation converts a configuration value into a RotationMode.
// The empty string selects RotationLegacy.
func ParseRotation(s string) (RotationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return RotationLegacy, nil
	case "cyclic":
		return RotationCyclic, nil
	default:
		return RotationLegacy, fmt.Errorf("%w: %q (must be 'legacy' or 'cyclic')", ErrUnknownRotation, s)
	}
}

// offset returns the left-rotation applied at position i of a sequence of
// length n.
func (m RotationMode) offset(i, n int) int {
	if m == RotationCyclic {
		return i % n
	}
	if i >= n {
		return 0
	}
	return i
}

// Soup returns the seeded permutation of Alphabet. The output is a pure
// function of seed.
func Soup(seed *big.Int) string {
	letters := []byte(Alphabet)
	newMersenne(seed).shuffle(letters)
	return string(letters)
}

// Rotate left-rotates seq by n positions under the given mode.
// Negative n is treated as zero.
func Rotate(seq string, n int, mode RotationMode) string {
	if len(seq) == 0 || n <= 0 {
		return seq
	}
	off := mode.offset(n, len(seq))
	return seq[off:] + seq[:off]
}
