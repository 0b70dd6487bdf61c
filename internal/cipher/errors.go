package cipher

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLabel is returned when a label is empty or contains a
	// character outside Alphabet.
	ErrInvalidLabel = errors.New("cipher: invalid label")

	// ErrEncoding is returned when the working string of Obscure holds a
	// character outside Alphabet. Base64 output never does.
	ErrEncoding = errors.New("cipher: encoding failed")

	// ErrDecode is returned when a ciphertext cannot be turned back into
	// text: foreign characters, malformed base64, corrupt compressed data
	// or a label that differs from the one used to obscure.
	ErrDecode = errors.New("cipher: decode failed")

	// ErrUnknownRotation is returned by ParseRotation.
	ErrUnknownRotation = errors.New("cipher: unknown rotation mode")
)

func invalidLabel(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidLabel, fmt.Sprintf(format, args...))
}

func decodeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}
