package cipher

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"io"
	"math/big"
	"strings"
	"unicode/utf8"
)

// Codec obscures and unobscures text for a single label. The seed and soup
// are computed once in New; a Codec is immutable and safe for concurrent use.
type Codec struct {
	label    string
	seed     *big.Int
	soup     string
	soupIdx  [256]int
	rotation RotationMode
}

// Option configures a Codec.
type Option func(*Codec)

// WithRotation selects the rotation mode. Default is RotationLegacy.
func WithRotation(mode RotationMode) Option {
	return func(c *Codec) {
		c.rotation = mode
	}
}

// New creates a Codec for label.
func New(label string, opts ...Option) (*Codec, error) {
	seed, err := DeriveSeed(label)
	if err != nil {
		return nil, err
	}

	c := &Codec{
		label:    label,
		seed:     seed,
		soup:     Soup(seed),
		rotation: RotationLegacy,
	}
	c.soupIdx = buildIndex(c.soup)

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Label returns the label the codec was built for.
func (c *Codec) Label() string { return c.label }

// Seed returns a copy of the derived seed.
func (c *Codec) Seed() *big.Int { return new(big.Int).Set(c.seed) }

// Soup returns the codec's permutation of Alphabet.
func (c *Codec) Soup() string { return c.soup }

// Rotation returns the rotation mode in use.
func (c *Codec) Rotation() RotationMode { return c.rotation }

// Obscure compresses plaintext, encodes it as URL-safe base64 and
// substitutes every character through the soup rotated by its position.
func (c *Codec) Obscure(plaintext string) (string, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	if _, err := io.WriteString(zw, plaintext); err != nil {
		return "", fmt.Errorf("%w: compress: %v", ErrEncoding, err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("%w: compress: %v", ErrEncoding, err)
	}

	working := base64.URLEncoding.EncodeToString(buf.Bytes())

	out := make([]byte, len(working))
	for i := 0; i < len(working); i++ {
		k := alphabetIndex[working[i]]
		if k < 0 {
			return "", fmt.Errorf("%w: character %q at offset %d is not in the alphabet", ErrEncoding, working[i], i)
		}
		off := c.rotation.offset(i, AlphabetSize)
		out[i] = c.soup[(k+off)%AlphabetSize]
	}
	return string(out), nil
}

// Unobscure reverses Obscure. A ciphertext produced under a different label
// or rotation mode fails with ErrDecode.
func (c *Codec) Unobscure(ciphertext string) (string, error) {
	working := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i++ {
		d := c.soupIdx[ciphertext[i]]
		if d < 0 {
			return "", decodeError("character %q at offset %d is not in the alphabet", ciphertext[i], i)
		}
		off := c.rotation.offset(i, AlphabetSize)
		working[i] = Alphabet[(d-off+AlphabetSize)%AlphabetSize]
	}

	compressed, err := base64.URLEncoding.DecodeString(string(working))
	if err != nil {
		return "", decodeError("base64: %v", err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", decodeError("zlib: %v", err)
	}
	defer zr.Close()

	var sb strings.Builder
	if _, err := io.Copy(&sb, zr); err != nil {
		return "", decodeError("zlib: %v", err)
	}
	if !utf8.ValidString(sb.String()) {
		return "", decodeError("payload is not valid UTF-8")
	}
	return sb.String(), nil
}

// Obscure is a one-off Obscure with the default rotation mode.
func Obscure(plaintext, label string) (string, error) {
	c, err := New(label)
	if err != nil {
		return "", err
	}
	return c.Obscure(plaintext)
}

// Unobscure is a one-off Unobscure with the default rotation mode.
func Unobscure(ciphertext, label string) (string, error) {
	c, err := New(label)
	if err != nil {
		return "", err
	}
	return c.Unobscure(ciphertext)
}
