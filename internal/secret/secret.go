// Package secret stores passwords in configuration files in obscured form.
//
// Entries live under credentials.<item>.<username>:
//
//	label: demo
//	credentials:
//	  gotify:
//	    admin: "o!NsW*gI2r<7MMm(#fW4)W70(c`H"
//
// Values are produced by Store.Encode (or `quill secret encode`) and read
// back with Store.Password. Obscuring keeps passwords out of casual view and
// out of grep; it is not encryption.
package secret

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bimmerbailey/quill/internal/cipher"
)

// ErrNotFound is returned when no credential is stored for an item and user.
var ErrNotFound = errors.New("secret: credential not found")

// Store resolves obscured credentials.
type Store struct {
	codec   *cipher.Codec
	entries map[string]map[string]string
}

// NewStore creates a Store over entries keyed by item, then username.
// Keys are matched case-insensitively, as configuration loaders lower-case
// them.
func NewStore(codec *cipher.Codec, entries map[string]map[string]string) *Store {
	normalized := make(map[string]map[string]string, len(entries))
	for item, users := range entries {
		m := make(map[string]string, len(users))
		for user, value := range users {
			m[strings.ToLower(user)] = value
		}
		normalized[strings.ToLower(item)] = m
	}
	return &Store{codec: codec, entries: normalized}
}

// Password returns the plain password stored for item and username.
func (s *Store) Password(item, username string) (string, error) {
	users, ok := s.entries[strings.ToLower(item)]
	if !ok {
		return "", fmt.Errorf("%w: no item %q", ErrNotFound, item)
	}
	value, ok := users[strings.ToLower(username)]
	if !ok || value == "" {
		return "", fmt.Errorf("%w: no user %q for item %q", ErrNotFound, username, item)
	}

	plain, err := s.codec.Unobscure(value)
	if err != nil {
		return "", fmt.Errorf("credential %s/%s: %w", item, username, err)
	}
	return plain, nil
}

// Encode obscures password for storage under credentials.<item>.<username>.
func (s *Store) Encode(password string) (string, error) {
	if password == "" {
		return "", errors.New("secret: empty password")
	}
	return s.codec.Obscure(password)
}

// Items returns the stored item names.
func (s *Store) Items() []string {
	items := make([]string, 0, len(s.entries))
	for item := range s.entries {
		items = append(items, item)
	}
	return items
}
