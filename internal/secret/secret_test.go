package secret

import (
	"sort"
	"testing"

	"github.com/bimmerbailey/quill/internal/cipher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, label string) *cipher.Codec {
	t.Helper()
	c, err := cipher.New(label)
	require.NoError(t, err)
	return c
}

func TestStore_Password(t *testing.T) {
	t.Parallel()

	store := NewStore(newCodec(t, "demo"), map[string]map[string]string{
		"Gotify": {"Admin": "o!NsW*gI2r<7MMm(#fW4)W70(c`H"},
		"empty":  {"nobody": ""},
	})

	got, err := store.Password("gotify", "admin")
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", got)

	got, err = store.Password("GOTIFY", "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", got)

	_, err = store.Password("missing", "admin")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Password("gotify", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Password("empty", "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_WrongLabel(t *testing.T) {
	t.Parallel()

	store := NewStore(newCodec(t, "cyro"), map[string]map[string]string{
		"gotify": {"admin": "o!NsW*gI2r<7MMm(#fW4)W70(c`H"},
	})

	got, err := store.Password("gotify", "admin")
	if err == nil {
		assert.NotEqual(t, "Hello World!", got)
		return
	}
	assert.ErrorIs(t, err, cipher.ErrDecode)
}

func TestStore_EncodeRoundTrip(t *testing.T) {
	t.Parallel()

	codec := newCodec(t, "quill")
	encoded, err := NewStore(codec, nil).Encode("s3cr3t pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cr3t pass", encoded)

	store := NewStore(codec, map[string]map[string]string{"db": {"app": encoded}})
	got, err := store.Password("db", "app")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t pass", got)

	_, err = store.Encode("")
	assert.Error(t, err)
}

func TestStore_Items(t *testing.T) {
	t.Parallel()

	store := NewStore(newCodec(t, "demo"), map[string]map[string]string{
		"B": {"u": "x"},
		"a": {"u": "x"},
	})
	items := store.Items()
	sort.Strings(items)
	assert.Equal(t, []string{"a", "b"}, items)
}
