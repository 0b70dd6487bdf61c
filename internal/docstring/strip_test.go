package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stripCases = []struct {
	name    string
	text    string
	splice  string
	replace string
}{
	{
		name:    "block between lines",
		text:    "line0\n\"\"\"\ndoc\n\"\"\"\nline4",
		splice:  "line0\n\nline4",
		replace: "line0\n\nline4",
	},
	{
		name:    "one line docstring",
		text:    "def f():\n    \"\"\"One line.\"\"\"\n    return 1",
		splice:  "def f():\n\n    return 1",
		replace: "def f():\n\n    return 1",
	},
	{
		name:    "class and method",
		text:    "class A:\n    \"\"\"Doc.\n\n    More.\n    \"\"\"\n\n    def m(self):\n        \"\"\"M.\"\"\"\n        return 1\n",
		splice:  "class A:\n\n\n    def m(self):\n\n        return 1\n",
		replace: "class A:\n\n\n    def m(self):\n\n        return 1\n",
	},
	{
		name:    "duplicate content outside the block",
		text:    "\"\"\"a\"\"\"\nprint('\"\"\"a\"\"\"')",
		splice:  "\nprint('\"\"\"a\"\"\"')",
		replace: "\nprint('')",
	},
	{
		name:    "nothing to strip",
		text:    "x = 'a\"\"\"b'\n\"\"\"\nnot a doc\n\"\"\"\ny",
		splice:  "x = 'a\"\"\"b'\n\"\"\"\nnot a doc\n\"\"\"\ny",
		replace: "x = 'a\"\"\"b'\n\"\"\"\nnot a doc\n\"\"\"\ny",
	},
}

func TestStripper_Splice(t *testing.T) {
	t.Parallel()

	for _, tt := range stripCases {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Stripper{Mode: ModeSplice}.Strip(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.splice, got)
			assert.Equal(t, tt.splice, Strip(tt.text))
		})
	}
}

func TestStripper_Replace(t *testing.T) {
	t.Parallel()

	for _, tt := range stripCases {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Stripper{Mode: ModeReplace}.Strip(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.replace, got)
		})
	}
}

func TestStrip_Idempotent(t *testing.T) {
	t.Parallel()

	for _, tt := range stripCases {
		once := Strip(tt.text)
		assert.Equal(t, once, Strip(once), tt.name)

		s := Stripper{Mode: ModeReplace}
		first, _, err := s.Strip(tt.text)
		require.NoError(t, err)
		second, _, err := s.Strip(first)
		require.NoError(t, err)
		assert.Equal(t, first, second, tt.name)
	}
}

func TestStripper_Unterminated(t *testing.T) {
	t.Parallel()

	text := "\"\"\"one\"\"\"\nok\n'''\nnever closed"

	got, res, err := Stripper{}.Strip(text)
	require.NoError(t, err)
	assert.Equal(t, "\nok\n'''\nnever closed", got)
	require.NotNil(t, res.Unterminated)
	assert.Equal(t, 2, res.Unterminated.Line)

	_, _, err = Stripper{Strict: true}.Strip(text)
	require.ErrorIs(t, err, ErrUnterminated)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeSplice, false},
		{"splice", ModeSplice, false},
		{"Replace", ModeReplace, false},
		{"delete", ModeSplice, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownMode)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)

		again, err := ParseMode(got.String())
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}
