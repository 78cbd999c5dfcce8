package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "whitespace only", input: " \n\t\n  ", want: []string{}},
		{name: "crlf", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "trims and drops blanks", input: "  a  \n\n   \n b", want: []string{"a", "b"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitLines(tc.input))
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "971800", DigitsOnly("+971 800-"))
	assert.Equal(t, "", DigitsOnly("E-mail"))
}

func TestNormalizeSpaces(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeSpaces("  a \t b\n\nc "))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "dubai_listing_2024", SanitizeFileName("dubai listing/2024"))
	assert.Equal(t, "listing", SanitizeFileName("   "))
	assert.Len(t, SanitizeFileName(string(make([]byte, 300))), 120)
}

func TestHashBytesStable(t *testing.T) {
	assert.Equal(t, HashBytes([]byte("abc")), HashBytes([]byte("abc")))
	assert.NotEqual(t, HashBytes([]byte("abc")), HashBytes([]byte("abd")))
	assert.Len(t, HashBytes(nil), 64)
}

func TestNewTraceID(t *testing.T) {
	a := NewTraceID()
	b := NewTraceID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
