package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLines(t *testing.T) {
	raw := "  Prax's Restaurant \n\n4.5 (120 Reviews)\n  \nreview is lowercase\nReview\n+971 800 77297 Photos\n"
	got := NormalizeLines(raw, DefaultNoiseMarker)
	assert.Equal(t, []string{"Prax's Restaurant", "review is lowercase", "+971 800 77297 Photos"}, got)
}

func TestNormalizeLinesEmpty(t *testing.T) {
	assert.Empty(t, NormalizeLines("", DefaultNoiseMarker))
	assert.Empty(t, NormalizeLines(" \n\t\n", DefaultNoiseMarker))
}

func TestNormalizeLinesWithoutNoiseMarker(t *testing.T) {
	assert.Equal(t, []string{"a", "Review b"}, NormalizeLines("a\nReview b", ""))
}
