package pipeline

import (
	"strings"

	"listingsheet/internal/util"
)

// NormalizeLines trims the input into non-blank lines and drops every line
// containing noiseMarker. An empty marker disables noise filtering.
func NormalizeLines(raw, noiseMarker string) []string {
	lines := util.SplitLines(raw)
	if noiseMarker == "" {
		return lines
	}
	out := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, noiseMarker) {
			continue
		}
		out = append(out, line)
	}
	return out
}
