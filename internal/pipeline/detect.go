package pipeline

import (
	"strings"

	"listingsheet/internal/util"
)

type DetectResult struct {
	IsListing   bool
	Lines       int
	MarkerLines int
	NoiseLines  int
	Reason      string
}

// DetectListing is a cheap check that text carries at least one record
// marker outside the noise lines.
func DetectListing(text string, layout Layout) DetectResult {
	res := DetectResult{}
	for _, line := range util.SplitLines(text) {
		res.Lines++
		if layout.NoiseMarker != "" && strings.Contains(line, layout.NoiseMarker) {
			res.NoiseLines++
			continue
		}
		if layout.RecordMarker != "" && strings.Contains(line, layout.RecordMarker) {
			res.MarkerLines++
		}
	}

	switch {
	case res.Lines == 0:
		res.Reason = "empty"
	case res.MarkerLines == 0:
		res.Reason = "no_record_marker"
	default:
		res.IsListing = true
		res.Reason = "record_markers"
	}
	return res
}
