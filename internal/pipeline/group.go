package pipeline

import (
	"strings"

	"listingsheet/internal"
)

// GroupRecords closes a record at every line containing recordMarker. Lines
// left over after the last marker still form a trailing record.
func GroupRecords(lines []string, recordMarker string) []internal.Record {
	out := []internal.Record{}
	current := internal.Record{}
	for _, line := range lines {
		current = append(current, line)
		if recordMarker != "" && strings.Contains(line, recordMarker) {
			out = append(out, current)
			current = internal.Record{}
		}
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}
