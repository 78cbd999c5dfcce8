package pipeline

import (
	"github.com/rotisserie/eris"

	"listingsheet/internal"
	"listingsheet/internal/util"
)

const (
	DefaultRecordMarker = "Photos"
	DefaultNoiseMarker  = "Review"
)

var (
	ErrEmptyInput = eris.New("empty input")
	ErrNoRecords  = eris.New("no data: input holds no records")
)

// Layout describes one listing source: how records end, which lines are
// noise, and how the positional columns are cleaned up.
type Layout struct {
	RecordMarker string
	NoiseMarker  string
	Rules        RuleSet
}

func DefaultLayout() Layout {
	return Layout{
		RecordMarker: DefaultRecordMarker,
		NoiseMarker:  DefaultNoiseMarker,
		Rules:        DirectoryListingRules(),
	}
}

// ConvertText turns a pasted listing into its final table. It keeps no state
// between calls.
func ConvertText(raw string, layout Layout) (*internal.Table, error) {
	if util.IsBlank(raw) {
		return nil, ErrEmptyInput
	}

	lines := NormalizeLines(raw, layout.NoiseMarker)
	records := GroupRecords(lines, layout.RecordMarker)
	table, err := PadRecords(records)
	if err != nil {
		return nil, err
	}

	layout.Rules.Apply(table)
	return table, nil
}
