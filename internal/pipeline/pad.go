package pipeline

import (
	"fmt"

	"listingsheet/internal"
)

func FieldName(pos int) string {
	return fmt.Sprintf("Field %d", pos)
}

// PadRecords builds the positional table "Field 1".."Field N" where N is the
// longest record. Shorter records get trailing empty fields.
func PadRecords(records []internal.Record) (*internal.Table, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	maxCols := 0
	for _, rec := range records {
		if len(rec) > maxCols {
			maxCols = len(rec)
		}
	}
	if maxCols == 0 {
		return nil, ErrNoRecords
	}

	table := &internal.Table{Columns: make([]internal.Column, maxCols)}
	for c := 0; c < maxCols; c++ {
		values := make([]string, len(records))
		for r, rec := range records {
			if c < len(rec) {
				values[r] = rec[c]
			}
		}
		table.Columns[c] = internal.Column{Name: FieldName(c + 1), Values: values}
	}
	return table, nil
}
