package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingsheet/internal"
)

func TestPadRecords(t *testing.T) {
	table, err := PadRecords([]internal.Record{{"a", "b", "c"}, {"d"}, {"e", "f"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Field 1", "Field 2", "Field 3"}, table.Headers())
	assert.Equal(t, [][]string{
		{"a", "b", "c"},
		{"d", "", ""},
		{"e", "f", ""},
	}, table.Rows())
}

func TestPadRecordsNoRecords(t *testing.T) {
	_, err := PadRecords(nil)
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = PadRecords([]internal.Record{{}})
	assert.ErrorIs(t, err, ErrNoRecords)
}
