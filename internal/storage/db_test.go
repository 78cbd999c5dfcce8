package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingsheet/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInsertAndListRuns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.InsertRun(ctx, internal.RunRow{TraceID: "t1", Source: "cli", InputHash: "h1", Status: internal.RunProcessed, Rows: 3, ColumnsJSON: `["Name"]`})
	require.NoError(t, err)
	id, err := db.InsertRun(ctx, internal.RunRow{TraceID: "t2", Source: "http", InputHash: "h2", Status: internal.RunFailed, Error: "no data"})
	require.NoError(t, err)
	assert.Positive(t, id)

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "t2", runs[0].TraceID)
	assert.Equal(t, internal.RunFailed, runs[0].Status)
	assert.Equal(t, "no data", runs[0].Error)
	assert.Equal(t, 3, runs[1].Rows)
	assert.NotEmpty(t, runs[1].CreatedAt)

	runs, err = db.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestHasInputHash(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.InsertRun(ctx, internal.RunRow{TraceID: "t1", Source: "watch", InputHash: "done", Status: internal.RunProcessed})
	require.NoError(t, err)
	_, err = db.InsertRun(ctx, internal.RunRow{TraceID: "t2", Source: "watch", InputHash: "broken", Status: internal.RunFailed})
	require.NoError(t, err)

	seen, err := db.HasInputHash(ctx, "done")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = db.HasInputHash(ctx, "broken")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = db.HasInputHash(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestRunLookupAndOutput(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	missing, err := db.GetRunByTraceID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = db.InsertRun(ctx, internal.RunRow{TraceID: "t1", Source: "cli", InputHash: "h", Status: internal.RunProcessed})
	require.NoError(t, err)
	require.NoError(t, db.SetRunOutput(ctx, "t1", "/tmp/Data.xlsx"))

	run, err := db.GetRunByTraceID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "/tmp/Data.xlsx", run.OutputPath)
}
