package listener

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingsheet/internal"
	"listingsheet/internal/config"
	"listingsheet/internal/storage"
)

const listing = "Prax's Restaurant\nAddress: Tecom, Dubai\nModern dining.\nVerified\n+971 800 77297E-mail4 Photos\n"

func newTestService(t *testing.T) (*Service, *config.Config, *storage.DB) {
	t.Helper()
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		InboxDir:  filepath.Join(tmp, "inbox"),
		OutputDir: filepath.Join(tmp, "out"),
		Layout:    config.LayoutConfig{RecordMarker: "Photos", NoiseMarker: "Review", LinkLabel: "Open WhatsApp"},
		Watch:     config.WatchConfig{IntervalSec: 1, AutoExport: true},
	}
	require.NoError(t, os.MkdirAll(cfg.InboxDir, 0o755))
	return NewService(db, cfg), cfg, db
}

func TestRunCycle(t *testing.T) {
	svc, cfg, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(cfg.InboxDir, "dubai listing.txt"), []byte(listing), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InboxDir, "memo.txt"), []byte("lunch at noon"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InboxDir, "broken.pdf"), []byte("not a pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InboxDir, ".hidden"), []byte(listing+"x"), 0o644))

	res, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, CycleResult{Seen: 3, Processed: 1, Skipped: 1, Failed: 1}, res)

	out := filepath.Join(cfg.OutputDir, "watch", "dubai_listing.xlsx")
	_, err = os.Stat(out)
	require.NoError(t, err)

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	byStatus := map[internal.RunStatus]internal.RunRow{}
	for _, r := range runs {
		byStatus[r.Status] = r
	}
	assert.Equal(t, out, byStatus[internal.RunProcessed].OutputPath)
	assert.Equal(t, 1, byStatus[internal.RunProcessed].Rows)
	assert.Equal(t, "no_record_marker", byStatus[internal.RunSkipped].Error)

	again, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, CycleResult{}, again)
}

func TestRunCycleContinuesPastUnreadableFile(t *testing.T) {
	svc, cfg, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, os.Symlink(filepath.Join(cfg.InboxDir, "missing.txt"), filepath.Join(cfg.InboxDir, "a_dangling.txt")))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InboxDir, "b_listing.txt"), []byte(listing), 0o644))

	res, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, CycleResult{Seen: 2, Processed: 1, Failed: 1}, res)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "watch", "b_listing.xlsx"))
	require.NoError(t, err)

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	again, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, CycleResult{}, again, "an unreadable file is recorded once")
}

func TestRunStopsOnCancel(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}
}
