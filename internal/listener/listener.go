package listener

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"listingsheet/internal"
	"listingsheet/internal/config"
	"listingsheet/internal/pipeline"
	"listingsheet/internal/storage"
	"listingsheet/internal/util"
)

const source = "watch"

type Service struct {
	db   *storage.DB
	cfg  *config.Config
	proc *pipeline.ProcessingService
}

type CycleResult struct {
	Seen      int
	Processed int
	Skipped   int
	Failed    int
}

func NewService(db *storage.DB, cfg *config.Config) *Service {
	return &Service{db: db, cfg: cfg, proc: pipeline.NewProcessingService(db, cfg)}
}

// Run polls the inbox until ctx is done. Cycle errors are logged and the loop
// keeps going.
func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.Watch.IntervalSec) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	zap.L().Info("listener: watching inbox", zap.String("inbox", s.cfg.InboxDir), zap.Duration("interval", interval))

	for {
		if _, err := s.RunCycle(ctx); err != nil {
			zap.L().Error("listener: cycle error", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle handles every inbox file whose content was not seen before.
func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	res := CycleResult{}
	if err := os.MkdirAll(s.cfg.InboxDir, 0o755); err != nil {
		return res, eris.Wrap(err, "listener: create inbox")
	}
	entries, err := os.ReadDir(s.cfg.InboxDir)
	if err != nil {
		return res, eris.Wrap(err, "listener: read inbox")
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(s.cfg.InboxDir, entry.Name())
		blob, err := os.ReadFile(path)
		if err != nil {
			if s.handleUnreadable(ctx, path, err) {
				res.Seen++
				res.Failed++
			}
			continue
		}
		hash := util.HashBytes(blob)
		seen, err := s.db.HasInputHash(ctx, hash)
		if err != nil {
			return res, err
		}
		if seen {
			continue
		}
		res.Seen++

		switch s.handleFile(ctx, path, blob, hash) {
		case internal.RunProcessed:
			res.Processed++
		case internal.RunSkipped:
			res.Skipped++
		default:
			res.Failed++
		}
	}

	zap.L().Info("listener: cycle done",
		zap.Int("seen", res.Seen),
		zap.Int("processed", res.Processed),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// handleUnreadable records a file that cannot be read, keyed by its path so
// it is reported once rather than on every cycle. It reports whether the file
// was new.
func (s *Service) handleUnreadable(ctx context.Context, path string, readErr error) bool {
	hash := util.HashBytes([]byte(path))
	seen, err := s.db.HasInputHash(ctx, hash)
	if err != nil {
		zap.L().Error("listener: lookup input hash", zap.String("file", path), zap.Error(err))
		return false
	}
	if seen {
		return false
	}
	zap.L().Warn("listener: read failed", zap.String("file", path), zap.Error(readErr))
	s.proc.RecordOutcome(ctx, pipeline.Request{Source: source, InputHash: hash}, internal.RunFailed, readErr.Error())
	return true
}

func (s *Service) handleFile(ctx context.Context, path string, blob []byte, hash string) internal.RunStatus {
	log := zap.L().With(zap.String("file", path))
	req := pipeline.Request{Source: source, InputHash: hash}

	text, err := pipeline.ExtractText(pipeline.InputTypeFromPath(path), blob, "")
	if err != nil {
		log.Warn("listener: extract failed", zap.Error(err))
		s.proc.RecordOutcome(ctx, req, internal.RunFailed, err.Error())
		return internal.RunFailed
	}
	req.Text = text

	if detect := pipeline.DetectListing(text, s.proc.Layout()); !detect.IsListing {
		s.proc.RecordOutcome(ctx, req, internal.RunSkipped, detect.Reason)
		return internal.RunSkipped
	}

	res, err := s.proc.Process(ctx, req)
	if err != nil {
		return internal.RunFailed
	}

	if s.cfg.Watch.AutoExport {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		outputPath := filepath.Join(s.cfg.OutputDir, "watch", util.SanitizeFileName(stem)+".xlsx")
		if err := pipeline.ExportTableXLSX(res.Table, outputPath, s.proc.LinkLabel()); err != nil {
			log.Error("listener: export failed", zap.Error(err))
			return internal.RunProcessed
		}
		if err := s.db.SetRunOutput(ctx, res.TraceID, outputPath); err != nil {
			log.Error("listener: record output", zap.Error(err))
		}
		log.Info("listener: exported", zap.String("output", outputPath), zap.Int("rows", res.Table.RowCount()))
	}
	return internal.RunProcessed
}
