package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"listingsheet/internal"
	"listingsheet/internal/config"
	"listingsheet/internal/metrics"
	"listingsheet/internal/util"
)

// RunStore records processing runs. *storage.DB implements it.
type RunStore interface {
	InsertRun(ctx context.Context, run internal.RunRow) (int64, error)
}

type ProcessingService struct {
	store RunStore
	cfg   *config.Config
}

// NewProcessingService wires the pipeline to cfg. A nil store disables run
// history.
func NewProcessingService(store RunStore, cfg *config.Config) *ProcessingService {
	return &ProcessingService{store: store, cfg: cfg}
}

// Request is everything one processing run needs. Nothing outlives it.
type Request struct {
	Source    string
	Text      string
	InputHash string
}

type Result struct {
	TraceID       string
	Table         *internal.Table
	Detect        DetectResult
	SuspectPhones int
	Duration      time.Duration
}

func (s *ProcessingService) Layout() Layout {
	layout := DefaultLayout()
	if s.cfg == nil {
		return layout
	}
	if s.cfg.Layout.RecordMarker != "" {
		layout.RecordMarker = s.cfg.Layout.RecordMarker
	}
	if s.cfg.Layout.NoiseMarker != "" {
		layout.NoiseMarker = s.cfg.Layout.NoiseMarker
	}
	return layout
}

func (s *ProcessingService) LinkLabel() string {
	if s.cfg == nil || s.cfg.Layout.LinkLabel == "" {
		return DefaultLinkLabel
	}
	return s.cfg.Layout.LinkLabel
}

// Process converts req.Text. Pipeline errors (ErrEmptyInput, ErrNoRecords)
// are returned as is; the run is recorded either way.
func (s *ProcessingService) Process(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	layout := s.Layout()
	res := Result{TraceID: util.NewTraceID(), Detect: DetectListing(req.Text, layout)}
	if req.InputHash == "" {
		req.InputHash = util.HashBytes([]byte(req.Text))
	}
	log := zap.L().With(zap.String("trace_id", res.TraceID), zap.String("source", req.Source))

	table, err := ConvertText(req.Text, layout)
	res.Duration = time.Since(start)
	metrics.RunDuration.WithLabelValues(req.Source).Observe(res.Duration.Seconds())
	if err != nil {
		log.Warn("process: conversion failed", zap.Error(err))
		s.record(ctx, log, req, res, internal.RunFailed, err.Error())
		return res, err
	}
	res.Table = table

	if s.cfg == nil || s.cfg.Phone.Validate {
		if col := table.Column(ColumnPhone); col != nil {
			res.SuspectPhones = CountSuspectPhones(col.Values)
		}
		if res.SuspectPhones > 0 {
			metrics.SuspectPhonesTotal.Add(float64(res.SuspectPhones))
			log.Warn("process: phones rejected by libphonenumber", zap.Int("count", res.SuspectPhones))
		}
	}

	metrics.RowsTotal.WithLabelValues(req.Source).Add(float64(table.RowCount()))
	log.Info("process: table ready",
		zap.Int("rows", table.RowCount()),
		zap.Strings("columns", table.Headers()),
		zap.Int("marker_lines", res.Detect.MarkerLines),
		zap.Int("noise_lines", res.Detect.NoiseLines),
		zap.Duration("took", res.Duration),
	)
	s.record(ctx, log, req, res, internal.RunProcessed, "")
	return res, nil
}

// RecordOutcome stores a run for input that never reached the pipeline, such
// as an unreadable file or text that is not a listing.
func (s *ProcessingService) RecordOutcome(ctx context.Context, req Request, status internal.RunStatus, reason string) string {
	res := Result{TraceID: util.NewTraceID()}
	if req.InputHash == "" {
		req.InputHash = util.HashBytes([]byte(req.Text))
	}
	log := zap.L().With(zap.String("trace_id", res.TraceID), zap.String("source", req.Source))
	log.Info("process: input not processed", zap.String("status", string(status)), zap.String("reason", reason))
	s.record(ctx, log, req, res, status, reason)
	return res.TraceID
}

func (s *ProcessingService) record(ctx context.Context, log *zap.Logger, req Request, res Result, status internal.RunStatus, errText string) {
	metrics.RunsTotal.WithLabelValues(req.Source, string(status)).Inc()
	if s.store == nil {
		return
	}

	run := internal.RunRow{
		TraceID:       res.TraceID,
		Source:        req.Source,
		InputHash:     req.InputHash,
		Status:        status,
		ColumnsJSON:   "[]",
		InvalidPhones: res.SuspectPhones,
		DurationMs:    res.Duration.Milliseconds(),
		Error:         errText,
	}
	if res.Table != nil {
		run.Rows = res.Table.RowCount()
		columnsJSON, _ := json.Marshal(res.Table.Headers())
		run.ColumnsJSON = string(columnsJSON)
	}
	if _, err := s.store.InsertRun(ctx, run); err != nil {
		log.Error("process: record run", zap.Error(err))
	}
}
