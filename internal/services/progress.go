package services

import (
	"context"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
)

// ProgressEvent is emitted after each document of a screening run.
type ProgressEvent struct {
	ScreeningID string  `json:"screening_id"`
	Candidate   string  `json:"candidate"`
	Processed   int     `json:"processed"`
	Total       int     `json:"total"`
	Score       float64 `json:"score"`
	Fallback    bool    `json:"fallback"`
}

// Fraction is the completed share of the run, in [0, 1].
func (e ProgressEvent) Fraction() float64 {
	if e.Total <= 0 {
		return 0
	}
	return float64(e.Processed) / float64(e.Total)
}

// ProgressReporter receives progress events. Implementations must not fail
// the run: delivery problems are theirs to log.
type ProgressReporter interface {
	Report(ctx context.Context, event ProgressEvent)
}

type NopReporter struct{}

func (NopReporter) Report(context.Context, ProgressEvent) {}

// LogReporter writes progress to the structured log.
type LogReporter struct {
	logger *zap.Logger
}

func NewLogReporter(log *zap.Logger) *LogReporter {
	return &LogReporter{logger: logger.OrNop(log)}
}

func (r *LogReporter) Report(_ context.Context, event ProgressEvent) {
	r.logger.Info("resume screened",
		logger.ScreeningID(event.ScreeningID),
		logger.Candidate(event.Candidate),
		zap.Int("processed", event.Processed),
		zap.Int("total", event.Total),
		zap.Float64("score", event.Score),
		zap.Bool("fallback", event.Fallback),
	)
}

// MultiReporter fans an event out to every reporter in order.
type MultiReporter []ProgressReporter

func (m MultiReporter) Report(ctx context.Context, event ProgressEvent) {
	for _, r := range m {
		if r != nil {
			r.Report(ctx, event)
		}
	}
}
