package usecase

import (
	"context"
	"log/slog"
	"time"

	"sermon-search/port"
)

// StatusReport is the timestamped health view of the search subsystem.
type StatusReport struct {
	EngineAvailable bool      `json:"engine_available"`
	IndexExists     bool      `json:"index_exists"`
	FallbackActive  bool      `json:"fallback_active"`
	CheckedAt       time.Time `json:"checked_at"`
}

// StatusUsecase reports engine availability, index existence and whether
// searches are currently answered by the fallback scan.
type StatusUsecase struct {
	engine port.SearchEngine
	logger *slog.Logger
}

func NewStatusUsecase(engine port.SearchEngine, logger *slog.Logger) *StatusUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusUsecase{
		engine: engine,
		logger: logger,
	}
}

func (u *StatusUsecase) Execute(ctx context.Context) *StatusReport {
	report := &StatusReport{
		CheckedAt: time.Now().UTC(),
	}

	report.EngineAvailable = u.engine.Available(ctx)
	if report.EngineAvailable {
		exists, err := u.engine.IndexExists(ctx)
		if err != nil {
			u.logger.Warn("status index check failed", "err", err)
		}
		report.IndexExists = exists
	}

	report.FallbackActive = !report.EngineAvailable || !report.IndexExists
	return report
}
