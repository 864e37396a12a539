package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sermon-search/indexer"
	"sermon-search/port"
)

// FullReindexer is the slice of the indexer the reindex usecase drives.
type FullReindexer interface {
	ReindexAll(ctx context.Context) (indexer.BulkResult, error)
}

// ReindexReport describes one administrative rebuild.
type ReindexReport struct {
	JobID    string        `json:"job_id"`
	Success  int           `json:"success"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"-"`
}

// ReindexUsecase runs the destructive full rebuild. It forces a fresh health
// probe first so an engine that recovered inside the probe interval is not
// mistaken for down.
type ReindexUsecase struct {
	engine    port.SearchEngine
	reindexer FullReindexer
	logger    *slog.Logger
}

func NewReindexUsecase(engine port.SearchEngine, reindexer FullReindexer, logger *slog.Logger) *ReindexUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReindexUsecase{
		engine:    engine,
		reindexer: reindexer,
		logger:    logger,
	}
}

func (u *ReindexUsecase) Execute(ctx context.Context) (*ReindexReport, error) {
	jobID := uuid.NewString()
	start := time.Now()

	u.logger.Info("reindex started", "job_id", jobID)
	u.engine.ForceReconnect(ctx)

	result, err := u.reindexer.ReindexAll(ctx)
	if err != nil {
		u.logger.Error("reindex failed", "job_id", jobID, "err", err)
		return nil, err
	}

	report := &ReindexReport{
		JobID:    jobID,
		Success:  result.Success,
		Failed:   result.Failed,
		Duration: time.Since(start),
	}

	u.logger.Info("reindex finished",
		"job_id", jobID,
		"success", report.Success,
		"failed", report.Failed,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}
