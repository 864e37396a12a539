package port

import (
	"context"

	"sermon-search/domain"
	"sermon-search/search_engine"
)

// SearchEngine is the contract to the full-text engine. Every method that
// talks to the engine returns an error the orchestrator can inspect; the
// fallback decision is an explicit branch, not exception flow.
type SearchEngine interface {
	// Available reports the cached, periodically-refreshed health belief.
	Available(ctx context.Context) bool
	// ForceReconnect bypasses the probe interval and probes immediately.
	ForceReconnect(ctx context.Context) bool

	// Search executes a built query with offset+limit paging and returns the
	// scored hits plus the engine's total hit count.
	Search(ctx context.Context, query search_engine.Query, offset, limit int) ([]domain.EngineHit, int64, error)

	// IndexDocument writes or overwrites one document keyed by its item ID.
	IndexDocument(ctx context.Context, doc domain.SearchDocument) error
	// BulkIndex writes a batch through one bulk request and reports per-item
	// success/failure counts. The error is structural (whole batch failed).
	BulkIndex(ctx context.Context, docs []domain.SearchDocument) (succeeded, failed int, err error)
	// DeleteDocument removes one document by item ID.
	DeleteDocument(ctx context.Context, itemID int64) error
	// GetDocument fetches one stored document, or domain.ErrItemNotFound.
	GetDocument(ctx context.Context, itemID int64) (*domain.SearchDocument, error)

	CreateIndex(ctx context.Context) error
	DeleteIndex(ctx context.Context) error
	IndexExists(ctx context.Context) (bool, error)
}
