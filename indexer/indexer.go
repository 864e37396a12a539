// Package indexer owns index lifecycle and document writes.
package indexer

import (
	"context"
	"log/slog"

	"sermon-search/domain"
	"sermon-search/port"
	"sermon-search/transcript"
)

// BulkResult accounts per-item outcomes of a batched write.
type BulkResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// Indexer shapes catalog items plus parsed transcripts into search documents
// and writes them to the engine. Structural failures abort a whole operation;
// per-document failures never abort a batch.
type Indexer struct {
	engine      port.SearchEngine
	catalog     port.CatalogRepository
	transcripts *transcript.Loader
	batchSize   int
	logger      *slog.Logger
}

func New(engine port.SearchEngine, catalog port.CatalogRepository, transcripts *transcript.Loader, batchSize int, logger *slog.Logger) *Indexer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		engine:      engine,
		catalog:     catalog,
		transcripts: transcripts,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// CreateIndex creates the index with its fixed mapping. An already-existing
// index is a no-op success.
func (ix *Indexer) CreateIndex(ctx context.Context) bool {
	if !ix.engine.Available(ctx) {
		ix.logger.Error("create index skipped, engine unavailable")
		return false
	}

	exists, err := ix.engine.IndexExists(ctx)
	if err != nil {
		ix.logger.Error("create index failed checking existence", "err", err)
		return false
	}
	if exists {
		return true
	}

	if err := ix.engine.CreateIndex(ctx); err != nil {
		ix.logger.Error("create index failed", "err", err)
		return false
	}

	ix.logger.Info("index created")
	return true
}

// DeleteIndex removes the index. A missing index is a success.
func (ix *Indexer) DeleteIndex(ctx context.Context) bool {
	if !ix.engine.Available(ctx) {
		ix.logger.Error("delete index skipped, engine unavailable")
		return false
	}

	if err := ix.engine.DeleteIndex(ctx); err != nil {
		ix.logger.Error("delete index failed", "err", err)
		return false
	}

	return true
}

// IndexOne writes one item's document, keyed by its catalog identifier.
// Transcript absence only leaves the transcript fields empty.
func (ix *Indexer) IndexOne(ctx context.Context, item *domain.Item) bool {
	if item == nil || item.ID() <= 0 {
		ix.logger.Error("index one skipped, item has no identifier")
		return false
	}

	doc := ix.buildDocument(item)
	if err := ix.engine.IndexDocument(ctx, doc); err != nil {
		ix.logger.Error("index one failed", "item_id", item.ID(), "err", err)
		return false
	}

	return true
}

// DeleteOne removes one item's document from the index.
func (ix *Indexer) DeleteOne(ctx context.Context, itemID int64) bool {
	if itemID <= 0 {
		return false
	}

	if err := ix.engine.DeleteDocument(ctx, itemID); err != nil {
		ix.logger.Error("delete one failed", "item_id", itemID, "err", err)
		return false
	}

	return true
}

// BulkIndex streams a batch of items through one bulk write. Items without an
// identifier are counted failed and skipped without a write attempt; engine
// unavailability fails the whole batch without attempting it.
func (ix *Indexer) BulkIndex(ctx context.Context, items []*domain.Item) BulkResult {
	if len(items) == 0 {
		return BulkResult{}
	}

	if !ix.engine.Available(ctx) {
		ix.logger.Error("bulk index aborted, engine unavailable", "count", len(items))
		return BulkResult{Failed: len(items)}
	}

	skipped := 0
	docs := make([]domain.SearchDocument, 0, len(items))
	for _, item := range items {
		if item == nil || item.ID() <= 0 {
			ix.logger.Warn("bulk index skipping item without identifier")
			skipped++
			continue
		}
		docs = append(docs, ix.buildDocument(item))
	}

	succeeded, failed, err := ix.engine.BulkIndex(ctx, docs)
	if err != nil {
		ix.logger.Error("bulk index failed", "count", len(items), "err", err)
		return BulkResult{Failed: len(items)}
	}

	return BulkResult{Success: succeeded, Failed: failed + skipped}
}

// ReindexAll is the destructive full rebuild: delete, recreate, snapshot the
// catalog, bulk index in batches. Structural failures abort with zero
// progress.
func (ix *Indexer) ReindexAll(ctx context.Context) (BulkResult, error) {
	if !ix.engine.Available(ctx) {
		return BulkResult{}, &domain.SearchEngineError{Op: "ReindexAll", Err: "engine unavailable"}
	}

	if err := ix.engine.DeleteIndex(ctx); err != nil {
		return BulkResult{}, err
	}
	if err := ix.engine.CreateIndex(ctx); err != nil {
		return BulkResult{}, err
	}

	items, err := ix.catalog.GetAll(ctx, 0)
	if err != nil {
		return BulkResult{}, err
	}
	if len(items) == 0 {
		ix.logger.Info("reindex complete, catalog empty")
		return BulkResult{}, nil
	}

	var total BulkResult
	for start := 0; start < len(items); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(items) {
			end = len(items)
		}
		res := ix.BulkIndex(ctx, items[start:end])
		total.Success += res.Success
		total.Failed += res.Failed
	}

	ix.logger.Info("reindex complete", "success", total.Success, "failed", total.Failed)
	return total, nil
}

func (ix *Indexer) buildDocument(item *domain.Item) domain.SearchDocument {
	var tr *domain.Transcript
	if ix.transcripts != nil {
		tr = ix.transcripts.Load(item.ID())
	}
	return domain.NewSearchDocument(item, tr)
}
