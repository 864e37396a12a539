package indexer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"sermon-search/domain"
	"sermon-search/search_engine"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Mock engine for testing
type mockEngine struct {
	available      bool
	indexExists    bool
	indexExistsErr error
	createErr      error
	deleteIdxErr   error
	indexDocErr    error
	deleteDocErr   error
	bulkErr        error

	createCalls    int
	deleteIdxCalls int
	indexedDocs    []domain.SearchDocument
	deletedIDs     []int64
	bulkBatches    [][]domain.SearchDocument
}

func (m *mockEngine) Available(ctx context.Context) bool      { return m.available }
func (m *mockEngine) ForceReconnect(ctx context.Context) bool { return m.available }

func (m *mockEngine) Search(ctx context.Context, query search_engine.Query, offset, limit int) ([]domain.EngineHit, int64, error) {
	return nil, 0, nil
}

func (m *mockEngine) IndexDocument(ctx context.Context, doc domain.SearchDocument) error {
	if m.indexDocErr != nil {
		return m.indexDocErr
	}
	m.indexedDocs = append(m.indexedDocs, doc)
	return nil
}

func (m *mockEngine) BulkIndex(ctx context.Context, docs []domain.SearchDocument) (int, int, error) {
	if m.bulkErr != nil {
		return 0, 0, m.bulkErr
	}
	m.bulkBatches = append(m.bulkBatches, docs)
	return len(docs), 0, nil
}

func (m *mockEngine) DeleteDocument(ctx context.Context, itemID int64) error {
	if m.deleteDocErr != nil {
		return m.deleteDocErr
	}
	m.deletedIDs = append(m.deletedIDs, itemID)
	return nil
}

func (m *mockEngine) GetDocument(ctx context.Context, itemID int64) (*domain.SearchDocument, error) {
	return nil, domain.ErrItemNotFound
}

func (m *mockEngine) CreateIndex(ctx context.Context) error {
	m.createCalls++
	return m.createErr
}

func (m *mockEngine) DeleteIndex(ctx context.Context) error {
	m.deleteIdxCalls++
	return m.deleteIdxErr
}

func (m *mockEngine) IndexExists(ctx context.Context) (bool, error) {
	return m.indexExists, m.indexExistsErr
}

// Mock catalog for testing
type mockCatalog struct {
	items     []*domain.Item
	getAllErr error
}

func (m *mockCatalog) GetAll(ctx context.Context, viewerID int64) ([]*domain.Item, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	return m.items, nil
}

func (m *mockCatalog) GetByID(ctx context.Context, id, viewerID int64) (*domain.Item, error) {
	for _, item := range m.items {
		if item.ID() == id {
			return item, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func mustItem(t *testing.T, id int64, title string) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(id, title, "", "", 0, nil, nil, nil, "", nil, false, time.Now())
	if err != nil {
		t.Fatalf("building item: %v", err)
	}
	return item
}

func TestIndexer_CreateIndex(t *testing.T) {
	t.Run("creates when absent", func(t *testing.T) {
		engine := &mockEngine{available: true, indexExists: false}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		if !ix.CreateIndex(context.Background()) {
			t.Error("CreateIndex = false, want true")
		}
		if engine.createCalls != 1 {
			t.Errorf("create calls = %d, want 1", engine.createCalls)
		}
	})

	t.Run("existing index is a no-op success", func(t *testing.T) {
		engine := &mockEngine{available: true, indexExists: true}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		if !ix.CreateIndex(context.Background()) {
			t.Error("CreateIndex = false, want true for existing index")
		}
		if engine.createCalls != 0 {
			t.Errorf("create calls = %d, want 0", engine.createCalls)
		}
	})

	t.Run("engine unavailable", func(t *testing.T) {
		engine := &mockEngine{available: false}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		if ix.CreateIndex(context.Background()) {
			t.Error("CreateIndex = true, want false while unavailable")
		}
	})

	t.Run("existence check failure", func(t *testing.T) {
		engine := &mockEngine{available: true, indexExistsErr: errors.New("timeout")}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		if ix.CreateIndex(context.Background()) {
			t.Error("CreateIndex = true, want false on check failure")
		}
	})
}

func TestIndexer_IndexOne(t *testing.T) {
	t.Run("writes the document", func(t *testing.T) {
		engine := &mockEngine{available: true}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		if !ix.IndexOne(context.Background(), mustItem(t, 5, "Sermon")) {
			t.Fatal("IndexOne = false, want true")
		}
		if len(engine.indexedDocs) != 1 || engine.indexedDocs[0].ItemID != 5 {
			t.Errorf("indexed docs = %+v", engine.indexedDocs)
		}
	})

	t.Run("nil item", func(t *testing.T) {
		engine := &mockEngine{available: true}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		if ix.IndexOne(context.Background(), nil) {
			t.Error("IndexOne(nil) = true, want false")
		}
	})

	t.Run("write failure", func(t *testing.T) {
		engine := &mockEngine{available: true, indexDocErr: errors.New("rejected")}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		if ix.IndexOne(context.Background(), mustItem(t, 5, "Sermon")) {
			t.Error("IndexOne = true, want false on write failure")
		}
	})
}

func TestIndexer_DeleteOne(t *testing.T) {
	engine := &mockEngine{available: true}
	ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

	if !ix.DeleteOne(context.Background(), 9) {
		t.Fatal("DeleteOne = false, want true")
	}
	if len(engine.deletedIDs) != 1 || engine.deletedIDs[0] != 9 {
		t.Errorf("deleted ids = %v", engine.deletedIDs)
	}

	if ix.DeleteOne(context.Background(), 0) {
		t.Error("DeleteOne(0) = true, want false")
	}
}

func TestIndexer_BulkIndex(t *testing.T) {
	t.Run("items without identifiers counted failed", func(t *testing.T) {
		engine := &mockEngine{available: true}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		items := []*domain.Item{
			mustItem(t, 1, "One"),
			nil, // lost its identity somewhere upstream
			mustItem(t, 3, "Three"),
		}

		res := ix.BulkIndex(context.Background(), items)
		if res.Success != 2 || res.Failed != 1 {
			t.Errorf("result = %+v, want {Success:2 Failed:1}", res)
		}
		if len(engine.bulkBatches) != 1 || len(engine.bulkBatches[0]) != 2 {
			t.Errorf("bulk batches = %+v", engine.bulkBatches)
		}
	})

	t.Run("engine unavailable fails whole batch", func(t *testing.T) {
		engine := &mockEngine{available: false}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		items := []*domain.Item{mustItem(t, 1, "One"), mustItem(t, 2, "Two")}
		res := ix.BulkIndex(context.Background(), items)
		if res.Success != 0 || res.Failed != 2 {
			t.Errorf("result = %+v, want {Success:0 Failed:2}", res)
		}
		if len(engine.bulkBatches) != 0 {
			t.Error("no bulk write should be attempted while unavailable")
		}
	})

	t.Run("structural failure fails whole batch", func(t *testing.T) {
		engine := &mockEngine{available: true, bulkErr: errors.New("request too large")}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		items := []*domain.Item{mustItem(t, 1, "One"), mustItem(t, 2, "Two")}
		res := ix.BulkIndex(context.Background(), items)
		if res.Success != 0 || res.Failed != 2 {
			t.Errorf("result = %+v, want {Success:0 Failed:2}", res)
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		ix := New(&mockEngine{available: true}, &mockCatalog{}, nil, 0, quietLogger())

		res := ix.BulkIndex(context.Background(), nil)
		if res.Success != 0 || res.Failed != 0 {
			t.Errorf("result = %+v, want zero", res)
		}
	})
}

func TestIndexer_ReindexAll(t *testing.T) {
	t.Run("rebuilds in batches", func(t *testing.T) {
		items := make([]*domain.Item, 0, 5)
		for i := int64(1); i <= 5; i++ {
			items = append(items, mustItem(t, i, "Item"))
		}
		engine := &mockEngine{available: true}
		ix := New(engine, &mockCatalog{items: items}, nil, 2, quietLogger())

		res, err := ix.ReindexAll(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if res.Success != 5 || res.Failed != 0 {
			t.Errorf("result = %+v, want {Success:5 Failed:0}", res)
		}
		if engine.deleteIdxCalls != 1 || engine.createCalls != 1 {
			t.Errorf("delete/create calls = %d/%d, want 1/1", engine.deleteIdxCalls, engine.createCalls)
		}
		if len(engine.bulkBatches) != 3 {
			t.Errorf("bulk batches = %d, want 3 with batch size 2", len(engine.bulkBatches))
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		engine := &mockEngine{available: true}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		res, err := ix.ReindexAll(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Success != 0 || res.Failed != 0 {
			t.Errorf("result = %+v, want zero", res)
		}
		if engine.createCalls != 1 {
			t.Error("index should still be recreated for an empty catalog")
		}
	})

	t.Run("engine unavailable", func(t *testing.T) {
		ix := New(&mockEngine{available: false}, &mockCatalog{}, nil, 0, quietLogger())

		_, err := ix.ReindexAll(context.Background())
		if err == nil {
			t.Fatal("expected error while unavailable")
		}
		var engineErr *domain.SearchEngineError
		if !errors.As(err, &engineErr) {
			t.Errorf("error type = %T, want *domain.SearchEngineError", err)
		}
	})

	t.Run("catalog snapshot failure aborts", func(t *testing.T) {
		engine := &mockEngine{available: true}
		ix := New(engine, &mockCatalog{getAllErr: errors.New("down")}, nil, 0, quietLogger())

		_, err := ix.ReindexAll(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
		if len(engine.bulkBatches) != 0 {
			t.Error("no writes should happen after a snapshot failure")
		}
	})

	t.Run("delete failure aborts before create", func(t *testing.T) {
		engine := &mockEngine{available: true, deleteIdxErr: errors.New("locked")}
		ix := New(engine, &mockCatalog{}, nil, 0, quietLogger())

		_, err := ix.ReindexAll(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
		if engine.createCalls != 0 {
			t.Error("create should not run after delete failure")
		}
	})
}
