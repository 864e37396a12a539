package gateway

import (
	"context"
	"errors"
	"testing"

	"sermon-search/domain"
	"sermon-search/driver"
	"sermon-search/search_engine"
)

// Mock engine driver for testing
type mockEngineDriver struct {
	available bool
	hits      []driver.SearchHitRow
	total     int64
	doc       *driver.DocumentRow

	searchErr error
	indexErr  error
	bulkErr   error
	getErr    error

	indexedDocs []driver.DocumentRow
	bulkDocs    []driver.DocumentRow
	deletedIDs  []int64
}

func (m *mockEngineDriver) Available(ctx context.Context) bool      { return m.available }
func (m *mockEngineDriver) ForceReconnect(ctx context.Context) bool { return m.available }

func (m *mockEngineDriver) SearchDocuments(ctx context.Context, query search_engine.Query, offset, limit int) ([]driver.SearchHitRow, int64, error) {
	if m.searchErr != nil {
		return nil, 0, m.searchErr
	}
	return m.hits, m.total, nil
}

func (m *mockEngineDriver) IndexDocument(ctx context.Context, doc driver.DocumentRow) error {
	if m.indexErr != nil {
		return m.indexErr
	}
	m.indexedDocs = append(m.indexedDocs, doc)
	return nil
}

func (m *mockEngineDriver) BulkIndexDocuments(ctx context.Context, docs []driver.DocumentRow) (int, int, error) {
	if m.bulkErr != nil {
		return 0, 0, m.bulkErr
	}
	m.bulkDocs = append(m.bulkDocs, docs...)
	return len(docs), 0, nil
}

func (m *mockEngineDriver) DeleteDocument(ctx context.Context, itemID int64) error {
	m.deletedIDs = append(m.deletedIDs, itemID)
	return nil
}

func (m *mockEngineDriver) GetDocument(ctx context.Context, itemID int64) (*driver.DocumentRow, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.doc, nil
}

func (m *mockEngineDriver) CreateIndex(ctx context.Context) error { return nil }
func (m *mockEngineDriver) DeleteIndex(ctx context.Context) error { return nil }

func (m *mockEngineDriver) IndexExists(ctx context.Context) (bool, error) { return true, nil }

func TestSearchEngineGateway_Search(t *testing.T) {
	t.Run("converts hits to domain", func(t *testing.T) {
		g := NewSearchEngineGateway(&mockEngineDriver{
			total: 12,
			hits: []driver.SearchHitRow{
				{
					ItemID:     4,
					Score:      3.5,
					Highlights: map[string][]string{"transcript": {"<mark>faith</mark>"}},
					Document: driver.DocumentRow{
						ItemID: 4,
						Title:  "Indexed Title",
						TranscriptChunks: []driver.ChunkRow{
							{Timestamp: "00:00:01.000", Text: "text"},
						},
					},
				},
			},
		})

		hits, total, err := g.Search(context.Background(), search_engine.Query{}, 0, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 12 {
			t.Errorf("total = %d, want 12", total)
		}
		if len(hits) != 1 {
			t.Fatalf("hits = %d, want 1", len(hits))
		}
		if hits[0].ItemID != 4 || hits[0].Score != 3.5 {
			t.Errorf("hit = %+v", hits[0])
		}
		if hits[0].Document.Title != "Indexed Title" {
			t.Errorf("document title = %q", hits[0].Document.Title)
		}
		if len(hits[0].Document.TranscriptChunks) != 1 {
			t.Errorf("chunks = %+v", hits[0].Document.TranscriptChunks)
		}
	})

	t.Run("driver error wrapped as search engine error", func(t *testing.T) {
		g := NewSearchEngineGateway(&mockEngineDriver{
			searchErr: &driver.DriverError{Op: "SearchDocuments", Err: "engine unavailable"},
		})

		_, _, err := g.Search(context.Background(), search_engine.Query{}, 0, 10)
		var engineErr *domain.SearchEngineError
		if !errors.As(err, &engineErr) {
			t.Errorf("error type = %T, want *domain.SearchEngineError", err)
		}
	})
}

func TestSearchEngineGateway_IndexDocument(t *testing.T) {
	drv := &mockEngineDriver{}
	g := NewSearchEngineGateway(drv)

	doc := domain.SearchDocument{
		ItemID: 8,
		Title:  "Sermon",
		TranscriptChunks: []domain.TranscriptChunk{
			{Timestamp: "00:00:01.000", Text: "hello"},
		},
	}

	if err := g.IndexDocument(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drv.indexedDocs) != 1 {
		t.Fatalf("indexed = %d, want 1", len(drv.indexedDocs))
	}

	row := drv.indexedDocs[0]
	if row.ItemID != 8 || row.Title != "Sermon" {
		t.Errorf("row = %+v", row)
	}
	if len(row.TranscriptChunks) != 1 || row.TranscriptChunks[0].Text != "hello" {
		t.Errorf("chunk conversion = %+v", row.TranscriptChunks)
	}
}

func TestSearchEngineGateway_BulkIndex(t *testing.T) {
	t.Run("converts and forwards counts", func(t *testing.T) {
		drv := &mockEngineDriver{}
		g := NewSearchEngineGateway(drv)

		docs := []domain.SearchDocument{{ItemID: 1}, {ItemID: 2}}
		succeeded, failed, err := g.BulkIndex(context.Background(), docs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if succeeded != 2 || failed != 0 {
			t.Errorf("counts = %d/%d", succeeded, failed)
		}
		if len(drv.bulkDocs) != 2 {
			t.Errorf("driver received %d docs", len(drv.bulkDocs))
		}
	})

	t.Run("empty batch skips the driver", func(t *testing.T) {
		drv := &mockEngineDriver{bulkErr: errors.New("should not be called")}
		g := NewSearchEngineGateway(drv)

		succeeded, failed, err := g.BulkIndex(context.Background(), nil)
		if err != nil || succeeded != 0 || failed != 0 {
			t.Errorf("got %d/%d/%v", succeeded, failed, err)
		}
	})

	t.Run("structural error wrapped", func(t *testing.T) {
		g := NewSearchEngineGateway(&mockEngineDriver{bulkErr: errors.New("too large")})

		_, _, err := g.BulkIndex(context.Background(), []domain.SearchDocument{{ItemID: 1}})
		var engineErr *domain.SearchEngineError
		if !errors.As(err, &engineErr) {
			t.Errorf("error type = %T, want *domain.SearchEngineError", err)
		}
	})
}

func TestSearchEngineGateway_GetDocument(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		g := NewSearchEngineGateway(&mockEngineDriver{
			doc: &driver.DocumentRow{ItemID: 5, Title: "Stored"},
		})

		doc, err := g.GetDocument(context.Background(), 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.ItemID != 5 || doc.Title != "Stored" {
			t.Errorf("doc = %+v", doc)
		}
	})

	t.Run("absent maps to ErrItemNotFound", func(t *testing.T) {
		g := NewSearchEngineGateway(&mockEngineDriver{})

		_, err := g.GetDocument(context.Background(), 5)
		if !errors.Is(err, domain.ErrItemNotFound) {
			t.Errorf("err = %v, want ErrItemNotFound", err)
		}
	})
}

func TestSearchEngineGateway_DeleteDocument(t *testing.T) {
	drv := &mockEngineDriver{}
	g := NewSearchEngineGateway(drv)

	if err := g.DeleteDocument(context.Background(), 11); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drv.deletedIDs) != 1 || drv.deletedIDs[0] != 11 {
		t.Errorf("deleted = %v", drv.deletedIDs)
	}
}
