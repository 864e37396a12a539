package gateway

import (
	"context"
	"strconv"

	"sermon-search/domain"
	"sermon-search/driver"
	"sermon-search/search_engine"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// EngineDriver is the slice of the Elasticsearch driver this gateway needs.
type EngineDriver interface {
	Available(ctx context.Context) bool
	ForceReconnect(ctx context.Context) bool
	SearchDocuments(ctx context.Context, query search_engine.Query, offset, limit int) ([]driver.SearchHitRow, int64, error)
	IndexDocument(ctx context.Context, doc driver.DocumentRow) error
	BulkIndexDocuments(ctx context.Context, docs []driver.DocumentRow) (int, int, error)
	DeleteDocument(ctx context.Context, itemID int64) error
	GetDocument(ctx context.Context, itemID int64) (*driver.DocumentRow, error)
	CreateIndex(ctx context.Context) error
	DeleteIndex(ctx context.Context) error
	IndexExists(ctx context.Context) (bool, error)
}

// SearchEngineGateway converts between driver documents and domain documents
// and wraps driver errors into search engine errors.
type SearchEngineGateway struct {
	driver EngineDriver
}

func NewSearchEngineGateway(driver EngineDriver) *SearchEngineGateway {
	return &SearchEngineGateway{
		driver: driver,
	}
}

func (g *SearchEngineGateway) Available(ctx context.Context) bool {
	return g.driver.Available(ctx)
}

func (g *SearchEngineGateway) ForceReconnect(ctx context.Context) bool {
	return g.driver.ForceReconnect(ctx)
}

func (g *SearchEngineGateway) Search(ctx context.Context, query search_engine.Query, offset, limit int) ([]domain.EngineHit, int64, error) {
	rows, total, err := g.driver.SearchDocuments(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, &domain.SearchEngineError{
			Op:  "Search",
			Err: err.Error(),
		}
	}

	hits := make([]domain.EngineHit, len(rows))
	for i, row := range rows {
		hits[i] = domain.EngineHit{
			ItemID:     row.ItemID,
			Score:      row.Score,
			Highlights: row.Highlights,
			Document:   convertDocToDomain(row.Document),
		}
	}

	return hits, total, nil
}

func (g *SearchEngineGateway) IndexDocument(ctx context.Context, doc domain.SearchDocument) error {
	if err := g.driver.IndexDocument(ctx, convertDocToDriver(doc)); err != nil {
		return &domain.SearchEngineError{
			Op:  "IndexDocument",
			Err: err.Error(),
		}
	}
	return nil
}

func (g *SearchEngineGateway) BulkIndex(ctx context.Context, docs []domain.SearchDocument) (int, int, error) {
	if len(docs) == 0 {
		return 0, 0, nil
	}

	driverDocs := make([]driver.DocumentRow, len(docs))
	for i, doc := range docs {
		driverDocs[i] = convertDocToDriver(doc)
	}

	succeeded, failed, err := g.driver.BulkIndexDocuments(ctx, driverDocs)
	if err != nil {
		return 0, 0, &domain.SearchEngineError{
			Op:  "BulkIndex",
			Err: err.Error(),
		}
	}

	return succeeded, failed, nil
}

func (g *SearchEngineGateway) DeleteDocument(ctx context.Context, itemID int64) error {
	if err := g.driver.DeleteDocument(ctx, itemID); err != nil {
		return &domain.SearchEngineError{
			Op:  "DeleteDocument",
			Err: err.Error(),
		}
	}
	return nil
}

func (g *SearchEngineGateway) GetDocument(ctx context.Context, itemID int64) (*domain.SearchDocument, error) {
	row, err := g.driver.GetDocument(ctx, itemID)
	if err != nil {
		return nil, &domain.SearchEngineError{
			Op:  "GetDocument",
			Err: err.Error(),
		}
	}
	if row == nil {
		return nil, domain.ErrItemNotFound
	}

	doc := convertDocToDomain(*row)
	return &doc, nil
}

func (g *SearchEngineGateway) CreateIndex(ctx context.Context) error {
	if err := g.driver.CreateIndex(ctx); err != nil {
		return &domain.SearchEngineError{
			Op:  "CreateIndex",
			Err: err.Error(),
		}
	}
	return nil
}

func (g *SearchEngineGateway) DeleteIndex(ctx context.Context) error {
	if err := g.driver.DeleteIndex(ctx); err != nil {
		return &domain.SearchEngineError{
			Op:  "DeleteIndex",
			Err: err.Error(),
		}
	}
	return nil
}

func (g *SearchEngineGateway) IndexExists(ctx context.Context) (bool, error) {
	exists, err := g.driver.IndexExists(ctx)
	if err != nil {
		return false, &domain.SearchEngineError{
			Op:  "IndexExists",
			Err: err.Error(),
		}
	}
	return exists, nil
}

func convertDocToDriver(doc domain.SearchDocument) driver.DocumentRow {
	chunks := make([]driver.ChunkRow, len(doc.TranscriptChunks))
	for i, c := range doc.TranscriptChunks {
		chunks[i] = driver.ChunkRow{Timestamp: c.Timestamp, Text: c.Text}
	}

	return driver.DocumentRow{
		ItemID:           doc.ItemID,
		Title:            doc.Title,
		Description:      doc.Description,
		Tags:             doc.Tags,
		Speaker:          doc.Speaker,
		BibleCharacter:   doc.BibleCharacter,
		Location:         doc.Location,
		Scriptures:       doc.Scriptures,
		Transcript:       doc.Transcript,
		TranscriptChunks: chunks,
	}
}

func convertDocToDomain(row driver.DocumentRow) domain.SearchDocument {
	chunks := make([]domain.TranscriptChunk, len(row.TranscriptChunks))
	for i, c := range row.TranscriptChunks {
		chunks[i] = domain.TranscriptChunk{Timestamp: c.Timestamp, Text: c.Text}
	}

	return domain.SearchDocument{
		ItemID:           row.ItemID,
		Title:            row.Title,
		Description:      row.Description,
		Tags:             row.Tags,
		Speaker:          row.Speaker,
		BibleCharacter:   row.BibleCharacter,
		Location:         row.Location,
		Scriptures:       row.Scriptures,
		Transcript:       row.Transcript,
		TranscriptChunks: chunks,
	}
}
