package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sermon-search/search_engine"
)

// indexMapping is the fixed schema for the video index. Documents are written
// wholesale, so there is no field-level migration concern beyond recreating
// the index.
const indexMapping = `{
	"mappings": {
		"properties": {
			"item_id":         {"type": "long"},
			"title":           {"type": "text"},
			"description":     {"type": "text"},
			"tags":            {"type": "text"},
			"speaker":         {"type": "text"},
			"bible_character": {"type": "text"},
			"location":        {"type": "text"},
			"scriptures":      {"type": "text"},
			"transcript":      {"type": "text"},
			"transcript_chunks": {
				"type": "nested",
				"properties": {
					"timestamp": {"type": "keyword"},
					"text":      {"type": "text"}
				}
			}
		}
	}
}`

// EngineDriver wraps the health-monitored Elasticsearch handle with the raw
// index and search calls the gateway needs.
type EngineDriver struct {
	client  *search_engine.Client
	index   string
	timeout time.Duration
}

func NewEngineDriver(client *search_engine.Client, indexName string, timeout time.Duration) *EngineDriver {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &EngineDriver{
		client:  client,
		index:   indexName,
		timeout: timeout,
	}
}

// Available reports the cached engine health.
func (d *EngineDriver) Available(ctx context.Context) bool {
	return d.client.IsAvailable(ctx)
}

// ForceReconnect probes the engine immediately.
func (d *EngineDriver) ForceReconnect(ctx context.Context) bool {
	return d.client.ForceReconnect(ctx)
}

// SearchDocuments executes a built query with offset+limit paging.
func (d *EngineDriver) SearchDocuments(ctx context.Context, query search_engine.Query, offset, limit int) ([]SearchHitRow, int64, error) {
	es, ok := d.client.Conn(ctx)
	if !ok {
		return nil, 0, &DriverError{Op: "SearchDocuments", Err: "engine unavailable"}
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, 0, &DriverError{Op: "SearchDocuments", Err: "marshal query: " + err.Error()}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := es.Search(
		es.Search.WithContext(callCtx),
		es.Search.WithIndex(d.index),
		es.Search.WithBody(bytes.NewReader(body)),
		es.Search.WithFrom(offset),
		es.Search.WithSize(limit),
		es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, &DriverError{Op: "SearchDocuments", Err: err.Error()}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, &DriverError{Op: "SearchDocuments", Err: "search request failed: " + res.Status()}
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Score     float64             `json:"_score"`
				Source    DocumentRow         `json:"_source"`
				Highlight map[string][]string `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, &DriverError{Op: "SearchDocuments", Err: "decode response: " + err.Error()}
	}

	hits := make([]SearchHitRow, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, SearchHitRow{
			ItemID:     h.Source.ItemID,
			Score:      h.Score,
			Highlights: h.Highlight,
			Document:   h.Source,
		})
	}

	return hits, parsed.Hits.Total.Value, nil
}

// IndexDocument writes or overwrites one document keyed by its item id.
func (d *EngineDriver) IndexDocument(ctx context.Context, doc DocumentRow) error {
	es, ok := d.client.Conn(ctx)
	if !ok {
		return &DriverError{Op: "IndexDocument", Err: "engine unavailable"}
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return &DriverError{Op: "IndexDocument", Err: "marshal document: " + err.Error()}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := es.Index(
		d.index,
		bytes.NewReader(body),
		es.Index.WithContext(callCtx),
		es.Index.WithDocumentID(strconv.FormatInt(doc.ItemID, 10)),
	)
	if err != nil {
		return &DriverError{Op: "IndexDocument", Err: err.Error()}
	}
	defer res.Body.Close()

	if res.IsError() {
		return &DriverError{Op: "IndexDocument", Err: "index request failed: " + res.Status()}
	}

	return nil
}

// BulkIndexDocuments streams a batch through one bulk request and accounts
// per-item outcomes from the response. The returned error means the whole
// batch failed structurally.
func (d *EngineDriver) BulkIndexDocuments(ctx context.Context, docs []DocumentRow) (int, int, error) {
	if len(docs) == 0 {
		return 0, 0, nil
	}

	es, ok := d.client.Conn(ctx)
	if !ok {
		return 0, 0, &DriverError{Op: "BulkIndexDocuments", Err: "engine unavailable"}
	}

	var buf bytes.Buffer
	for _, doc := range docs {
		meta := fmt.Sprintf(`{"index":{"_id":"%d"}}`, doc.ItemID)
		buf.WriteString(meta)
		buf.WriteByte('\n')

		line, err := json.Marshal(doc)
		if err != nil {
			return 0, 0, &DriverError{Op: "BulkIndexDocuments", Err: "marshal document: " + err.Error()}
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := es.Bulk(
		&buf,
		es.Bulk.WithContext(callCtx),
		es.Bulk.WithIndex(d.index),
	)
	if err != nil {
		return 0, 0, &DriverError{Op: "BulkIndexDocuments", Err: err.Error()}
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, 0, &DriverError{Op: "BulkIndexDocuments", Err: "bulk request failed: " + res.Status()}
	}

	var parsed struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, 0, &DriverError{Op: "BulkIndexDocuments", Err: "decode response: " + err.Error()}
	}

	succeeded, failed := 0, 0
	for _, item := range parsed.Items {
		for _, action := range item {
			if action.Status >= 200 && action.Status < 300 {
				succeeded++
			} else {
				failed++
			}
		}
	}

	return succeeded, failed, nil
}

// DeleteDocument removes one document; a missing document is not an error.
func (d *EngineDriver) DeleteDocument(ctx context.Context, itemID int64) error {
	es, ok := d.client.Conn(ctx)
	if !ok {
		return &DriverError{Op: "DeleteDocument", Err: "engine unavailable"}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := es.Delete(
		d.index,
		strconv.FormatInt(itemID, 10),
		es.Delete.WithContext(callCtx),
	)
	if err != nil {
		return &DriverError{Op: "DeleteDocument", Err: err.Error()}
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return &DriverError{Op: "DeleteDocument", Err: "delete request failed: " + res.Status()}
	}

	return nil
}

// GetDocument fetches one stored document, or (nil, nil) when absent.
func (d *EngineDriver) GetDocument(ctx context.Context, itemID int64) (*DocumentRow, error) {
	es, ok := d.client.Conn(ctx)
	if !ok {
		return nil, &DriverError{Op: "GetDocument", Err: "engine unavailable"}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := es.Get(
		d.index,
		strconv.FormatInt(itemID, 10),
		es.Get.WithContext(callCtx),
	)
	if err != nil {
		return nil, &DriverError{Op: "GetDocument", Err: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.IsError() {
		return nil, &DriverError{Op: "GetDocument", Err: "get request failed: " + res.Status()}
	}

	var parsed struct {
		Source DocumentRow `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, &DriverError{Op: "GetDocument", Err: "decode response: " + err.Error()}
	}

	return &parsed.Source, nil
}

// CreateIndex creates the index with the fixed mapping. Creating an index
// that already exists is the caller's idempotence concern; see IndexExists.
func (d *EngineDriver) CreateIndex(ctx context.Context) error {
	es, ok := d.client.Conn(ctx)
	if !ok {
		return &DriverError{Op: "CreateIndex", Err: "engine unavailable"}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := es.Indices.Create(
		d.index,
		es.Indices.Create.WithContext(callCtx),
		es.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
	)
	if err != nil {
		return &DriverError{Op: "CreateIndex", Err: err.Error()}
	}
	defer res.Body.Close()

	if res.IsError() {
		return &DriverError{Op: "CreateIndex", Err: "create request failed: " + res.Status()}
	}

	return nil
}

// DeleteIndex removes the index; a missing index is not an error.
func (d *EngineDriver) DeleteIndex(ctx context.Context) error {
	es, ok := d.client.Conn(ctx)
	if !ok {
		return &DriverError{Op: "DeleteIndex", Err: "engine unavailable"}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := es.Indices.Delete(
		[]string{d.index},
		es.Indices.Delete.WithContext(callCtx),
		es.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return &DriverError{Op: "DeleteIndex", Err: err.Error()}
	}
	defer res.Body.Close()

	if res.IsError() {
		return &DriverError{Op: "DeleteIndex", Err: "delete request failed: " + res.Status()}
	}

	return nil
}

// IndexExists reports whether the index is present.
func (d *EngineDriver) IndexExists(ctx context.Context) (bool, error) {
	es, ok := d.client.Conn(ctx)
	if !ok {
		return false, &DriverError{Op: "IndexExists", Err: "engine unavailable"}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := es.Indices.Exists(
		[]string{d.index},
		es.Indices.Exists.WithContext(callCtx),
	)
	if err != nil {
		return false, &DriverError{Op: "IndexExists", Err: err.Error()}
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &DriverError{Op: "IndexExists", Err: "exists request failed: " + res.Status()}
	}
}
