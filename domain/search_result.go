package domain

// SearchResult is the normalized output unit of the search service. The shape
// is identical whichever path produced it; Score and Highlights are only set
// for engine-sourced hits.
type SearchResult struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Thumbnail   string              `json:"thumbnail"`
	Speaker     string              `json:"speaker"`
	Tags        []string            `json:"tags"`
	Duration    int                 `json:"duration"`
	Watched     bool                `json:"watched"`
	Score       *float64            `json:"score,omitempty"`
	Highlights  map[string][]string `json:"highlights,omitempty"`
}

// ResultFromItem normalizes a catalog item into a SearchResult with no
// relevance metadata. Both paths use it so the canonical fields always come
// from the catalog.
func ResultFromItem(item *Item) SearchResult {
	tags := item.Tags()
	if tags == nil {
		tags = []string{}
	}

	speaker := ""
	if len(item.Speakers()) > 0 {
		speaker = item.Speakers()[0]
	}

	return SearchResult{
		ID:          item.ID(),
		Title:       item.Title(),
		Description: item.Description(),
		Thumbnail:   item.Thumbnail(),
		Speaker:     speaker,
		Tags:        tags,
		Duration:    item.Duration(),
		Watched:     item.Watched(),
	}
}

// EngineHit is one scored hit returned by the search engine before it is
// merged with catalog-canonical fields.
type EngineHit struct {
	ItemID     int64
	Score      float64
	Highlights map[string][]string
	Document   SearchDocument
}
