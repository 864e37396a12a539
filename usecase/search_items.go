package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"sermon-search/domain"
	"sermon-search/port"
	"sermon-search/search_engine"
	"sermon-search/utils"
)

const (
	minPerPage = 1
	maxPerPage = 100

	highlightFragmentSize  = 150
	highlightFragmentCount = 3
)

// searchFields carries the relative weighting: title matches rank highest.
var searchFields = []string{"title^3", "description^2", "speaker^2", "tags^2", "transcript"}

var highlightFields = []string{"title", "description", "speaker", "tags", "transcript"}

// SearchOutput is the normalized response of a search, identical in shape
// whichever path answered.
type SearchOutput struct {
	Results    []domain.SearchResult
	Total      int64
	UsedEngine bool
}

// SearchItemsUsecase orchestrates engine search with transparent degradation
// to an in-process catalog scan. Engine search is a relevance optimization,
// not a correctness dependency: the catalog store is the ground truth, so any
// engine-path failure becomes a logged fallback, never a caller-visible
// error. Only a catalog store failure on the fallback path propagates.
type SearchItemsUsecase struct {
	engine    port.SearchEngine
	catalog   port.CatalogRepository
	sanitizer *utils.QuerySanitizer
	logger    *slog.Logger
}

func NewSearchItemsUsecase(engine port.SearchEngine, catalog port.CatalogRepository, logger *slog.Logger) *SearchItemsUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchItemsUsecase{
		engine:    engine,
		catalog:   catalog,
		sanitizer: utils.NewQuerySanitizer(utils.DefaultMaxQueryLength),
		logger:    logger,
	}
}

// Execute answers a free-text and/or filtered query. page is floored at 1 and
// perPage clamped into [1,100] before either path runs, so page semantics are
// identical regardless of which path answers. A query of "*" (or empty with
// filters) matches everything, letting filters alone drive results.
func (u *SearchItemsUsecase) Execute(ctx context.Context, query string, page, perPage int, filters domain.SearchFilters, viewerID int64) (*SearchOutput, error) {
	if page < 1 {
		page = 1
	}
	if perPage < minPerPage {
		perPage = minPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	query = u.sanitizer.Sanitize(query)

	if err := filters.Validate(); err != nil {
		return nil, err
	}

	if u.engine.Available(ctx) {
		out, err := u.searchEngine(ctx, query, page, perPage, filters, viewerID)
		if err == nil {
			return out, nil
		}
		u.logger.Warn("engine search failed, falling back to catalog scan", "query", query, "err", err)
	}

	return u.searchFallback(ctx, query, page, perPage, filters, viewerID)
}

func (u *SearchItemsUsecase) searchEngine(ctx context.Context, query string, page, perPage int, filters domain.SearchFilters, viewerID int64) (*SearchOutput, error) {
	builder := search_engine.NewQueryBuilder()

	if query != "" && query != "*" {
		builder.AddMultiMatch(query, searchFields, search_engine.FuzzinessAuto)
	}
	if filters.Speaker != "" {
		builder.AddMatchFilter("speaker", filters.Speaker)
	}
	for _, tag := range filters.Tags {
		builder.AddMatchFilter("tags", tag)
	}
	builder.AddHighlight(highlightFields, highlightFragmentSize, highlightFragmentCount)

	offset := (page - 1) * perPage
	hits, total, err := u.engine.Search(ctx, builder.Build(), offset, perPage)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		// Re-fetch canonical fields; the index is derived data and may drift.
		item, err := u.catalog.GetByID(ctx, hit.ItemID, viewerID)
		if errors.Is(err, domain.ErrItemNotFound) {
			u.logger.Warn("dropping engine hit absent from catalog", "item_id", hit.ItemID)
			continue
		}
		if err != nil {
			return nil, err
		}

		result := domain.ResultFromItem(item)
		score := hit.Score
		result.Score = &score
		if len(hit.Highlights) > 0 {
			result.Highlights = hit.Highlights
		}
		results = append(results, result)
	}

	return &SearchOutput{
		Results:    results,
		Total:      total,
		UsedEngine: true,
	}, nil
}

func (u *SearchItemsUsecase) searchFallback(ctx context.Context, query string, page, perPage int, filters domain.SearchFilters, viewerID int64) (*SearchOutput, error) {
	items, err := u.catalog.GetAll(ctx, viewerID)
	if err != nil {
		// No further degradation path: the caller gets an explicit failure
		// rather than a silently empty result set.
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	matchAll := q == "" || q == "*"

	matched := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		if !matchAll &&
			!strings.Contains(strings.ToLower(item.Title()), q) &&
			!strings.Contains(strings.ToLower(item.Description()), q) {
			continue
		}
		if !matchesFilters(item, filters) {
			continue
		}
		matched = append(matched, item)
	}

	total := len(matched)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	results := make([]domain.SearchResult, 0, end-start)
	for _, item := range matched[start:end] {
		results = append(results, domain.ResultFromItem(item))
	}

	return &SearchOutput{
		Results:    results,
		Total:      int64(total),
		UsedEngine: false,
	}, nil
}

// matchesFilters narrows by speaker and tags with case-insensitive substring
// matching, mirroring the engine path's analyzed-text filters.
func matchesFilters(item *domain.Item, filters domain.SearchFilters) bool {
	if filters.Speaker != "" {
		want := strings.ToLower(filters.Speaker)
		found := false
		for _, s := range item.Speakers() {
			if strings.Contains(strings.ToLower(s), want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, tag := range filters.Tags {
		want := strings.ToLower(tag)
		found := false
		for _, t := range item.Tags() {
			if strings.Contains(strings.ToLower(t), want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
