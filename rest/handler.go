// Package rest exposes the HTTP surface of the search service.
package rest

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"sermon-search/domain"
	"sermon-search/usecase"
)

// Handler contains all HTTP handlers for the search service.
type Handler struct {
	search  *usecase.SearchItemsUsecase
	reindex *usecase.ReindexUsecase
	status  *usecase.StatusUsecase
	logger  *slog.Logger
}

func NewHandler(search *usecase.SearchItemsUsecase, reindex *usecase.ReindexUsecase, status *usecase.StatusUsecase, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		search:  search,
		reindex: reindex,
		status:  status,
		logger:  logger,
	}
}

// Register mounts all routes on the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/v1/search", h.SearchItems)
	e.GET("/v1/status", h.Status)
	e.POST("/v1/admin/reindex", h.Reindex)
}

type SearchResponse struct {
	Query      string                `json:"query"`
	Results    []domain.SearchResult `json:"results"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	UsedEngine bool                  `json:"used_engine"`
}

type ReindexResponse struct {
	JobID      string `json:"job_id"`
	Success    int    `json:"success"`
	Failed     int    `json:"failed"`
	DurationMS int64  `json:"duration_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SearchItems answers GET /v1/search. Pagination values are clamped rather
// than rejected; only malformed filter values produce a 400.
func (h *Handler) SearchItems(c echo.Context) error {
	query := c.QueryParam("q")
	page := atoiOrDefault(c.QueryParam("page"), 1)
	perPage := atoiOrDefault(c.QueryParam("per_page"), 20)
	viewerID := int64(atoiOrDefault(c.QueryParam("profile_id"), 0))

	filters := domain.SearchFilters{
		Speaker: strings.TrimSpace(c.QueryParam("speaker")),
		Tags:    splitTags(c.QueryParam("tags")),
	}
	if err := filters.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	out, err := h.search.Execute(c.Request().Context(), query, page, perPage, filters, viewerID)
	if err != nil {
		h.logger.Error("search failed", "query", query, "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "search failed"})
	}

	// Report the clamped values so callers see the page semantics actually used.
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > 100 {
		perPage = 100
	}

	return c.JSON(http.StatusOK, SearchResponse{
		Query:      query,
		Results:    out.Results,
		Total:      out.Total,
		Page:       page,
		PerPage:    perPage,
		UsedEngine: out.UsedEngine,
	})
}

// Reindex answers POST /v1/admin/reindex, the destructive full rebuild.
func (h *Handler) Reindex(c echo.Context) error {
	report, err := h.reindex.Execute(c.Request().Context())
	if err != nil {
		h.logger.Error("reindex failed", "err", err)
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "reindex failed: " + err.Error()})
	}

	return c.JSON(http.StatusOK, ReindexResponse{
		JobID:      report.JobID,
		Success:    report.Success,
		Failed:     report.Failed,
		DurationMS: report.Duration.Milliseconds(),
	})
}

// Status answers GET /v1/status with a timestamped health report.
func (h *Handler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.status.Execute(c.Request().Context()))
}

// Health is the liveness endpoint.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func atoiOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
