package bootstrap

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"sermon-search/config"
	"sermon-search/logger"
	"sermon-search/rest"
	"sermon-search/usecase"
)

// newHTTPServer creates the REST HTTP server.
func newHTTPServer(cfg *config.Config, search *usecase.SearchItemsUsecase, reindex *usecase.ReindexUsecase, status *usecase.StatusUsecase) *http.Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	handler := rest.NewHandler(search, reindex, status, logger.Logger)
	handler.Register(e)

	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           e,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
}
