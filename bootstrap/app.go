// Package bootstrap wires the service together and runs it.
package bootstrap

import (
	"context"
	"net/http"
	"time"

	"sermon-search/config"
	"sermon-search/consumer"
	"sermon-search/driver"
	"sermon-search/gateway"
	"sermon-search/indexer"
	"sermon-search/logger"
	"sermon-search/search_engine"
	"sermon-search/transcript"
	"sermon-search/usecase"
)

// App holds all components of the search service.
type App struct {
	httpServer    *http.Server
	engineClient  *search_engine.Client
	catalogDriver *driver.CatalogDriver
	redisConsumer *consumer.Consumer
}

// Run initializes all components and starts the service. It blocks until ctx
// is cancelled, then performs graceful shutdown.
func Run(ctx context.Context) error {
	logger.Init()
	logger.Logger.Info("starting sermon-search")

	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Error("failed to load config", "err", err)
		return err
	}

	// ── Drivers (infrastructure layer) ──
	pool, err := initDatabasePool(ctx, cfg)
	if err != nil {
		logger.Logger.Error("failed to initialize database", "err", err)
		return err
	}
	catalogDriver := driver.NewCatalogDriver(pool)

	engineClient, err := initEngineClient(ctx, cfg)
	if err != nil {
		logger.Logger.Error("failed to construct engine client", "err", err)
		catalogDriver.Close()
		return err
	}
	engineDriver := driver.NewEngineDriver(engineClient, config.IndexName, cfg.Elasticsearch.Timeout)

	// ── Gateways (anti-corruption layer) ──
	catalogRepo := gateway.NewCatalogRepositoryGateway(catalogDriver)
	engine := gateway.NewSearchEngineGateway(engineDriver)

	// ── Indexer ──
	transcripts := transcript.NewLoader(cfg.Transcripts.Dir, logger.Logger)
	ix := indexer.New(engine, catalogRepo, transcripts, config.IndexBatchSize, logger.Logger)

	if engine.Available(ctx) {
		if !ix.CreateIndex(ctx) {
			logger.Logger.Warn("could not ensure search index at startup")
		}
	}

	// ── Use cases (application layer) ──
	searchUsecase := usecase.NewSearchItemsUsecase(engine, catalogRepo, logger.Logger)
	reindexUsecase := usecase.NewReindexUsecase(engine, ix, logger.Logger)
	statusUsecase := usecase.NewStatusUsecase(engine, logger.Logger)

	// ── Redis Streams consumer ──
	var redisConsumer *consumer.Consumer
	consumerCfg := consumer.ConfigFromEnv()
	if consumerCfg.Enabled {
		eventHandler := consumer.NewItemEventHandler(ix, catalogRepo, logger.Logger)
		redisConsumer, err = consumer.NewConsumer(consumerCfg, eventHandler, logger.Logger)
		if err != nil {
			logger.Logger.Error("failed to create Redis Streams consumer", "err", err)
		} else if err := redisConsumer.Start(ctx); err != nil {
			logger.Logger.Error("failed to start Redis Streams consumer", "err", err)
		} else {
			logger.Logger.Info("Redis Streams consumer started",
				"stream", consumerCfg.StreamKey,
				"group", consumerCfg.GroupName,
			)
		}
	} else {
		logger.Logger.Info("Redis Streams consumer disabled")
	}

	// ── HTTP server ──
	app := &App{
		httpServer:    newHTTPServer(cfg, searchUsecase, reindexUsecase, statusUsecase),
		engineClient:  engineClient,
		catalogDriver: catalogDriver,
		redisConsumer: redisConsumer,
	}

	go func() {
		logger.Logger.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Error("http", "err", err)
		}
	}()

	<-ctx.Done()
	app.shutdown()
	return nil
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("http shutdown error", "err", err)
	}
	if a.redisConsumer != nil {
		a.redisConsumer.Stop()
	}
	if a.engineClient != nil {
		a.engineClient.Close()
	}
	if a.catalogDriver != nil {
		a.catalogDriver.Close()
	}
}
