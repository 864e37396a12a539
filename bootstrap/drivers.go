package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sermon-search/config"
	"sermon-search/logger"
	"sermon-search/search_engine"
)

const maxPingAttempts = 5

// newRetryBackoff creates the exponential backoff policy used while waiting
// for dependencies at startup.
func newRetryBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 30 * time.Second
	bo.Multiplier = 2
	return bo
}

// initDatabasePool connects to the catalog store. The catalog is the ground
// truth for every search path, so startup blocks (with backoff) until it is
// reachable.
func initDatabasePool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL())
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	bo := newRetryBackoff()
	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.Timeout)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			logger.Logger.Info("database connected", "host", cfg.Database.Host)
			return pool, nil
		}

		if attempt >= maxPingAttempts {
			pool.Close()
			return nil, fmt.Errorf("ping database after %d attempts: %w", attempt, err)
		}

		delay := bo.NextBackOff()
		logger.Logger.Warn("database not ready, retrying",
			"attempt", attempt, "max", maxPingAttempts, "retry_in", delay, "err", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		}
	}
}

// initEngineClient constructs the health-monitored engine handle. The engine
// being down is not fatal: the service starts in fallback mode and the probe
// cache picks the engine up when it recovers.
func initEngineClient(ctx context.Context, cfg *config.Config) (*search_engine.Client, error) {
	client, err := search_engine.NewClient(search_engine.ClientConfig{
		Addresses:     []string{cfg.Elasticsearch.Host},
		Username:      cfg.Elasticsearch.Username,
		Password:      cfg.Elasticsearch.Password,
		Timeout:       cfg.Elasticsearch.Timeout,
		ProbeInterval: cfg.Elasticsearch.ProbeInterval,
	}, logger.Logger)
	if err != nil {
		return nil, err
	}

	if client.ForceReconnect(ctx) {
		logger.Logger.Info("search engine connected", "host", cfg.Elasticsearch.Host)
	} else {
		logger.Logger.Warn("search engine unavailable at startup, fallback search active",
			"host", cfg.Elasticsearch.Host)
	}

	return client, nil
}
