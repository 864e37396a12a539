// Package search_engine holds the health-monitored Elasticsearch handle and
// the query builder.
package search_engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// DefaultProbeInterval bounds how often the engine is health-probed. The
// cached state is deliberately stale-tolerant: recovery is detected within
// one interval, which is good enough for a fallback decision.
const DefaultProbeInterval = 30 * time.Second

// ClientConfig configures the engine handle. Timeout bounds every probe and
// is also applied to the underlying transport at construction.
type ClientConfig struct {
	Addresses     []string
	Username      string
	Password      string
	Timeout       time.Duration
	ProbeInterval time.Duration
}

// Client wraps a process-wide Elasticsearch connection with a time-boxed
// availability cache. It is constructed explicitly and passed to the search
// service and indexer; there is no ambient singleton.
type Client struct {
	es            *elasticsearch.Client
	timeout       time.Duration
	probeInterval time.Duration
	logger        *slog.Logger

	mu          sync.Mutex
	available   bool
	lastChecked time.Time
	closed      bool

	// probeFn runs one health probe; replaced in tests.
	probeFn func(ctx context.Context) bool
}

// NewClient builds the underlying connection once. All subsequent
// availability is probe-derived, not connection-state-derived: the transport
// is long-lived and does not surface remote outages on its own.
func NewClient(cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = DefaultProbeInterval
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("construct elasticsearch client: %w", err)
	}

	c := &Client{
		es:            es,
		timeout:       cfg.Timeout,
		probeInterval: cfg.ProbeInterval,
		logger:        logger,
	}
	c.probeFn = c.probeEngine
	return c, nil
}

// IsAvailable returns the cached availability, probing at most once per
// interval. The lock covers only the "should I probe now" decision; the probe
// itself runs unlocked and concurrent callers see the previous state until it
// lands.
func (c *Client) IsAvailable(ctx context.Context) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if !c.lastChecked.IsZero() && time.Since(c.lastChecked) < c.probeInterval {
		v := c.available
		c.mu.Unlock()
		return v
	}
	// Claim the probe slot so concurrent callers don't pile on.
	c.lastChecked = time.Now()
	c.mu.Unlock()

	ok := c.probeFn(ctx)

	c.mu.Lock()
	if !c.closed {
		c.available = ok
		c.lastChecked = time.Now()
	}
	c.mu.Unlock()
	return ok
}

// ForceReconnect resets the probe gate and probes immediately.
func (c *Client) ForceReconnect(ctx context.Context) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.lastChecked = time.Time{}
	c.mu.Unlock()

	return c.IsAvailable(ctx)
}

// Conn returns a live connection or nothing.
func (c *Client) Conn(ctx context.Context) (*elasticsearch.Client, bool) {
	if !c.IsAvailable(ctx) {
		return nil, false
	}
	return c.es, true
}

// Close moves the client to a terminal state; IsAvailable reports false
// without probing from then on.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.available = false
}

// probeEngine queries the liveness endpoint and then cluster health. Yellow
// and green count as available; red and every failure category demote.
func (c *Client) probeEngine(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	info, err := c.es.Info(c.es.Info.WithContext(probeCtx))
	if err != nil {
		c.logger.Warn("engine probe failed", "stage", "info", "category", "connection", "err", err)
		return false
	}
	defer info.Body.Close()
	if info.IsError() {
		c.logger.Warn("engine probe failed", "stage", "info", "category", categorizeStatus(info.StatusCode), "status", info.StatusCode)
		return false
	}

	health, err := c.es.Cluster.Health(c.es.Cluster.Health.WithContext(probeCtx))
	if err != nil {
		c.logger.Warn("engine probe failed", "stage", "health", "category", "connection", "err", err)
		return false
	}
	defer health.Body.Close()
	if health.IsError() {
		c.logger.Warn("engine probe failed", "stage", "health", "category", categorizeStatus(health.StatusCode), "status", health.StatusCode)
		return false
	}

	var report struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(health.Body).Decode(&report); err != nil {
		c.logger.Warn("engine probe failed", "stage", "health", "category", "transport", "err", err)
		return false
	}

	switch report.Status {
	case "green", "yellow":
		return true
	default:
		c.logger.Warn("engine cluster unhealthy", "status", report.Status)
		return false
	}
}

func categorizeStatus(code int) string {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "authentication"
	default:
		return "transport"
	}
}
