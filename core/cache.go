package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	fetchOutcomeHit    = "hit"
	fetchOutcomeMiss   = "miss"
	fetchOutcomeAbsent = "absent"
	fetchOutcomeError  = "error"
)

// Cache memoizes resolution outcomes per (account, mode) key for the
// lifetime of the session. Negative outcomes are first-class entries; a
// resolution error is returned to the caller and never stored, so the next
// call re-attempts from scratch. Concurrent callers of the same key share a
// single in-flight resolution.
type Cache struct {
	resolver  CredentialsResolver
	registry  Registry
	logger    Logger
	metrics   MetricsRecorder
	sessionID string

	mu      sync.Mutex
	entries map[string]Resolution
	flights map[string]*resolutionFlight
}

type resolutionFlight struct {
	done       chan struct{}
	resolution Resolution
	err        error
}

func NewCache(resolver CredentialsResolver, registry Registry, logger Logger, metrics MetricsRecorder) (*Cache, error) {
	if resolver == nil {
		return nil, fmt.Errorf("core: credentials resolver is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("core: source registry is required")
	}
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	return &Cache{
		resolver:  resolver,
		registry:  registry,
		logger:    logger,
		metrics:   metrics,
		sessionID: uuid.NewString(),
		entries:   make(map[string]Resolution),
		flights:   make(map[string]*resolutionFlight),
	}, nil
}

// Fetch returns memoized credentials for (account, mode), resolving at most
// once per key. An entry, once written, is never overwritten or invalidated.
func (c *Cache) Fetch(ctx context.Context, account string, mode AccessMode) (Resolution, error) {
	if c == nil || c.resolver == nil {
		return Resolution{}, fmt.Errorf("core: credential cache is not configured")
	}
	account = strings.TrimSpace(account)
	if account == "" {
		return Resolution{}, fmt.Errorf("core: account is required")
	}
	if err := mode.Validate(); err != nil {
		return Resolution{}, err
	}
	key := CacheKey(account, mode)
	startedAt := time.Now().UTC()

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		c.observeFetch(ctx, account, mode, fetchOutcomeHit, startedAt)
		return entry, nil
	}
	if flight, ok := c.flights[key]; ok {
		c.mu.Unlock()
		<-flight.done
		return flight.resolution, flight.err
	}
	flight := &resolutionFlight{done: make(chan struct{})}
	c.flights[key] = flight
	c.mu.Unlock()

	resolution, err := c.resolver.Resolve(ctx, account, mode)
	flight.resolution = resolution
	flight.err = err

	c.mu.Lock()
	delete(c.flights, key)
	if err == nil {
		c.entries[key] = resolution
	}
	c.mu.Unlock()
	close(flight.done)

	switch {
	case err != nil:
		c.observeFetch(ctx, account, mode, fetchOutcomeError, startedAt)
	case resolution.Found:
		c.observeFetch(ctx, account, mode, fetchOutcomeMiss, startedAt)
	default:
		c.observeFetch(ctx, account, mode, fetchOutcomeAbsent, startedAt)
	}
	return resolution, err
}

// SourceNames reports the registered source names for diagnostics. The
// listing delegates straight to the registry, uncached.
func (c *Cache) SourceNames() []string {
	if c == nil || c.registry == nil {
		return nil
	}
	return c.registry.Names()
}

// SessionID identifies this cache instance in log output.
func (c *Cache) SessionID() string {
	if c == nil {
		return ""
	}
	return c.sessionID
}

func (c *Cache) observeFetch(ctx context.Context, account string, mode AccessMode, outcome string, startedAt time.Time) {
	tags := map[string]string{
		"mode":    string(mode),
		"outcome": outcome,
	}
	c.metrics.IncCounter(ctx, "credentials.cache.total", 1, tags)
	c.metrics.ObserveHistogram(ctx, "credentials.cache.duration_ms", float64(time.Since(startedAt).Milliseconds()), tags)

	if c.logger == nil {
		return
	}
	logger := c.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	fields := map[string]any{
		"session_id": c.sessionID,
		"account":    account,
		"mode":       string(mode),
		"outcome":    outcome,
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(fields)
	}
	logger.Debug("credential fetch", flattenFields(fields)...)
}
