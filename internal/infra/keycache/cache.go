// Package keycache memoizes API-key validity checks for a bounded TTL so
// that tool calls do not re-validate the key against the backend on every
// invocation. Consistency is "last validated wins, eventually refreshed":
// a stale-but-unexpired entry is served as-is.
package keycache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
	"github.com/fengshao1227/woerk-rag-sub001/internal/infra/telemetry"
)

// KeyValidator performs the remote validity check on a cache miss.
type KeyValidator interface {
	ValidateKey(ctx context.Context, key string) (bool, error)
}

type entry struct {
	valid     bool
	expiresAt time.Time
}

// Cache maps API keys to time-bounded validation results. The entry map
// is owned exclusively by this type.
type Cache struct {
	validator KeyValidator
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger
	metrics   domain.Metrics

	mu      sync.Mutex
	entries map[string]entry
}

type Options struct {
	Validator KeyValidator
	TTL       time.Duration
	Now       func() time.Time
	Logger    *zap.Logger
	Metrics   domain.Metrics
}

func New(opts Options) *Cache {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = domain.DefaultKeyCacheTTLSeconds * time.Second
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Cache{
		validator: opts.Validator,
		ttl:       ttl,
		now:       now,
		logger:    logger.Named("keycache"),
		metrics:   metrics,
		entries:   make(map[string]entry),
	}
}

// IsValid returns the cached validity for key, refreshing through the
// validator when the entry is missing or past its expiry. A failed remote
// validation is returned as an error and never cached.
func (c *Cache) IsValid(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}

	c.mu.Lock()
	cached, ok := c.entries[key]
	c.mu.Unlock()
	if ok && c.now().Before(cached.expiresAt) {
		c.metrics.ObserveKeyValidation(true)
		return cached.valid, nil
	}

	valid, err := c.validator.ValidateKey(ctx, key)
	if err != nil {
		c.metrics.ObserveKeyValidation(false)
		return false, domain.Wrap(domain.CodeRemote, "keycache.IsValid", err)
	}

	c.mu.Lock()
	c.entries[key] = entry{valid: valid, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	c.metrics.ObserveKeyValidation(false)
	c.logger.Debug("key validated", zap.Bool("valid", valid), zap.Duration("ttl", c.ttl))
	return valid, nil
}

// Invalidate drops the cached entry for key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
