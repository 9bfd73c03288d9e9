// Package signalcache caches oracle analyses and signal vectors in a key-value store.
// Cache failures never fail the request: they are logged and the inner call is made.
package signalcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/db"
	"github.com/kailas-cloud/recommender/internal/domain"
)

// KeyPrefix namespaces every cache key.
const KeyPrefix = "recommender:signal:"

// Cache kinds, used in keys and metric labels.
const (
	KindAnalysis = "analysis"
	KindVector   = "vector"
)

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type cache struct {
	store      store
	kind       string
	namespace  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// key scopes entries by kind and namespace (provider/model) so switching
// models never serves stale signals.
func (c *cache) key(text string) string {
	h := sha256.Sum256([]byte(text))
	return KeyPrefix + c.kind + ":" + c.namespace + ":" + hex.EncodeToString(h[:])
}

func (c *cache) get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read signal cache", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return nil, false
	}
	if len(data) == 0 {
		c.inc("miss")
		return nil, false
	}
	c.inc("hit")
	domain.OracleUsageFromContext(ctx).AddCacheHit()
	return data, true
}

func (c *cache) put(ctx context.Context, key string, data []byte) {
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to write signal cache", zap.String("key", key), zap.Error(err))
	}
}

func (c *cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(c.kind, result).Inc()
	}
}
