package signalcache

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// Oracle caches analyses of an inner oracle.
type Oracle struct {
	inner domain.Oracle
	cache
}

var _ domain.Oracle = (*Oracle)(nil)

// NewOracle creates a caching oracle decorator.
// cacheTotal is a counter vec with labels "kind" and "result", passed explicitly; nil disables counting.
func NewOracle(
	inner domain.Oracle, s store, namespace string, ttl time.Duration,
	cacheTotal *prometheus.CounterVec, logger *zap.Logger,
) *Oracle {
	return &Oracle{
		inner: inner,
		cache: cache{store: s, kind: KindAnalysis, namespace: namespace, ttl: ttl, cacheTotal: cacheTotal, logger: logger},
	}
}

// Analyze returns a cached analysis or calls the inner oracle.
// Failed analyses are not cached.
func (o *Oracle) Analyze(ctx context.Context, text string) (string, error) {
	key := o.key(text)
	if data, ok := o.get(ctx, key); ok {
		return string(data), nil
	}

	out, err := o.inner.Analyze(ctx, text)
	if err != nil {
		return "", fmt.Errorf("analyze: %w", err)
	}

	o.put(ctx, key, []byte(out))
	return out, nil
}
