package signalcache

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// Vectorizer caches vectors of an inner vectorizer.
type Vectorizer struct {
	inner domain.Vectorizer
	cache
}

var _ domain.Vectorizer = (*Vectorizer)(nil)

// NewVectorizer creates a caching vectorizer decorator.
func NewVectorizer(
	inner domain.Vectorizer, s store, namespace string, ttl time.Duration,
	cacheTotal *prometheus.CounterVec, logger *zap.Logger,
) *Vectorizer {
	return &Vectorizer{
		inner: inner,
		cache: cache{store: s, kind: KindVector, namespace: namespace, ttl: ttl, cacheTotal: cacheTotal, logger: logger},
	}
}

// Vectorize returns a cached vector or calls the inner vectorizer.
func (v *Vectorizer) Vectorize(ctx context.Context, signal string) ([]float32, error) {
	key := v.key(signal)
	if data, ok := v.get(ctx, key); ok {
		vec, err := bytesToVector(data)
		if err == nil {
			return vec, nil
		}
		v.logger.Warn("Failed to parse cached vector", zap.String("key", key), zap.Error(err))
	}

	vec, err := v.inner.Vectorize(ctx, signal)
	if err != nil {
		return nil, fmt.Errorf("vectorize: %w", err)
	}

	v.put(ctx, key, vectorToBytes(vec))
	return vec, nil
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
