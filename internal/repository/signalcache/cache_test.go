package signalcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
)

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_signal_cache_total"}, []string{"kind", "result"})
}

func TestOracle_MissThenHit(t *testing.T) {
	inner := &mockOracle{out: "Key skills: Java"}
	st := newMemStore()
	counter := newCounter()
	o := NewOracle(inner, st, "gemini/gemini-pro", time.Hour, counter, zap.NewNop())

	ctx, usage := domain.NewContextWithOracleUsage(context.Background())

	for i := 0; i < 2; i++ {
		out, err := o.Analyze(ctx, "Java developer")
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if out != "Key skills: Java" {
			t.Fatalf("call %d: unexpected output %q", i, out)
		}
	}

	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if usage.CacheHits != 1 {
		t.Errorf("expected 1 cache hit recorded, got %d", usage.CacheHits)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues(KindAnalysis, "miss")); v != 1 {
		t.Errorf("expected 1 miss, got %f", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues(KindAnalysis, "hit")); v != 1 {
		t.Errorf("expected 1 hit, got %f", v)
	}
	for k, ttl := range st.ttls {
		if !strings.HasPrefix(k, KeyPrefix+KindAnalysis+":gemini/gemini-pro:") {
			t.Errorf("unexpected key %q", k)
		}
		if ttl != time.Hour {
			t.Errorf("unexpected ttl %v", ttl)
		}
	}
}

func TestOracle_InnerErrorNotCached(t *testing.T) {
	inner := &mockOracle{err: domain.ErrExternalService}
	st := newMemStore()
	o := NewOracle(inner, st, "ns", time.Hour, nil, zap.NewNop())

	_, err := o.Analyze(context.Background(), "x")
	if !errors.Is(err, domain.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if len(st.data) != 0 {
		t.Error("failed analysis must not be cached")
	}
}

func TestOracle_StoreErrorsFallThrough(t *testing.T) {
	inner := &mockOracle{out: "ok"}
	st := newMemStore()
	st.getErr = errors.New("connection reset")
	st.setErr = errors.New("connection reset")
	o := NewOracle(inner, st, "ns", time.Hour, nil, zap.NewNop())

	out, err := o.Analyze(context.Background(), "x")
	if err != nil || out != "ok" {
		t.Fatalf("expected inner result despite store errors, got %q, %v", out, err)
	}
}

func TestOracle_NamespacesDoNotCollide(t *testing.T) {
	st := newMemStore()
	a := NewOracle(&mockOracle{out: "a"}, st, "model-a", 0, nil, zap.NewNop())
	b := NewOracle(&mockOracle{out: "b"}, st, "model-b", 0, nil, zap.NewNop())

	_, _ = a.Analyze(context.Background(), "same text")
	out, _ := b.Analyze(context.Background(), "same text")
	if out != "b" {
		t.Fatalf("expected model-b output, got %q", out)
	}
}

func TestVectorizer_MissThenHit(t *testing.T) {
	inner := &mockVectorizer{vec: []float32{0.1, -0.2, 0.3}}
	v := NewVectorizer(inner, newMemStore(), "emb", time.Hour, nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		vec, err := v.Vectorize(context.Background(), "signal")
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if len(vec) != 3 || vec[1] != -0.2 {
			t.Fatalf("call %d: unexpected vector %v", i, vec)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestVectorizer_CorruptEntryRecomputed(t *testing.T) {
	inner := &mockVectorizer{vec: []float32{1}}
	st := newMemStore()
	v := NewVectorizer(inner, st, "emb", time.Hour, nil, zap.NewNop())
	st.data[v.key("signal")] = []byte{1, 2, 3}

	vec, err := v.Vectorize(context.Background(), "signal")
	if err != nil || len(vec) != 1 {
		t.Fatalf("unexpected result %v, %v", vec, err)
	}
	if inner.calls != 1 {
		t.Errorf("expected recompute, got %d inner calls", inner.calls)
	}
}

func TestVectorBytesRoundTrip(t *testing.T) {
	in := []float32{0, 1.5, -3.25}
	out, err := bytesToVector(vectorToBytes(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("got %v, want %v", out, in)
		}
	}
	if _, err := bytesToVector([]byte{1}); err == nil {
		t.Error("expected error for truncated data")
	}
}
