package signalcache

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/recommender/internal/db"
)

type mockOracle struct {
	out   string
	err   error
	calls int
}

func (m *mockOracle) Analyze(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.out, m.err
}

type mockVectorizer struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockVectorizer) Vectorize(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	return m.vec, m.err
}

// memStore is an in-memory store; getErr/setErr force failures.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}
