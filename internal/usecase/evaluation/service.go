// Package evaluation scores the recommendation pipeline against a labeled
// query set (mean Recall@3 and MAP@3).
package evaluation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
	logpkg "github.com/kailas-cloud/recommender/internal/logger"
)

// K is the cutoff used for both metrics.
const K = 3

// Dataset provides labeled cases.
type Dataset interface {
	Load(ctx context.Context) ([]Case, error)
}

// Recommender runs one query through the pipeline.
type Recommender interface {
	Recommend(ctx context.Context, q domain.Query) (domain.Recommendation, error)
}

// Metrics holds aggregate retrieval quality.
type Metrics struct {
	MeanRecallAt3 float64 `json:"mean_recall_at_3"`
	MAPAt3        float64 `json:"map_at_3"`
	Queries       int     `json:"-"`
}

// Service computes evaluation metrics.
type Service struct {
	dataset     Dataset
	recommender Recommender

	ttl time.Duration
	now func() time.Time

	mu         sync.Mutex
	cached     Metrics
	computedAt time.Time
	hasCached  bool
}

// New creates a Service. A nil dataset yields zero metrics.
func New(dataset Dataset, recommender Recommender) *Service {
	return &Service{dataset: dataset, recommender: recommender, now: time.Now}
}

// WithCacheTTL serves the last successful result for ttl instead of re-running
// the pipeline. Concurrent callers wait for a single run. Zero disables caching.
func (s *Service) WithCacheTTL(ttl time.Duration) *Service {
	s.ttl = ttl
	return s
}

// Compute returns mean Recall@3 and MAP@3 over the labeled set.
// Cases whose recommendation fails contribute 0 to both means.
func (s *Service) Compute(ctx context.Context) (Metrics, error) {
	if s.dataset == nil {
		return Metrics{}, nil
	}
	if s.ttl <= 0 {
		return s.compute(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasCached && s.now().Sub(s.computedAt) < s.ttl {
		return s.cached, nil
	}
	m, err := s.compute(ctx)
	if err != nil {
		return Metrics{}, err
	}
	s.cached, s.computedAt, s.hasCached = m, s.now(), true
	return m, nil
}

func (s *Service) compute(ctx context.Context) (Metrics, error) {
	cases, err := s.dataset.Load(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("load evaluation dataset: %w", err)
	}
	if len(cases) == 0 {
		return Metrics{}, nil
	}

	logger := logpkg.FromContext(ctx)
	var recall, ap float64
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return Metrics{}, fmt.Errorf("evaluation interrupted: %w", err)
		}
		rec, err := s.recommender.Recommend(ctx, c.Query())
		if err != nil {
			logger.Warn("Evaluation query failed", zap.Int("case", i), zap.Error(err))
			continue
		}
		urls := make([]string, len(rec.Items))
		for j, it := range rec.Items {
			urls[j] = it.URL
		}
		recall += RecallAtK(urls, c.Relevant, K)
		ap += AveragePrecisionAtK(urls, c.Relevant, K)
	}

	n := float64(len(cases))
	return Metrics{MeanRecallAt3: recall / n, MAPAt3: ap / n, Queries: len(cases)}, nil
}
