// Package recommend runs the load → filter → rank pipeline for one query.
package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
	logpkg "github.com/kailas-cloud/recommender/internal/logger"
	"github.com/kailas-cloud/recommender/internal/metrics"
	"github.com/kailas-cloud/recommender/internal/usecase/filter"
)

// Service produces recommendations from the catalog.
type Service struct {
	catalog CatalogLoader
	ranker  Ranker
}

// New creates a recommendation service.
func New(catalog CatalogLoader, ranker Ranker) *Service {
	return &Service{catalog: catalog, ranker: ranker}
}

// Recommend loads the catalog, filters it by q and ranks the survivors.
// An empty filtered set is a normal result; only catalog and query
// problems are returned as errors. Ranking failures degrade to filtered order.
func (s *Service) Recommend(ctx context.Context, q domain.Query) (domain.Recommendation, error) {
	logger := logpkg.FromContext(ctx)

	if err := q.Validate(); err != nil {
		return domain.Recommendation{}, err
	}

	records, err := s.catalog.Load(ctx)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return domain.Recommendation{}, fmt.Errorf("load catalog: %w: %w", domain.ErrCatalogUnavailable, err)
	}
	if len(records) == 0 {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return domain.Recommendation{}, fmt.Errorf("catalog is empty: %w", domain.ErrCatalogUnavailable)
	}

	candidates := filter.Apply(records, q)
	if len(candidates) == 0 {
		metrics.RecommendationsTotal.WithLabelValues("no_match").Inc()
		return domain.Recommendation{Items: []domain.Assessment{}, Message: domain.MessageNoMatches}, nil
	}

	res := s.ranker.Rank(ctx, q.Text, candidates)
	if res.Fallback() {
		metrics.RankFallbackTotal.WithLabelValues(string(res.Err.Stage)).Inc()
		metrics.RecommendationsTotal.WithLabelValues("unranked").Inc()
		logger.Warn("Ranking failed, returning filtered order",
			zap.String("stage", string(res.Err.Stage)),
			zap.Int("candidates", len(candidates)),
			zap.Error(res.Err),
		)
	} else {
		metrics.RecommendationsTotal.WithLabelValues("ranked").Inc()
	}

	logger.Debug("Recommendation computed",
		zap.Int("catalog", len(records)),
		zap.Int("filtered", len(candidates)),
		zap.Int("returned", len(res.Items)),
		zap.Bool("ranked", !res.Fallback()),
	)

	return domain.Recommendation{
		Items:   res.Items,
		Message: domain.MessageSuccess,
		Ranked:  !res.Fallback(),
	}, nil
}
