package recommend

import (
	"context"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/usecase/rank"
)

// CatalogLoader loads the full catalog.
type CatalogLoader interface {
	Load(ctx context.Context) ([]domain.Assessment, error)
}

// Ranker orders filtered candidates for a query.
type Ranker interface {
	Rank(ctx context.Context, query string, candidates []domain.Assessment) rank.Result
}
