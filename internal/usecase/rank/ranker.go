// Package rank orders filtered candidates by similarity of oracle signals to the query.
package rank

import (
	"context"
	"sort"
	"time"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/domain/signal"
)

// DefaultLimit is the maximum number of ranked results.
const DefaultLimit = 10

// Ranker scores candidates with one oracle call for the query and one per candidate.
type Ranker struct {
	oracle     Oracle
	vectorizer Vectorizer
	limit      int
	budget     time.Duration
}

// New creates a Ranker.
func New(oracle Oracle, vectorizer Vectorizer) *Ranker {
	return &Ranker{oracle: oracle, vectorizer: vectorizer, limit: DefaultLimit}
}

// WithLimit overrides the result cap. Non-positive values are ignored.
func (r *Ranker) WithLimit(limit int) *Ranker {
	if limit > 0 {
		r.limit = limit
	}
	return r
}

// WithBudget bounds the time spent scoring one request. When it runs out the
// pending oracle or vectorizer call is cancelled and Rank falls back.
// Non-positive values leave ranking unbounded.
func (r *Ranker) WithBudget(budget time.Duration) *Ranker {
	if budget > 0 {
		r.budget = budget
	}
	return r
}

// Rank orders candidates by descending similarity to query, keeping input
// order among equal scores, and truncates to the limit. Any failure yields
// the first candidates in input order with Err set; it is never returned as
// an error.
func (r *Ranker) Rank(ctx context.Context, query string, candidates []domain.Assessment) Result {
	if len(candidates) == 0 {
		return Result{Items: []domain.Assessment{}, Scores: []float64{}}
	}

	if r.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.budget)
		defer cancel()
	}

	scores, err := r.score(ctx, query, candidates)
	if err != nil {
		return Result{Items: head(candidates, r.limit), Err: err}
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	n := min(r.limit, len(order))
	items := make([]domain.Assessment, n)
	ranked := make([]float64, n)
	for i := 0; i < n; i++ {
		items[i] = candidates[order[i]]
		ranked[i] = scores[order[i]]
	}
	return Result{Items: items, Scores: ranked}
}

func (r *Ranker) score(ctx context.Context, query string, candidates []domain.Assessment) ([]float64, *Error) {
	querySignal, err := r.oracle.Analyze(ctx, query)
	if err != nil {
		return nil, &Error{Stage: StageAnalyzeQuery, Index: -1, Err: err}
	}

	candidateSignals := make([]string, len(candidates))
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, &Error{Stage: StageAnalyzeCandidate, Index: i, Err: err}
		}
		s, err := r.oracle.Analyze(ctx, candidates[i].SignalText())
		if err != nil {
			return nil, &Error{Stage: StageAnalyzeCandidate, Index: i, Err: err}
		}
		candidateSignals[i] = s
	}

	queryVec, err := r.vectorizer.Vectorize(ctx, querySignal)
	if err != nil {
		return nil, &Error{Stage: StageVectorize, Index: -1, Err: err}
	}

	scores := make([]float64, len(candidates))
	for i, s := range candidateSignals {
		if err := ctx.Err(); err != nil {
			return nil, &Error{Stage: StageVectorize, Index: i, Err: err}
		}
		vec, err := r.vectorizer.Vectorize(ctx, s)
		if err != nil {
			return nil, &Error{Stage: StageVectorize, Index: i, Err: err}
		}
		score, err := signal.Cosine(queryVec, vec)
		if err != nil {
			return nil, &Error{Stage: StageSimilarity, Index: i, Err: err}
		}
		scores[i] = score
	}
	return scores, nil
}

func head(candidates []domain.Assessment, n int) []domain.Assessment {
	n = min(n, len(candidates))
	out := make([]domain.Assessment, n)
	copy(out, candidates[:n])
	return out
}
