package rank

import (
	"fmt"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// Stage names the rank step that failed.
type Stage string

// Rank steps.
const (
	StageAnalyzeQuery     Stage = "analyze_query"
	StageAnalyzeCandidate Stage = "analyze_candidate"
	StageVectorize        Stage = "vectorize"
	StageSimilarity       Stage = "similarity"
)

// Error describes why ranking was abandoned.
type Error struct {
	Stage Stage
	// Index is the candidate position for per-candidate stages, -1 otherwise.
	Index int
	Err   error
}

func (e *Error) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("rank %s [%d]: %v", e.Stage, e.Index, e.Err)
	}
	return fmt.Sprintf("rank %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Result is the rank stage outcome. On failure Items holds the unranked
// head of the input and Err says why.
type Result struct {
	Items  []domain.Assessment
	Scores []float64
	Err    *Error
}

// Fallback reports whether Items is the unranked input order.
func (r Result) Fallback() bool { return r.Err != nil }
