// Package signal scores relevance signals produced by the oracle.
package signal

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// Cosine returns the cosine similarity of a and b.
// A zero vector scores 0 against anything, matching normalize-then-dot semantics.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("empty vector: %w", domain.ErrMalformedSignal)
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch %d != %d: %w", len(a), len(b), domain.ErrMalformedSignal)
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("non-finite similarity: %w", domain.ErrMalformedSignal)
	}
	return score, nil
}
