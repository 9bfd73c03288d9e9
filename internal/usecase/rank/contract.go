package rank

import "context"

// Oracle produces a relevance signal for a text.
type Oracle interface {
	Analyze(ctx context.Context, text string) (string, error)
}

// Vectorizer turns a relevance signal into a vector.
type Vectorizer interface {
	Vectorize(ctx context.Context, signal string) ([]float32, error)
}
