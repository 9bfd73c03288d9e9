package domain

import "context"

// AnalysisPromptPrefix is prepended to every text sent to the relevance oracle.
const AnalysisPromptPrefix = "Analyze this text and provide key skills and requirements: "

// AnalysisPrompt builds the oracle prompt for text.
func AnalysisPrompt(text string) string {
	return AnalysisPromptPrefix + text
}

// Oracle produces a free-text relevance signal for a text.
type Oracle interface {
	Analyze(ctx context.Context, text string) (string, error)
}

// Vectorizer turns an oracle signal into a numeric vector for similarity scoring.
type Vectorizer interface {
	Vectorize(ctx context.Context, signal string) ([]float32, error)
}

// HealthChecker verifies availability of an external dependency.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
