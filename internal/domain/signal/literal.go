package signal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// LiteralVectorizer reads the signal itself as the vector: a list of numbers
// separated by whitespace or commas. Free-text oracle output is rejected with
// domain.ErrMalformedSignal, so ranking on raw model text degrades to the
// filtered order.
type LiteralVectorizer struct{}

// NewLiteralVectorizer creates a LiteralVectorizer.
func NewLiteralVectorizer() LiteralVectorizer { return LiteralVectorizer{} }

// Vectorize implements domain.Vectorizer.
func (LiteralVectorizer) Vectorize(_ context.Context, signal string) ([]float32, error) {
	return ParseLiteral(signal)
}

// ParseLiteral parses a whitespace or comma separated list of numbers.
func ParseLiteral(s string) ([]float32, error) {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '[' || r == ']'
	})
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty signal: %w", domain.ErrMalformedSignal)
	}

	vec := make([]float32, len(tokens))
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, fmt.Errorf("token %d %q is not a number: %w", i, truncate(tok, 32), domain.ErrMalformedSignal)
		}
		vec[i] = float32(f)
	}
	return vec, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
