package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// Vectorizer embeds oracle signals into fixed-dimension vectors.
type Vectorizer struct {
	base
	dimensions int
}

var _ domain.Vectorizer = (*Vectorizer)(nil)

// NewVectorizer creates an embeddings-backed vectorizer.
func NewVectorizer(cfg *Config) *Vectorizer {
	return &Vectorizer{base: newBase(cfg), dimensions: cfg.Dimensions}
}

// Vectorize implements domain.Vectorizer.
func (v *Vectorizer) Vectorize(ctx context.Context, signal string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req := openai.EmbeddingRequest{
		Input:          []string{signal},
		Model:          openai.EmbeddingModel(v.model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if v.dimensions > 0 {
		req.Dimensions = v.dimensions
	}

	start := time.Now()
	resp, err := v.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		v.recordError(errorType(err))
		return nil, parseAPIError("embedding", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		v.recordError("empty_response")
		return nil, fmt.Errorf("empty embedding response: %w", domain.ErrExternalService)
	}

	v.recordSuccess(duration)
	v.logger.Debug("signal embedded",
		zap.String("model", v.model),
		zap.Int("dimensions", len(resp.Data[0].Embedding)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return resp.Data[0].Embedding, nil
}
