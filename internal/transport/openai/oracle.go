package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// Oracle asks an OpenAI-compatible chat model to analyze texts.
type Oracle struct {
	base
}

var _ domain.Oracle = (*Oracle)(nil)

// NewOracle creates a chat-completions oracle.
func NewOracle(cfg *Config) *Oracle {
	return &Oracle{base: newBase(cfg)}
}

// Analyze implements domain.Oracle. The first choice is returned verbatim.
func (o *Oracle) Analyze(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: domain.AnalysisPrompt(text)},
		},
	})
	duration := time.Since(start)

	if err != nil {
		o.recordError(errorType(err))
		return "", parseAPIError("chat", err)
	}
	if len(resp.Choices) == 0 {
		o.recordError("empty_response")
		return "", fmt.Errorf("chat returned no choices: %w", domain.ErrExternalService)
	}
	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		o.recordError("empty_response")
		return "", fmt.Errorf("chat returned empty content: %w", domain.ErrExternalService)
	}

	o.recordSuccess(duration)
	o.logger.Debug("chat analysis",
		zap.String("model", o.model),
		zap.Duration("latency", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return output, nil
}
