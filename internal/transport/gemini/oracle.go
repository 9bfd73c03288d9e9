// Package gemini implements the relevance oracle on the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/metrics"
)

const (
	// DefaultModel is the model the catalog analysis prompt was written for.
	DefaultModel   = "gemini-pro"
	defaultTimeout = 30 * time.Second
	providerName   = "gemini"
)

// contentGenerator is the slice of genai.Models used by the oracle.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// Config holds Gemini oracle settings.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Oracle asks Gemini to summarize the skills and requirements in a text.
type Oracle struct {
	models  contentGenerator
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewOracle creates a Gemini-backed oracle.
func NewOracle(ctx context.Context, cfg *Config) (*Oracle, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newOracle(client.Models, cfg), nil
}

func newOracle(models contentGenerator, cfg *Config) *Oracle {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{models: models, model: model, timeout: timeout, logger: logger}
}

// Model returns the configured model name.
func (o *Oracle) Model() string { return o.model }

// Analyze implements domain.Oracle. The model answer is returned verbatim.
func (o *Oracle) Analyze(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	resp, err := o.models.GenerateContent(ctx, o.model, genai.Text(domain.AnalysisPrompt(text)), nil)
	duration := time.Since(start)

	if err != nil {
		o.recordError(classifyError(ctx, err))
		return "", fmt.Errorf("gemini generate content: %w: %w", domain.ErrExternalService, err)
	}

	output := responseText(resp)
	if output == "" {
		o.recordError("empty_response")
		return "", fmt.Errorf("gemini returned empty response: %w", domain.ErrExternalService)
	}

	metrics.OracleRequestsTotal.WithLabelValues(providerName, o.model, "success").Inc()
	metrics.OracleRequestDuration.WithLabelValues(providerName, o.model).Observe(duration.Seconds())
	o.logger.Debug("gemini analysis",
		zap.String("model", o.model),
		zap.Duration("latency", duration),
		zap.Int("output_len", len(output)),
	)
	return output, nil
}

// HealthCheck verifies the API key and model by fetching the model metadata.
func (o *Oracle) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if _, err := o.models.Get(ctx, o.model, nil); err != nil {
		return fmt.Errorf("get model %s: %w", o.model, err)
	}
	return nil
}

func (o *Oracle) recordError(errorType string) {
	metrics.OracleRequestsTotal.WithLabelValues(providerName, o.model, "error").Inc()
	metrics.OracleErrorsTotal.WithLabelValues(providerName, o.model, errorType).Inc()
}

// responseText joins the text parts of every candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

func classifyError(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "timeout"
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return "auth"
		case apiErr.Code == 429:
			return "quota"
		}
		return "api_error"
	}
	return "transport"
}
