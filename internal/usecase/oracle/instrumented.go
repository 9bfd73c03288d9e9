// Package oracle holds use-case level decorators around the relevance oracle.
package oracle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
	logpkg "github.com/kailas-cloud/recommender/internal/logger"
)

// InstrumentedOracle records every upstream call in the request usage and the request log.
// Transport metrics (requests, duration, errors) are recorded in the transport packages.
type InstrumentedOracle struct {
	inner    domain.Oracle
	provider string
	model    string
}

var _ domain.Oracle = (*InstrumentedOracle)(nil)

// NewInstrumentedOracle wraps an oracle with request-scoped observability.
func NewInstrumentedOracle(inner domain.Oracle, provider, model string) *InstrumentedOracle {
	return &InstrumentedOracle{inner: inner, provider: provider, model: model}
}

// Analyze delegates to the inner oracle and records the call.
func (o *InstrumentedOracle) Analyze(ctx context.Context, text string) (string, error) {
	domain.OracleUsageFromContext(ctx).AddCall()

	start := time.Now()
	out, err := o.inner.Analyze(ctx, text)
	if err != nil {
		logpkg.FromContext(ctx).Warn("Oracle call failed",
			zap.String("provider", o.provider),
			zap.String("model", o.model),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return "", err //nolint:wrapcheck // decorator is transparent
	}
	return out, nil
}

// HealthCheck forwards to the inner oracle when it supports health checks.
func (o *InstrumentedOracle) HealthCheck(ctx context.Context) error {
	if hc, ok := o.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // decorator is transparent
	}
	return nil
}
