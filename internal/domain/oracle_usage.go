package domain

import "context"

type oracleUsageKey struct{}

// OracleUsage collects oracle activity for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the oracle chain writes to it; the handler reads it for response headers.
type OracleUsage struct {
	Calls     int
	CacheHits int
}

// NewContextWithOracleUsage returns a context with an embedded usage collector.
func NewContextWithOracleUsage(ctx context.Context) (context.Context, *OracleUsage) {
	u := &OracleUsage{}
	return context.WithValue(ctx, oracleUsageKey{}, u), u
}

// OracleUsageFromContext extracts the usage collector from context. Returns nil if not set.
func OracleUsageFromContext(ctx context.Context) *OracleUsage {
	u, _ := ctx.Value(oracleUsageKey{}).(*OracleUsage)
	return u
}

// AddCall records one upstream oracle call.
func (u *OracleUsage) AddCall() {
	if u != nil {
		u.Calls++
	}
}

// AddCacheHit records one signal served from cache.
func (u *OracleUsage) AddCacheHit() {
	if u != nil {
		u.CacheHits++
	}
}
