package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the service answers but an optional dependency is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the catalog cannot be read, so no request can succeed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentCatalog = "catalog"
	ComponentOracle  = "oracle"
	ComponentCache   = "cache"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog Checker
	oracle  Checker
	cache   CachePinger
}

// New creates a Service. oracle and cache can be nil.
func New(catalog, oracle Checker, cache CachePinger) *Service {
	return &Service{catalog: catalog, oracle: oracle, cache: cache}
}

// Check runs health checks against all components.
// Oracle and cache failures degrade the status because ranking falls back
// to filtered order; a catalog failure makes the service unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks[ComponentCatalog] = result(s.catalog.HealthCheck(ctx))
	if s.oracle != nil {
		checks[ComponentOracle] = result(s.oracle.HealthCheck(ctx))
	}
	if s.cache != nil {
		checks[ComponentCache] = result(s.cache.Ping(ctx))
	}

	status := Healthy
	for name, v := range checks {
		if v != CheckError {
			continue
		}
		if name == ComponentCatalog {
			status = Unhealthy
			break
		}
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
