package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/usecase/evaluation"
	healthuc "github.com/kailas-cloud/recommender/internal/usecase/health"
)

// --- Mocks ---

type mockRecommender struct {
	rec     domain.Recommendation
	err     error
	calls   int
	lastQ   domain.Query
	oracles int // oracle calls reported through the request usage
	hits    int
	panics  bool
}

func (m *mockRecommender) Recommend(ctx context.Context, q domain.Query) (domain.Recommendation, error) {
	m.calls++
	m.lastQ = q
	if m.panics {
		panic("boom")
	}
	usage := domain.OracleUsageFromContext(ctx)
	for i := 0; i < m.oracles; i++ {
		usage.AddCall()
	}
	for i := 0; i < m.hits; i++ {
		usage.AddCacheHit()
	}
	return m.rec, m.err
}

type mockEvaluator struct {
	m     evaluation.Metrics
	err   error
	calls int
}

func (m *mockEvaluator) Compute(_ context.Context) (evaluation.Metrics, error) {
	m.calls++
	return m.m, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

// --- Helpers ---

type fixture struct {
	rec    *mockRecommender
	eval   *mockEvaluator
	health *mockHealth
	router http.Handler
}

func newFixture(apiKeys ...string) *fixture {
	return newFixtureWith(RouterConfig{APIKeys: apiKeys})
}

func newFixtureWith(cfg RouterConfig) *fixture {
	f := &fixture{
		rec:  &mockRecommender{},
		eval: &mockEvaluator{},
		health: &mockHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{healthuc.ComponentCatalog: healthuc.CheckOK},
		}},
	}
	srv := NewServer(f.rec, f.eval, f.health, zap.NewNop())
	cfg.Logger = zap.NewNop()
	f.router = NewRouter(srv, cfg)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func sampleItems() []domain.Assessment {
	return []domain.Assessment{
		{Name: "Verify G+", URL: "https://www.shl.com/solutions/products/verify-g-plus/",
			RemoteTesting: domain.FlagYes, AdaptiveIRT: domain.FlagYes, Duration: "45 minutes", TestType: "Cognitive"},
		{Name: "OPQ32r", URL: "https://www.shl.com/solutions/products/opq32r/",
			RemoteTesting: domain.FlagYes, AdaptiveIRT: domain.FlagYes, Duration: "30 minutes", TestType: "Personality"},
	}
}
