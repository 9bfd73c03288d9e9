package chi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/usecase/evaluation"
	healthuc "github.com/kailas-cloud/recommender/internal/usecase/health"
)

type detailString struct {
	Detail string `json:"detail"`
}

type detailList struct {
	Detail []fieldError `json:"detail"`
}

func TestRoot(t *testing.T) {
	f := newFixture()
	rr := f.do(t, "GET", "/", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	body := decode[rootResponse](t, rr)
	if body.Message != APIMessage {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestRecommend_Success(t *testing.T) {
	f := newFixture()
	f.rec.rec = domain.Recommendation{Items: sampleItems(), Message: domain.MessageSuccess, Ranked: true}
	f.rec.oracles = 3

	rr := f.do(t, "POST", "/recommend",
		`{"text":"Java developer","max_duration":50,"test_types":["Cognitive","Personality"]}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	q := f.rec.lastQ
	if q.Text != "Java developer" || q.MaxDuration != 50 || len(q.TestTypes) != 2 {
		t.Errorf("unexpected query %+v", q)
	}

	body := decode[recommendResponse](t, rr)
	if body.Message != "Success" {
		t.Errorf("unexpected message %q", body.Message)
	}
	if len(body.Recommendations) != 2 || body.Recommendations[0].Name != "Verify G+" {
		t.Errorf("unexpected recommendations %+v", body.Recommendations)
	}
	if body.Recommendations[0].RemoteTesting != domain.FlagYes {
		t.Errorf("flag not serialized: %+v", body.Recommendations[0])
	}
	if got := rr.Header().Get(HeaderOracleCalls); got != "3" {
		t.Errorf("%s: got %q", HeaderOracleCalls, got)
	}
	if got := rr.Header().Get(HeaderRanking); got != "ranked" {
		t.Errorf("%s: got %q", HeaderRanking, got)
	}
}

func TestRecommend_WireFieldNames(t *testing.T) {
	f := newFixture()
	f.rec.rec = domain.Recommendation{Items: sampleItems()[:1], Message: domain.MessageSuccess}

	rr := f.do(t, "POST", "/recommend", `{"text":"x"}`)

	for _, key := range []string{`"name"`, `"url"`, `"remote_testing":"Yes"`, `"adaptive_irt":"Yes"`,
		`"duration":"45 minutes"`, `"test_type":"Cognitive"`, `"recommendations"`, `"message"`} {
		if !strings.Contains(rr.Body.String(), key) {
			t.Errorf("body missing %s: %s", key, rr.Body.String())
		}
	}
	if got := rr.Header().Get(HeaderRanking); got != "fallback" {
		t.Errorf("%s: got %q", HeaderRanking, got)
	}
}

func TestRecommend_NoMatchesReturnsEmptyArray(t *testing.T) {
	f := newFixture()
	f.rec.rec = domain.Recommendation{Message: domain.MessageNoMatches}

	rr := f.do(t, "POST", "/recommend", `{"text":"x","test_types":["Simulation"]}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"recommendations":[]`) {
		t.Errorf("expected empty array, got %s", rr.Body.String())
	}
	body := decode[recommendResponse](t, rr)
	if body.Message != domain.MessageNoMatches {
		t.Errorf("unexpected message %q", body.Message)
	}
	if rr.Header().Get(HeaderRanking) != "" {
		t.Error("ranking header should be absent without items")
	}
}

func TestRecommend_OptionalFieldsAbsent(t *testing.T) {
	f := newFixture()
	f.rec.rec = domain.Recommendation{Message: domain.MessageNoMatches}

	rr := f.do(t, "POST", "/recommend", `{"text":""}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("empty text is a valid query, got %d", rr.Code)
	}
	if f.rec.lastQ.MaxDuration != 0 || f.rec.lastQ.TestTypes != nil {
		t.Errorf("unexpected query %+v", f.rec.lastQ)
	}
}

func TestRecommend_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLoc string
	}{
		{"missing text", `{"max_duration":30}`, "text"},
		{"negative duration", `{"text":"x","max_duration":-1}`, "max_duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			rr := f.do(t, "POST", "/recommend", tt.body)

			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
			}
			body := decode[detailList](t, rr)
			if len(body.Detail) != 1 {
				t.Fatalf("expected 1 error, got %+v", body.Detail)
			}
			loc := body.Detail[0].Loc
			if len(loc) != 2 || loc[0] != "body" || loc[1] != tt.wantLoc {
				t.Errorf("unexpected loc %v", loc)
			}
			if f.rec.calls != 0 {
				t.Error("service must not be called for invalid input")
			}
		})
	}
}

func TestRecommend_MalformedJSON(t *testing.T) {
	for _, body := range []string{`{"text":`, `{"text":"x","max_duration":"soon"}`, `[]`} {
		f := newFixture()
		rr := f.do(t, "POST", "/recommend", body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: got %d", body, rr.Code)
		}
	}
}

func TestRecommend_TrailingDataRejected(t *testing.T) {
	for _, body := range []string{`{"text":"java"} {"text":"x"} garbage`, `{"text":"java"} garbage`, `{"text":"java"}{}`, `{"text":"java"}}`} {
		f := newFixture()
		rr := f.do(t, "POST", "/recommend", body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: got %d", body, rr.Code)
		}
		if f.rec.calls != 0 {
			t.Errorf("%s: recommender should not run", body)
		}
	}

	f := newFixture()
	if rr := f.do(t, "POST", "/recommend", "{\"text\":\"java\"}\n  "); rr.Code != http.StatusOK {
		t.Errorf("trailing whitespace should be accepted, got %d", rr.Code)
	}
}

func TestRecommend_CatalogUnavailable(t *testing.T) {
	f := newFixture()
	f.rec.err = fmt.Errorf("load catalog: %w: %w", domain.ErrCatalogUnavailable, domain.ErrCatalogIO)

	rr := f.do(t, "POST", "/recommend", `{"text":"x"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d", rr.Code)
	}
	if got := decode[detailString](t, rr).Detail; got != "Failed to load catalog data" {
		t.Errorf("unexpected detail %q", got)
	}
}

func TestRecommend_InvalidQueryFromService(t *testing.T) {
	f := newFixture()
	f.rec.err = domain.NewInvalidQuery("text must not contain NUL bytes")

	rr := f.do(t, "POST", "/recommend", `{"text":"x"}`)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d", rr.Code)
	}
	body := decode[detailList](t, rr)
	if len(body.Detail) != 1 || body.Detail[0].Msg != "text must not contain NUL bytes" {
		t.Errorf("unexpected detail %+v", body.Detail)
	}
}

func TestRecommend_UnexpectedErrorExposesText(t *testing.T) {
	f := newFixture()
	f.rec.err = errors.New("something odd")

	rr := f.do(t, "POST", "/recommend", `{"text":"x"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d", rr.Code)
	}
	if got := decode[detailString](t, rr).Detail; got != "something odd" {
		t.Errorf("unexpected detail %q", got)
	}
}

func TestRecommend_PanicRecovered(t *testing.T) {
	f := newFixture()
	f.rec.panics = true

	rr := f.do(t, "POST", "/recommend", `{"text":"x"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d", rr.Code)
	}
	if got := decode[detailString](t, rr).Detail; got == "" {
		t.Error("expected JSON detail")
	}
}

func TestRecommend_CacheHitsHeader(t *testing.T) {
	f := newFixture()
	f.rec.rec = domain.Recommendation{Items: sampleItems(), Message: domain.MessageSuccess, Ranked: true}
	f.rec.oracles = 1
	f.rec.hits = 2

	rr := f.do(t, "POST", "/recommend", `{"text":"x"}`)

	if got := rr.Header().Get(HeaderOracleCacheHits); got != "2" {
		t.Errorf("%s: got %q", HeaderOracleCacheHits, got)
	}
}

func TestMetrics(t *testing.T) {
	f := newFixture()
	f.eval.m = evaluation.Metrics{MeanRecallAt3: 0.5, MAPAt3: 0.25}

	rr := f.do(t, "GET", "/metrics", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	body := decode[metricsResponse](t, rr)
	if body.MeanRecallAt3 != 0.5 || body.MAPAt3 != 0.25 {
		t.Errorf("unexpected metrics %+v", body)
	}
}

func TestMetrics_ZerosSerialized(t *testing.T) {
	f := newFixture()
	rr := f.do(t, "GET", "/metrics", "")

	want := `{"mean_recall_at_3":0,"map_at_3":0}`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestMetrics_Error(t *testing.T) {
	f := newFixture()
	f.eval.err = errors.New("load evaluation dataset: no such file")

	rr := f.do(t, "GET", "/metrics", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		status healthuc.Status
		want   int
	}{
		{healthuc.Healthy, http.StatusOK},
		{healthuc.Degraded, http.StatusOK},
		{healthuc.Unhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			f := newFixture()
			f.health.report.Status = tt.status

			rr := f.do(t, "GET", "/health", "")
			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d", rr.Code, tt.want)
			}
			body := decode[healthResponse](t, rr)
			if body.Status != string(tt.status) {
				t.Errorf("unexpected status %q", body.Status)
			}
			if body.Checks[healthuc.ComponentCatalog] != "ok" {
				t.Errorf("unexpected checks %v", body.Checks)
			}
		})
	}
}

func TestPrometheusEndpoint(t *testing.T) {
	f := newFixture()
	rr := f.do(t, "GET", PrometheusPath, "")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "# HELP") {
		t.Error("expected prometheus exposition format")
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	f := newFixture()

	if rr := f.do(t, "GET", "/nope", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown path: got %d", rr.Code)
	}
	if rr := f.do(t, "GET", "/recommend", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: got %d", rr.Code)
	}
}

func TestRouter_AuthProtectsRecommend(t *testing.T) {
	f := newFixture("secret")

	if rr := f.do(t, "POST", "/recommend", `{"text":"x"}`); rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if rr := f.do(t, "GET", "/", ""); rr.Code != http.StatusOK {
		t.Errorf("root should be exempt, got %d", rr.Code)
	}
}

func TestRouter_ProtectedMetricsRequiresKey(t *testing.T) {
	f := newFixtureWith(RouterConfig{APIKeys: []string{"secret"}, ProtectMetrics: true})

	for i := 0; i < 3; i++ {
		if rr := f.do(t, "GET", "/metrics", ""); rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	}
	if f.eval.calls != 0 {
		t.Errorf("evaluation must not run without a key, ran %d times", f.eval.calls)
	}

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || f.eval.calls != 1 {
		t.Errorf("authorized request: got %d, %d evaluations", rr.Code, f.eval.calls)
	}
}

func TestRouter_UnprotectedMetricsIsExempt(t *testing.T) {
	f := newFixture("secret")
	if rr := f.do(t, "GET", "/metrics", ""); rr.Code != http.StatusOK {
		t.Errorf("expected 200 without a dataset, got %d", rr.Code)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	f := newFixture()
	rr := f.do(t, "GET", "/", "")

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}
