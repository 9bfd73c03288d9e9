// Package chi exposes the recommendation service over HTTP.
package chi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
	logpkg "github.com/kailas-cloud/recommender/internal/logger"
	"github.com/kailas-cloud/recommender/internal/usecase/evaluation"
	healthuc "github.com/kailas-cloud/recommender/internal/usecase/health"
)

// maxBodyBytes bounds POST /recommend payloads.
const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON object")

// Response headers describing how a recommendation was produced.
const (
	HeaderOracleCalls     = "X-Oracle-Calls"
	HeaderOracleCacheHits = "X-Oracle-Cache-Hits"
	HeaderRanking         = "X-Ranking"
)

// Recommender produces recommendations for a query.
type Recommender interface {
	Recommend(ctx context.Context, q domain.Query) (domain.Recommendation, error)
}

// Evaluator computes retrieval quality metrics.
type Evaluator interface {
	Compute(ctx context.Context) (evaluation.Metrics, error)
}

// HealthReporter aggregates dependency health.
type HealthReporter interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	recommender   Recommender
	evaluator     Evaluator
	health        HealthReporter
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	recommender Recommender,
	evaluator Evaluator,
	health HealthReporter,
	logger *zap.Logger,
) *Server {
	s := &Server{
		recommender: recommender,
		evaluator:   evaluator,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		invalidQueryHandler,
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusInternalServerError, catalogUnavailableDetail),
	}
	return s
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{Message: APIMessage})
}

// Recommend handles POST /recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(&req)
	if err == nil {
		var trailing json.RawMessage
		if !errors.Is(dec.Decode(&trailing), io.EOF) {
			err = errTrailingData
		}
	}
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: []fieldError{{
			Loc:  []string{"body"},
			Msg:  "Invalid request body: " + err.Error(),
			Type: "value_error.jsondecode",
		}}})
		return
	}
	if ferrs := validateRequest(&req); ferrs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: ferrs})
		return
	}

	ctx, usage := domain.NewContextWithOracleUsage(r.Context())
	rec, err := s.recommender.Recommend(ctx, req.toQuery())
	setOracleHeaders(w, usage)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	items := rec.Items
	if items == nil {
		items = []domain.Assessment{}
	}
	if len(items) > 0 {
		ranking := "ranked"
		if !rec.Ranked {
			ranking = "fallback"
		}
		w.Header().Set(HeaderRanking, ranking)
	}

	writeJSON(w, http.StatusOK, recommendResponse{Recommendations: items, Message: rec.Message})
}

// Metrics handles GET /metrics with retrieval quality over the labeled set.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.evaluator.Compute(r.Context())
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, metricsResponse{MeanRecallAt3: m.MeanRecallAt3, MAPAt3: m.MAPAt3})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// degraded still serves requests with unranked results
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

func setOracleHeaders(w http.ResponseWriter, usage *domain.OracleUsage) {
	if usage == nil {
		return
	}
	w.Header().Set(HeaderOracleCalls, strconv.Itoa(usage.Calls))
	if usage.CacheHits > 0 {
		w.Header().Set(HeaderOracleCacheHits, strconv.Itoa(usage.CacheHits))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func sentinelHandler(sentinel error, status int, detail string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeDetail(w, status, detail)
		return true
	}
}

// invalidQueryHandler reports semantic query problems as a validation error list.
func invalidQueryHandler(w http.ResponseWriter, err error) bool {
	var iqe *domain.InvalidQueryError
	if !errors.As(err, &iqe) {
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: []fieldError{{
		Loc:  []string{"body"},
		Msg:  iqe.Reason,
		Type: "value_error",
	}}})
	return true
}

// handleDomainError maps err to a response. Unhandled errors become a 500
// whose detail is the error text.
func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := logpkg.FromContext(ctx)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeDetail(w, http.StatusInternalServerError, err.Error())
}
