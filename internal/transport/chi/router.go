package chi

import (
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/metrics"
)

// PrometheusPath serves the Prometheus exposition; /metrics carries evaluation results.
const PrometheusPath = "/debug/metrics"

// RouterConfig configures NewRouter.
type RouterConfig struct {
	APIKeys []string
	Logger  *zap.Logger
	// ProtectMetrics puts /metrics behind auth. Set it when /metrics runs the
	// evaluation pipeline against the paid oracle.
	ProtectMetrics bool
}

// NewRouter mounts the server handlers behind the standard middleware stack.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	var protected []string
	if cfg.ProtectMetrics {
		protected = append(protected, "/metrics")
	}

	r := gochi.NewRouter()
	r.Use(JSONRecoverer(cfg.Logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(cfg.Logger))
	r.Use(BearerAuthMiddleware(cfg.APIKeys, protected...))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/", s.Root)
	r.Post("/recommend", s.Recommend)
	r.Get("/metrics", s.Metrics)
	r.Get("/health", s.Health)
	r.Method(http.MethodGet, PrometheusPath, metrics.Handler())

	return r
}
