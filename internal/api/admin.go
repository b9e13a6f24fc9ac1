package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"zoostat/internal/monitoring"
)

// NewAdminRouter serves operational endpoints on a separate listener: Prometheus
// metrics, pprof under /debug and a liveness probe
func NewAdminRouter(recorder *monitoring.Recorder) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if recorder != nil {
		r.Handle("/metrics", recorder.Handler())
	}
	r.Mount("/debug", middleware.Profiler())
	return r
}
