package app

import (
	"net/http"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupHttpHandler exposes liveness, readiness and Prometheus metrics.
func SetupHttpHandler(deps *Dependencies, probe *Probe) http.Handler {
	mux := server.NewChiRouter(deps.Logger, "/healthz", "/readyz", "/metrics")

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		web.RespondJSON(w, deps.Logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !probe.Ready() {
			web.RespondError(w, deps.Logger, http.StatusServiceUnavailable, "product store unavailable")
			return
		}
		web.RespondJSON(w, deps.Logger, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{
		Registry: deps.Registry,
	}))

	return mux
}

// SetupHttpServer creates and configures the ops HTTP server.
func SetupHttpServer(deps *Dependencies, probe *Probe, cfg *config.Config) *http.Server {
	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, SetupHttpHandler(deps, probe))
}
