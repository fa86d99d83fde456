package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	healthctrl "github.com/dropDatabas3/proxima/internal/http/controllers/health"
	mw "github.com/dropDatabas3/proxima/internal/http/middlewares"
)

// registerSystemRoutes registra probes y métricas.
func registerSystemRoutes(r chi.Router, health *healthctrl.HealthController, metrics http.Handler) {
	probe := func(h http.HandlerFunc) http.Handler {
		return mw.Chain(h, mw.WithRecover(), mw.WithRequestID())
	}

	r.Handle("/healthz", probe(health.Healthz))
	r.Handle("/readyz", probe(health.Readyz))

	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
}
