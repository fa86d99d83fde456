package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/proxima/internal/http/controllers/oidc"
	mw "github.com/dropDatabas3/proxima/internal/http/middlewares"
)

// registerOIDCRoutes registra Discovery y JWKS públicos con sus aliases.
func registerOIDCRoutes(r chi.Router, c *ctrl.Controllers) {
	discovery := oidcPublicHandler(http.HandlerFunc(c.Discovery.Get))
	jwks := oidcPublicHandler(http.HandlerFunc(c.JWKS.Get))

	// OIDC Discovery (público). El alias con guion bajo existe por
	// compatibilidad con clientes viejos.
	r.Handle("/.well-known/openid-configuration", discovery)
	r.Handle("/.well-known/openid_configuration", discovery)

	// JWKS (público)
	r.Handle("/.well-known/jwks.json", jwks)
	r.Handle("/oauth/jwks", jwks)
}

// oidcPublicHandler crea el middleware chain para endpoints OIDC públicos.
func oidcPublicHandler(handler http.Handler) http.Handler {
	return mw.Chain(handler,
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
	)
}
