package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/proxima/internal/http/controllers/oauth"
	mw "github.com/dropDatabas3/proxima/internal/http/middlewares"
)

// registerOAuthRoutes registra los endpoints OAuth2 y sus aliases legacy.
func registerOAuthRoutes(r chi.Router, c *ctrl.Controllers) {
	authorize := oauthHandler(http.HandlerFunc(c.Authorize.Authorize))
	token := oauthHandler(http.HandlerFunc(c.Token.Token))

	// GET /oauth2/authorize - Authorization endpoint (RFC 6749)
	r.Handle("/oauth2/authorize", authorize)
	r.Handle("/oauth/authorize", authorize)

	// POST /oauth2/token - Token endpoint (RFC 6749)
	r.Handle("/oauth2/token", token)
	r.Handle("/oauth/token", token)
}

// oauthHandler crea el middleware chain para endpoints OAuth.
func oauthHandler(handler http.Handler) http.Handler {
	return mw.Chain(handler,
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
		mw.WithNoStore(),
		mw.WithLogging(),
	)
}
