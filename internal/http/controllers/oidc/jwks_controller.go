package oidc

import (
	"net/http"

	"github.com/dropDatabas3/proxima/internal/observability/logger"

	svc "github.com/dropDatabas3/proxima/internal/http/services/oidc"
)

// JWKSController serves the public key set.
type JWKSController struct {
	service svc.JWKSService
}

// NewJWKSController creates the controller.
func NewJWKSController(s svc.JWKSService) *JWKSController {
	return &JWKSController{service: s}
}

// Get handles GET /.well-known/jwks.json
// Also mounted on the legacy /oauth/jwks alias.
func (c *JWKSController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	b, err := c.service.JWKSJSON(ctx)
	if err != nil {
		logger.From(ctx).Error("jwks document failed", logger.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
