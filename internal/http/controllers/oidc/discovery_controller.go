package oidc

import (
	"net/http"

	"github.com/dropDatabas3/proxima/internal/observability/logger"

	svc "github.com/dropDatabas3/proxima/internal/http/services/oidc"
)

// DiscoveryController serves the provider metadata document.
type DiscoveryController struct {
	service svc.DiscoveryService
}

// NewDiscoveryController creates the controller.
func NewDiscoveryController(s svc.DiscoveryService) *DiscoveryController {
	return &DiscoveryController{service: s}
}

// Get handles GET /.well-known/openid-configuration
// Also mounted on the legacy underscore alias.
func (c *DiscoveryController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	b, err := c.service.DiscoveryJSON(ctx)
	if err != nil {
		logger.From(ctx).Error("discovery document failed", logger.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
