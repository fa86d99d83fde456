// Package health contiene los controllers de health check.
package health

import (
	"encoding/json"
	"net/http"

	jwtx "github.com/dropDatabas3/proxima/internal/jwt"
	"github.com/dropDatabas3/proxima/internal/preset"
)

// HealthController answers liveness and readiness probes.
type HealthController struct {
	keystore *jwtx.Keystore
	registry *preset.Registry
}

// NewHealthController creates the controller.
func NewHealthController(ks *jwtx.Keystore, reg *preset.Registry) *HealthController {
	return &HealthController{keystore: ks, registry: reg}
}

// Healthz handles GET /healthz
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz
// Ready means the default signing key exists and a preset is active.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !c.keystore.Has(jwtx.DefaultKeyID) || c.registry.ActiveName() == "" {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}
