// Package router define las rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	cfgctrl "github.com/dropDatabas3/proxima/internal/http/controllers/configapi"
	healthctrl "github.com/dropDatabas3/proxima/internal/http/controllers/health"
	keysctrl "github.com/dropDatabas3/proxima/internal/http/controllers/keys"
	oauthctrl "github.com/dropDatabas3/proxima/internal/http/controllers/oauth"
	oidcctrl "github.com/dropDatabas3/proxima/internal/http/controllers/oidc"
)

// Deps contiene todos los controllers y handlers montados por el router.
type Deps struct {
	OAuth   *oauthctrl.Controllers
	OIDC    *oidcctrl.Controllers
	Keys    *keysctrl.KeysController
	Presets *cfgctrl.PresetsController
	Health  *healthctrl.HealthController
	Metrics http.Handler // promhttp; nil deshabilita /metrics
}

// New construye el router completo.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	registerOAuthRoutes(r, deps.OAuth)
	registerOIDCRoutes(r, deps.OIDC)
	registerAPIRoutes(r, deps.Keys, deps.Presets)
	registerSystemRoutes(r, deps.Health, deps.Metrics)

	return r
}
