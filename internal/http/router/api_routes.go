package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	cfgctrl "github.com/dropDatabas3/proxima/internal/http/controllers/configapi"
	keysctrl "github.com/dropDatabas3/proxima/internal/http/controllers/keys"
	mw "github.com/dropDatabas3/proxima/internal/http/middlewares"
)

// registerAPIRoutes registra la API de administración de Proxima.
func registerAPIRoutes(r chi.Router, keys *keysctrl.KeysController, presets *cfgctrl.PresetsController) {
	r.Route("/proxima/api", func(api chi.Router) {
		api.Use(apiMiddleware)

		// Provisioning de claves de firma
		api.Post("/jwt/keys/rsa", keys.CreateRSA)
		api.Get("/jwt/keys", keys.List)

		// Registro de presets
		api.Get("/config/presets", presets.List)
		api.Post("/config/presets/{name}/activate", presets.Activate)
	})
}

func apiMiddleware(next http.Handler) http.Handler {
	return mw.Chain(next,
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithNoStore(),
		mw.WithLogging(),
	)
}
