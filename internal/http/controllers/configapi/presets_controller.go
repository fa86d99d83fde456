// Package configapi contiene los controllers de configuración runtime.
package configapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/proxima/internal/http/errors"
	"github.com/dropDatabas3/proxima/internal/observability/logger"
	"github.com/dropDatabas3/proxima/internal/preset"
)

// PresetsController exposes the preset registry over HTTP.
type PresetsController struct {
	registry *preset.Registry
}

// NewPresetsController creates the controller.
func NewPresetsController(r *preset.Registry) *PresetsController {
	return &PresetsController{registry: r}
}

// List handles GET /proxima/api/config/presets
func (c *PresetsController) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"active":  c.registry.ActiveName(),
		"presets": c.registry.All(),
	})
}

// Activate handles POST /proxima/api/config/presets/{name}/activate
// The swap is atomic: in-flight authorizations keep the snapshot they
// were issued with.
func (c *PresetsController) Activate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("configapi.activate"))

	name := chi.URLParam(r, "name")
	if name == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("preset name required"))
		return
	}

	if err := c.registry.Activate(name); err != nil {
		if errors.Is(err, preset.ErrUnknownPreset) {
			httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("unknown preset: "+name))
			return
		}
		log.Error("preset activation failed", logger.Err(err), logger.PresetName(name))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	log.Info("preset activated", logger.PresetName(name))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"active": name})
}
