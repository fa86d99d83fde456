// Package server arma el handler HTTP con todas las dependencias.
package server

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/proxima/internal/authcode"
	"github.com/dropDatabas3/proxima/internal/cache/cachefactory"
	"github.com/dropDatabas3/proxima/internal/config"
	cfgctrl "github.com/dropDatabas3/proxima/internal/http/controllers/configapi"
	healthctrl "github.com/dropDatabas3/proxima/internal/http/controllers/health"
	keysctrl "github.com/dropDatabas3/proxima/internal/http/controllers/keys"
	oauthctrl "github.com/dropDatabas3/proxima/internal/http/controllers/oauth"
	oidcctrl "github.com/dropDatabas3/proxima/internal/http/controllers/oidc"
	"github.com/dropDatabas3/proxima/internal/http/router"
	oauthsvc "github.com/dropDatabas3/proxima/internal/http/services/oauth"
	oidcsvc "github.com/dropDatabas3/proxima/internal/http/services/oidc"
	jwtx "github.com/dropDatabas3/proxima/internal/jwt"
	"github.com/dropDatabas3/proxima/internal/metrics"
	"github.com/dropDatabas3/proxima/internal/preset"
)

// App agrupa el handler y las piezas que el proceso necesita tocar
// después del wiring (sweeper de codes, registry para tests).
type App struct {
	Handler  http.Handler
	Codes    *authcode.Store
	Keystore *jwtx.Keystore
	Registry *preset.Registry
}

// Build instancia todas las dependencias a partir de la configuración.
func Build(cfg *config.Config) (*App, error) {
	keystore, err := jwtx.NewKeystore()
	if err != nil {
		return nil, fmt.Errorf("wiring: keystore: %w", err)
	}

	registry, err := preset.NewRegistry(presetsFromConfig(cfg), cfg.Presets.Active)
	if err != nil {
		return nil, fmt.Errorf("wiring: presets: %w", err)
	}

	codeTTL, err := cfg.CodeTTL()
	if err != nil {
		return nil, err
	}
	sweep, err := cfg.SweepInterval()
	if err != nil {
		return nil, err
	}
	codes := authcode.NewStore(codeTTL, sweep)

	var fc cachefactory.Config
	fc.Kind = cfg.Cache.Kind
	fc.Redis.Addr = cfg.Cache.Redis.Addr
	fc.Redis.DB = cfg.Cache.Redis.DB
	fc.Redis.Prefix = cfg.Cache.Redis.Prefix
	fc.Memory.DefaultTTL = cfg.Cache.Memory.DefaultTTL
	metaCache, err := cachefactory.Open(fc)
	if err != nil {
		return nil, fmt.Errorf("wiring: cache: %w", err)
	}
	metaTTL, err := cfg.MetadataTTL()
	if err != nil {
		return nil, err
	}

	// Services
	authorizeSvc := oauthsvc.NewAuthorizeService(oauthsvc.AuthorizeDeps{
		Presets: registry,
		Codes:   codes,
	})
	tokenSvc := oauthsvc.NewTokenService(oauthsvc.TokenDeps{
		Codes:  codes,
		Keys:   keystore,
		Issuer: cfg.Server.BaseURL,
		MaxTTL: config.MaxTokenTTL,
	})
	discoverySvc := oidcsvc.NewDiscoveryService(cfg.Server.BaseURL, metaCache, metaTTL)
	jwksSvc := oidcsvc.NewJWKSService(keystore, metaCache, metaTTL)

	metricsHandler, err := metrics.Register(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("wiring: metrics: %w", err)
	}

	handler := router.New(router.Deps{
		OAuth:   oauthctrl.NewControllers(authorizeSvc, tokenSvc),
		OIDC:    oidcctrl.NewControllers(discoverySvc, jwksSvc),
		Keys:    keysctrl.NewKeysController(keystore, jwksSvc),
		Presets: cfgctrl.NewPresetsController(registry),
		Health:  healthctrl.NewHealthController(keystore, registry),
		Metrics: metricsHandler,
	})

	return &App{
		Handler:  handler,
		Codes:    codes,
		Keystore: keystore,
		Registry: registry,
	}, nil
}

func presetsFromConfig(cfg *config.Config) []preset.Preset {
	out := make([]preset.Preset, 0, len(cfg.Presets.Items))
	for _, p := range cfg.Presets.Items {
		out = append(out, preset.Preset{
			Name:              p.Name,
			ClientID:          p.ClientID,
			RedirectURI:       p.RedirectURI,
			Subject:           p.Subject,
			Scopes:            p.Scopes,
			TokenTTLSeconds:   p.TokenTTLSeconds,
			SigningKeyID:      p.SigningKeyID,
			Email:             p.Email,
			FullName:          p.FullName,
			PreferredUsername: p.PreferredUsername,
			Groups:            p.Groups,
			CustomClaims:      p.CustomClaims,
		})
	}
	return out
}
