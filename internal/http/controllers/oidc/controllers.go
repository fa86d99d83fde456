// Package oidc contiene los controllers de Discovery y JWKS.
package oidc

import svc "github.com/dropDatabas3/proxima/internal/http/services/oidc"

// Controllers agrupa todos los controllers del dominio OIDC.
type Controllers struct {
	Discovery *DiscoveryController
	JWKS      *JWKSController
}

// NewControllers crea el agregador de controllers OIDC.
func NewControllers(discovery svc.DiscoveryService, jwks svc.JWKSService) *Controllers {
	return &Controllers{
		Discovery: NewDiscoveryController(discovery),
		JWKS:      NewJWKSController(jwks),
	}
}
