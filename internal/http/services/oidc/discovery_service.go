// Package oidc contains the discovery and JWKS publisher services.
package oidc

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dropDatabas3/proxima/internal/cache"
	dto "github.com/dropDatabas3/proxima/internal/http/dto/oidc"
)

const cacheKeyDiscovery = "meta:discovery"

// Capability sets are fixed: this server only speaks the authorization
// code flow with RS256-signed ID tokens.
var (
	responseTypesSupported            = []string{"code"}
	grantTypesSupported               = []string{"authorization_code"}
	subjectTypesSupported             = []string{"public"}
	idTokenSigningAlgValuesSupported  = []string{"RS256"}
	responseModesSupported            = []string{"query"}
	tokenEndpointAuthMethodsSupported = []string{"client_secret_post", "none"}
	scopesSupported                   = []string{"openid", "profile", "email"}
	claimsSupported                   = []string{
		"iss", "sub", "aud", "exp", "iat", "nonce",
		"email", "name", "preferred_username", "groups",
	}
)

// DiscoveryService serves the OIDC provider metadata.
type DiscoveryService interface {
	DiscoveryJSON(ctx context.Context) ([]byte, error)
}

type discoveryService struct {
	issuer string
	cache  cache.Cache
	ttl    time.Duration
}

// NewDiscoveryService crea el servicio de OIDC Discovery. cache puede
// ser nil (sin cache).
func NewDiscoveryService(issuer string, c cache.Cache, ttl time.Duration) DiscoveryService {
	return &discoveryService{
		issuer: strings.TrimRight(issuer, "/"),
		cache:  c,
		ttl:    ttl,
	}
}

func (s *discoveryService) DiscoveryJSON(ctx context.Context) ([]byte, error) {
	if s.cache != nil && s.ttl > 0 {
		if b, ok := s.cache.Get(cacheKeyDiscovery); ok {
			return b, nil
		}
	}

	meta := dto.OIDCMetadata{
		Issuer:                            s.issuer,
		AuthorizationEndpoint:             s.issuer + "/oauth2/authorize",
		TokenEndpoint:                     s.issuer + "/oauth2/token",
		JWKSURI:                           s.issuer + "/.well-known/jwks.json",
		ResponseTypesSupported:            responseTypesSupported,
		SubjectTypesSupported:             subjectTypesSupported,
		IDTokenSigningAlgValuesSupported:  idTokenSigningAlgValuesSupported,
		ScopesSupported:                   scopesSupported,
		GrantTypesSupported:               grantTypesSupported,
		ResponseModesSupported:            responseModesSupported,
		TokenEndpointAuthMethodsSupported: tokenEndpointAuthMethodsSupported,
		ClaimsSupported:                   claimsSupported,
	}

	b, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && s.ttl > 0 {
		s.cache.Set(cacheKeyDiscovery, b, s.ttl)
	}
	return b, nil
}
