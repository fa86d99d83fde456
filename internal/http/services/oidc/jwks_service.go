package oidc

import (
	"context"
	"time"

	"github.com/dropDatabas3/proxima/internal/cache"
	jwtx "github.com/dropDatabas3/proxima/internal/jwt"
)

const cacheKeyJWKS = "meta:jwks"

// JWKSService serves the public key set. The short cache TTL keeps the
// document cacheable while letting freshly provisioned keys show up
// without a restart.
type JWKSService interface {
	JWKSJSON(ctx context.Context) ([]byte, error)
	// Invalidate drops the cached document (called on key creation).
	Invalidate()
}

type jwksService struct {
	keys  *jwtx.Keystore
	cache cache.Cache
	ttl   time.Duration
}

// NewJWKSService crea el servicio JWKS. cache puede ser nil.
func NewJWKSService(keys *jwtx.Keystore, c cache.Cache, ttl time.Duration) JWKSService {
	return &jwksService{keys: keys, cache: c, ttl: ttl}
}

func (s *jwksService) JWKSJSON(ctx context.Context) ([]byte, error) {
	if s.cache != nil && s.ttl > 0 {
		if b, ok := s.cache.Get(cacheKeyJWKS); ok {
			return b, nil
		}
	}

	b := s.keys.JWKSJSON()
	if s.cache != nil && s.ttl > 0 {
		s.cache.Set(cacheKeyJWKS, b, s.ttl)
	}
	return b, nil
}

func (s *jwksService) Invalidate() {
	if s.cache != nil {
		s.cache.Delete(cacheKeyJWKS)
	}
}
