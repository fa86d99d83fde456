package oauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/proxima/internal/authcode"
	"github.com/dropDatabas3/proxima/internal/claims"
	dto "github.com/dropDatabas3/proxima/internal/http/dto/oauth"
	jwtx "github.com/dropDatabas3/proxima/internal/jwt"
	"github.com/dropDatabas3/proxima/internal/metrics"
	"github.com/dropDatabas3/proxima/internal/observability/logger"
)

// Errors for the token flow, mapped to RFC 6749 codes at the controller.
// ErrInvalidGrant deliberately covers unknown, expired, replayed and
// binding-mismatched codes: distinguishing them would hand an attacker
// an oracle.
var (
	ErrUnsupportedGrantType = errors.New("unsupported grant type")
	ErrInvalidRequest       = errors.New("missing code, client_id or redirect_uri")
	ErrInvalidGrant         = errors.New("invalid grant")
)

// accessTokenAudience is the audience of issued access tokens; the ID
// token audience is the client itself.
const accessTokenAudience = "proxima-api"

// TokenService exchanges authorization codes for signed token sets.
type TokenService interface {
	Exchange(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
}

// TokenDeps contains dependencies for TokenService.
type TokenDeps struct {
	Codes  *authcode.Store
	Keys   *jwtx.Keystore
	Issuer string        // base URL, claims "iss"
	MaxTTL time.Duration // cap for expires_in
	Now    func() time.Time
}

type tokenService struct {
	codes  *authcode.Store
	keys   *jwtx.Keystore
	issuer string
	maxTTL time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(d TokenDeps) TokenService {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &tokenService{
		codes:  d.Codes,
		keys:   d.Keys,
		issuer: strings.TrimRight(d.Issuer, "/"),
		maxTTL: d.MaxTTL,
		now:    now,
	}
}

// Exchange validates the request, consumes the code atomically and
// mints the token set from the code's preset snapshot.
func (s *tokenService) Exchange(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("TokenService.Exchange"))

	if req.GrantType != "authorization_code" {
		return nil, ErrUnsupportedGrantType
	}
	if req.Code == "" || req.ClientID == "" || req.RedirectURI == "" {
		return nil, ErrInvalidRequest
	}

	rec, err := s.codes.Consume(ctx, req.Code)
	if err != nil {
		log.Debug("code consumption failed", logger.Err(err), logger.ClientID(req.ClientID))
		return nil, ErrInvalidGrant
	}

	// Binding check runs after consumption: a mismatch burns the code,
	// so the caller cannot probe bindings and retry.
	if rec.ClientID != req.ClientID || rec.RedirectURI != req.RedirectURI {
		log.Warn("code binding mismatch", logger.ClientID(req.ClientID))
		return nil, ErrInvalidGrant
	}

	p := rec.Preset
	now := s.now().UTC()

	idClaims := claims.Compose(p, claims.Input{
		Issuer:   s.issuer,
		Subject:  rec.Subject,
		Audience: rec.ClientID,
		Nonce:    rec.Nonce,
		IssuedAt: now,
		MaxTTL:   s.maxTTL,
	})

	accessClaims := claims.Compose(p, claims.Input{
		Issuer:   s.issuer,
		Subject:  rec.Subject,
		Audience: accessTokenAudience,
		IssuedAt: now,
		MaxTTL:   s.maxTTL,
	})
	accessClaims["scope"] = rec.Scope
	accessClaims["token_type"] = "access_token"

	idToken, err := s.keys.Sign(p.SigningKeyID, idClaims)
	if err != nil {
		log.Error("id token signing failed", logger.Err(err), logger.KeyID(p.SigningKeyID))
		return nil, err
	}
	accessToken, err := s.keys.Sign(p.SigningKeyID, accessClaims)
	if err != nil {
		log.Error("access token signing failed", logger.Err(err), logger.KeyID(p.SigningKeyID))
		return nil, err
	}

	expiresIn := int64(claims.Expiry(p, claims.Input{IssuedAt: now, MaxTTL: s.maxTTL}).Sub(now) / time.Second)

	metrics.TokensIssued(rec.ClientID)
	log.Info("tokens issued",
		logger.ClientID(rec.ClientID),
		logger.PresetName(p.Name),
		logger.KeyID(p.SigningKeyID))

	return &dto.TokenResponse{
		AccessToken: accessToken,
		IDToken:     idToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Scope:       rec.Scope,
	}, nil
}
