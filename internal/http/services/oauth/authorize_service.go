// Package oauth contains services for the OAuth2/OIDC endpoints.
package oauth

import (
	"context"
	"errors"

	"github.com/dropDatabas3/proxima/internal/authcode"
	dto "github.com/dropDatabas3/proxima/internal/http/dto/oauth"
	"github.com/dropDatabas3/proxima/internal/observability/logger"
	"github.com/dropDatabas3/proxima/internal/preset"
)

// Errors for the authorize flow. These surface as HTTP 400 bodies: they
// happen before a redirect target is verified, so redirecting would be
// an open-redirect hazard.
var (
	ErrMissingParams = errors.New("missing client_id or redirect_uri")
	ErrInvalidClient = errors.New("invalid client")
	ErrCodeGenFailed = errors.New("failed to generate auth code")
)

const defaultScope = "openid"

// AuthorizeService handles the OAuth2 authorization flow.
type AuthorizeService interface {
	Authorize(ctx context.Context, req dto.AuthorizeRequest) (dto.AuthResult, error)
}

// PresetResolver is the registry surface the authorize flow needs.
type PresetResolver interface {
	ByClientID(clientID string) (preset.Preset, error)
}

// AuthorizeDeps contains dependencies for AuthorizeService.
type AuthorizeDeps struct {
	Presets PresetResolver
	Codes   *authcode.Store
}

type authorizeService struct {
	presets PresetResolver
	codes   *authcode.Store
	rules   []authorizeRule
}

// NewAuthorizeService creates a new AuthorizeService.
func NewAuthorizeService(d AuthorizeDeps) AuthorizeService {
	return &authorizeService{
		presets: d.Presets,
		codes:   d.Codes,
		rules:   defaultRules(),
	}
}

// authorizeRule is one step of the ordered validation pipeline. Rules
// run after the client preset is resolved, so any redirect they emit
// targets a verified URI. A nil outcome means continue.
type authorizeRule func(req dto.AuthorizeRequest, p preset.Preset) *dto.AuthResult

func defaultRules() []authorizeRule {
	return []authorizeRule{
		ruleRedirectURIMatch,
		ruleResponseTypeCode,
	}
}

// ruleRedirectURIMatch rejects a redirect_uri that differs from the
// registered one. The error redirect goes to the REGISTERED URI, never
// the attacker-supplied value.
func ruleRedirectURIMatch(req dto.AuthorizeRequest, p preset.Preset) *dto.AuthResult {
	if req.RedirectURI == p.RedirectURI {
		return nil
	}
	return &dto.AuthResult{
		Type:             dto.AuthResultError,
		RedirectURI:      p.RedirectURI,
		State:            req.State,
		ErrorCode:        "invalid_redirect_uri",
		ErrorDescription: "redirect_uri does not match the registered value",
	}
}

// ruleResponseTypeCode only admits the authorization code flow.
func ruleResponseTypeCode(req dto.AuthorizeRequest, p preset.Preset) *dto.AuthResult {
	if req.ResponseType == "code" {
		return nil
	}
	return &dto.AuthResult{
		Type:             dto.AuthResultError,
		RedirectURI:      req.RedirectURI,
		State:            req.State,
		ErrorCode:        "unsupported_response_type",
		ErrorDescription: "only the code response type is supported",
	}
}

// Authorize validates the request and issues a single-use code bound to
// a snapshot of the resolved preset.
func (s *authorizeService) Authorize(ctx context.Context, req dto.AuthorizeRequest) (dto.AuthResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("AuthorizeService.Authorize"))

	// Without both identifiers there is no target to trust.
	if req.ClientID == "" || req.RedirectURI == "" {
		return dto.AuthResult{}, ErrMissingParams
	}

	p, err := s.presets.ByClientID(req.ClientID)
	if err != nil {
		log.Debug("client resolution failed", logger.Err(err), logger.ClientID(req.ClientID))
		return dto.AuthResult{}, ErrInvalidClient
	}

	for _, rule := range s.rules {
		if terminal := rule(req, p); terminal != nil {
			return *terminal, nil
		}
	}

	scope := req.Scope
	if scope == "" {
		scope = defaultScope
	}

	code, err := s.codes.Issue(ctx, authcode.Record{
		ClientID:    req.ClientID,
		RedirectURI: req.RedirectURI,
		Scope:       scope,
		State:       req.State,
		Nonce:       req.Nonce,
		Subject:     p.Subject,
		Preset:      p,
	})
	if err != nil {
		log.Error("code issuance failed", logger.Err(err))
		return dto.AuthResult{}, ErrCodeGenFailed
	}

	log.Info("auth code issued",
		logger.ClientID(req.ClientID),
		logger.PresetName(p.Name),
		logger.Subject(p.Subject))

	return dto.AuthResult{
		Type:        dto.AuthResultSuccess,
		RedirectURI: req.RedirectURI,
		Code:        code,
		State:       req.State,
	}, nil
}
