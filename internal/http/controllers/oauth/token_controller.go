// Package oauth - TokenController handles POST /oauth2/token
package oauth

import (
	"encoding/json"
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/proxima/internal/http/dto/oauth"
	"github.com/dropDatabas3/proxima/internal/observability/logger"
	"go.uber.org/zap"

	svc "github.com/dropDatabas3/proxima/internal/http/services/oauth"
)

// TokenController handles the OAuth2 token endpoint.
type TokenController struct {
	service svc.TokenService
}

// NewTokenController creates the controller.
func NewTokenController(s svc.TokenService) *TokenController {
	return &TokenController{service: s}
}

// Token handles POST /oauth2/token
// Implements the authorization_code grant (RFC 6749).
func (c *TokenController) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("oauth.token"))

	// Method check
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeOAuthError(w, http.StatusMethodNotAllowed, "invalid_request", "Only POST method is allowed")
		return
	}

	// Limit body size (64KB for OAuth forms)
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)

	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse form", logger.Err(err))
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	req := dto.TokenRequest{
		GrantType:   strings.TrimSpace(r.PostForm.Get("grant_type")),
		Code:        strings.TrimSpace(r.PostForm.Get("code")),
		ClientID:    strings.TrimSpace(r.PostForm.Get("client_id")),
		RedirectURI: strings.TrimSpace(r.PostForm.Get("redirect_uri")),
	}

	resp, err := c.service.Exchange(ctx, req)
	if err != nil {
		c.handleServiceError(w, err, log)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func (c *TokenController) handleServiceError(w http.ResponseWriter, err error, log *zap.Logger) {
	switch err {
	case svc.ErrUnsupportedGrantType:
		writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "Grant type not supported")
	case svc.ErrInvalidRequest:
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Missing or invalid parameters")
	case svc.ErrInvalidGrant:
		writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "Invalid, expired or already used code")
	default:
		log.Error("token endpoint error", logger.Err(err))
		writeOAuthError(w, http.StatusInternalServerError, "server_error", "An unexpected error occurred")
	}
}

func writeOAuthError(w http.ResponseWriter, status int, errorCode, description string) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + errorCode + `","error_description":"` + description + `"}`))
}
