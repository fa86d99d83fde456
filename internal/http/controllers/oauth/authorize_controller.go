// Package oauth - controllers del flujo OAuth2/OIDC.
package oauth

import (
	"net/http"
	"net/url"
	"strings"

	dto "github.com/dropDatabas3/proxima/internal/http/dto/oauth"
	"github.com/dropDatabas3/proxima/internal/observability/logger"

	svc "github.com/dropDatabas3/proxima/internal/http/services/oauth"
)

// AuthorizeController handles the OAuth2 authorization endpoint.
type AuthorizeController struct {
	service svc.AuthorizeService
}

// NewAuthorizeController creates the controller.
func NewAuthorizeController(s svc.AuthorizeService) *AuthorizeController {
	return &AuthorizeController{service: s}
}

// Authorize handles GET /oauth2/authorize
// Success and redirectable errors return 302 to a verified redirect
// URI; everything earlier (missing params, unknown client) returns 400
// JSON so the browser is never sent to an unverified target.
func (c *AuthorizeController) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("oauth.authorize"))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeOAuthError(w, http.StatusMethodNotAllowed, "invalid_request", "Only GET method is allowed")
		return
	}

	q := r.URL.Query()
	req := dto.AuthorizeRequest{
		ResponseType: strings.TrimSpace(q.Get("response_type")),
		ClientID:     strings.TrimSpace(q.Get("client_id")),
		RedirectURI:  strings.TrimSpace(q.Get("redirect_uri")),
		Scope:        strings.TrimSpace(q.Get("scope")),
		State:        q.Get("state"),
		Nonce:        strings.TrimSpace(q.Get("nonce")),
	}

	res, err := c.service.Authorize(ctx, req)
	if err != nil {
		switch err {
		case svc.ErrMissingParams:
			writeOAuthError(w, http.StatusBadRequest, "invalid_request", "client_id and redirect_uri are required")
		case svc.ErrInvalidClient:
			writeOAuthError(w, http.StatusBadRequest, "invalid_client", "Unknown client_id")
		default:
			log.Error("authorize endpoint error", logger.Err(err))
			writeOAuthError(w, http.StatusInternalServerError, "server_error", "An unexpected error occurred")
		}
		return
	}

	switch res.Type {
	case dto.AuthResultSuccess:
		redirectTo(w, r, res.RedirectURI, url.Values{
			"code":  {res.Code},
			"state": {res.State},
		})
	case dto.AuthResultError:
		params := url.Values{
			"error":             {res.ErrorCode},
			"error_description": {res.ErrorDescription},
		}
		if res.State != "" {
			params.Set("state", res.State)
		}
		redirectTo(w, r, res.RedirectURI, params)
	default:
		log.Error("authorize result without type")
		writeOAuthError(w, http.StatusInternalServerError, "server_error", "An unexpected error occurred")
	}
}

// redirectTo appends params to the target's existing query and issues
// the 302. The target is always a verified redirect URI at this point.
func redirectTo(w http.ResponseWriter, r *http.Request, target string, params url.Values) {
	u, err := url.Parse(target)
	if err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Malformed redirect_uri")
		return
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			if v != "" {
				q.Set(k, v)
			}
		}
	}
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusFound)
}
