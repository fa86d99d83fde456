// Package keys contiene los controllers de provisioning de claves RSA.
package keys

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	dto "github.com/dropDatabas3/proxima/internal/http/dto/keys"
	httperrors "github.com/dropDatabas3/proxima/internal/http/errors"
	svcoidc "github.com/dropDatabas3/proxima/internal/http/services/oidc"
	jwtx "github.com/dropDatabas3/proxima/internal/jwt"
	"github.com/dropDatabas3/proxima/internal/metrics"
	"github.com/dropDatabas3/proxima/internal/observability/logger"
)

// KeysController handles RSA signing key provisioning.
type KeysController struct {
	keystore *jwtx.Keystore
	jwks     svcoidc.JWKSService
}

// NewKeysController creates the controller. jwks may be nil when no
// JWKS cache needs invalidation.
func NewKeysController(ks *jwtx.Keystore, jwks svcoidc.JWKSService) *KeysController {
	return &KeysController{keystore: ks, jwks: jwks}
}

// CreateRSA handles POST /proxima/api/jwt/keys/rsa
// Body is optional; an empty or absent keyId gets a random UUID.
func (c *KeysController) CreateRSA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("keys.create_rsa"))

	kid, err := requestedKeyID(r)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("malformed JSON body"))
		return
	}
	if kid == "" {
		kid = uuid.NewString()
	}

	info, err := c.keystore.CreateKey(kid)
	if err != nil {
		if errors.Is(err, jwtx.ErrDuplicateKey) {
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("key already exists: "+kid))
			return
		}
		log.Error("key generation failed", logger.Err(err), logger.KeyID(kid))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	pemStr, err := c.keystore.PublicKeyPEM(info.ID)
	if err != nil {
		log.Error("public key encoding failed", logger.Err(err), logger.KeyID(info.ID))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	if c.jwks != nil {
		c.jwks.Invalidate()
	}
	metrics.SigningKeyCreated()
	log.Info("signing key created", logger.KeyID(info.ID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(dto.CreateKeyResponse{
		KeyID:     info.ID,
		Algorithm: info.Algorithm,
		PublicKey: pemStr,
	})
}

// List handles GET /proxima/api/jwt/keys
func (c *KeysController) List(w http.ResponseWriter, r *http.Request) {
	keys := c.keystore.List()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"keys": keys, "count": len(keys)})
}

// requestedKeyID reads the optional keyId from the JSON body or the
// query string. An empty body is not an error.
func requestedKeyID(r *http.Request) (string, error) {
	if kid := strings.TrimSpace(r.URL.Query().Get("keyId")); kid != "" {
		return kid, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<10))
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		return "", nil
	}

	var req dto.CreateKeyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", err
	}
	return strings.TrimSpace(req.KeyID), nil
}
