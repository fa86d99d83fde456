package oauth

import svc "github.com/dropDatabas3/proxima/internal/http/services/oauth"

// Controllers agrupa todos los controllers del dominio OAuth.
type Controllers struct {
	Authorize *AuthorizeController
	Token     *TokenController
}

// NewControllers crea el agregador de controllers OAuth.
func NewControllers(authorize svc.AuthorizeService, token svc.TokenService) *Controllers {
	return &Controllers{
		Authorize: NewAuthorizeController(authorize),
		Token:     NewTokenController(token),
	}
}
