package oauth

// TokenRequest son los campos form-encoded de POST /oauth2/token.
type TokenRequest struct {
	GrantType   string
	Code        string
	ClientID    string
	RedirectURI string
}

// TokenResponse es el cuerpo de éxito del token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}
