package oauth

// AuthorizeRequest son los parámetros de GET /oauth2/authorize.
type AuthorizeRequest struct {
	ResponseType string
	ClientID     string
	RedirectURI  string
	Scope        string
	State        string
	Nonce        string
}

// AuthResultType discrimina el desenlace del flujo de autorización.
type AuthResultType int

const (
	// AuthResultSuccess: redirect con code + state.
	AuthResultSuccess AuthResultType = iota
	// AuthResultError: redirect a una URI verificada con error + state.
	AuthResultError
)

// AuthResult es el desenlace de una autorización que puede redirigir.
// Los fallos que no pueden redirigir (target sin verificar) se reportan
// como error del service, nunca como AuthResult.
type AuthResult struct {
	Type        AuthResultType
	RedirectURI string
	Code        string
	State       string

	// Solo para AuthResultError. Textos fijos, nunca input del request.
	ErrorCode        string
	ErrorDescription string
}
