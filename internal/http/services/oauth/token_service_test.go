package oauth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dropDatabas3/proxima/internal/authcode"
	dto "github.com/dropDatabas3/proxima/internal/http/dto/oauth"
	svc "github.com/dropDatabas3/proxima/internal/http/services/oauth"
	jwtx "github.com/dropDatabas3/proxima/internal/jwt"
	"github.com/dropDatabas3/proxima/internal/preset"
	jwtv5 "github.com/golang-jwt/jwt/v5"
)

type tokenFixture struct {
	service svc.TokenService
	codes   *authcode.Store
	keys    *jwtx.Keystore
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()
	keys, err := jwtx.NewKeystore()
	if err != nil {
		t.Fatalf("keystore: %v", err)
	}
	codes := authcode.NewStore(time.Minute, time.Minute)
	service := svc.NewTokenService(svc.TokenDeps{
		Codes:  codes,
		Keys:   keys,
		Issuer: "http://localhost:8080",
		MaxTTL: 7200 * time.Second,
	})
	return &tokenFixture{service: service, codes: codes, keys: keys}
}

func (f *tokenFixture) issueCode(t *testing.T, p preset.Preset) string {
	t.Helper()
	code, err := f.codes.Issue(context.Background(), authcode.Record{
		ClientID:    p.ClientID,
		RedirectURI: p.RedirectURI,
		Scope:       "openid",
		Nonce:       "n-1",
		Subject:     p.Subject,
		Preset:      p,
	})
	if err != nil {
		t.Fatalf("issue code: %v", err)
	}
	return code
}

func tokenPreset() preset.Preset {
	return preset.Preset{
		Name:            "test-user",
		ClientID:        "test-client",
		RedirectURI:     "http://localhost:3000/callback",
		Subject:         "user-1234",
		TokenTTLSeconds: 3600,
		SigningKeyID:    jwtx.DefaultKeyID,
		Email:           "test.user@example.com",
	}
}

func exchangeReq(code string) dto.TokenRequest {
	return dto.TokenRequest{
		GrantType:   "authorization_code",
		Code:        code,
		ClientID:    "test-client",
		RedirectURI: "http://localhost:3000/callback",
	}
}

func TestExchangeHappyPath(t *testing.T) {
	f := newTokenFixture(t)
	code := f.issueCode(t, tokenPreset())

	resp, err := f.service.Exchange(context.Background(), exchangeReq(code))
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if resp.TokenType != "Bearer" {
		t.Fatalf("token_type = %q", resp.TokenType)
	}
	if resp.ExpiresIn != 3600 {
		t.Fatalf("expires_in = %d", resp.ExpiresIn)
	}
	if resp.Scope != "openid" {
		t.Fatalf("scope = %q", resp.Scope)
	}

	// ID token: firmado con la key del preset, aud = client, nonce eco.
	idTok, err := jwtv5.Parse(resp.IDToken, f.keys.Keyfunc(), jwtv5.WithValidMethods([]string{"RS256"}))
	if err != nil {
		t.Fatalf("id token parse: %v", err)
	}
	idClaims := idTok.Claims.(jwtv5.MapClaims)
	if idClaims["iss"] != "http://localhost:8080" {
		t.Fatalf("iss = %v", idClaims["iss"])
	}
	if idClaims["sub"] != "user-1234" {
		t.Fatalf("sub = %v", idClaims["sub"])
	}
	if idClaims["aud"] != "test-client" {
		t.Fatalf("aud = %v", idClaims["aud"])
	}
	if idClaims["nonce"] != "n-1" {
		t.Fatalf("nonce = %v", idClaims["nonce"])
	}
	if idClaims["email"] != "test.user@example.com" {
		t.Fatalf("email = %v", idClaims["email"])
	}

	// Access token: audiencia de API, lleva scope.
	acTok, err := jwtv5.Parse(resp.AccessToken, f.keys.Keyfunc(), jwtv5.WithValidMethods([]string{"RS256"}))
	if err != nil {
		t.Fatalf("access token parse: %v", err)
	}
	acClaims := acTok.Claims.(jwtv5.MapClaims)
	if acClaims["aud"] != "proxima-api" {
		t.Fatalf("access aud = %v", acClaims["aud"])
	}
	if acClaims["scope"] != "openid" {
		t.Fatalf("access scope = %v", acClaims["scope"])
	}
	if acClaims["token_type"] != "access_token" {
		t.Fatalf("access token_type = %v", acClaims["token_type"])
	}
	if _, hasNonce := acClaims["nonce"]; hasNonce {
		t.Fatal("nonce leaked into access token")
	}

	if parts := strings.Split(resp.IDToken, "."); len(parts) != 3 {
		t.Fatalf("id token not compact JWS")
	}
}

func TestExchangeExpiresInCapped(t *testing.T) {
	f := newTokenFixture(t)
	p := tokenPreset()
	p.TokenTTLSeconds = 999_999
	code := f.issueCode(t, p)

	resp, err := f.service.Exchange(context.Background(), exchangeReq(code))
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if resp.ExpiresIn != 7200 {
		t.Fatalf("expires_in = %d, want cap 7200", resp.ExpiresIn)
	}
}

func TestExchangeUnsupportedGrant(t *testing.T) {
	f := newTokenFixture(t)
	req := exchangeReq("whatever")
	req.GrantType = "client_credentials"
	if _, err := f.service.Exchange(context.Background(), req); !errors.Is(err, svc.ErrUnsupportedGrantType) {
		t.Fatalf("want ErrUnsupportedGrantType, got %v", err)
	}
}

func TestExchangeMissingParams(t *testing.T) {
	f := newTokenFixture(t)
	req := exchangeReq("")
	if _, err := f.service.Exchange(context.Background(), req); !errors.Is(err, svc.ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest, got %v", err)
	}
}

func TestExchangeUnknownCode(t *testing.T) {
	f := newTokenFixture(t)
	if _, err := f.service.Exchange(context.Background(), exchangeReq("deadbeefdeadbeefdeadbeefdeadbeef")); !errors.Is(err, svc.ErrInvalidGrant) {
		t.Fatalf("want ErrInvalidGrant, got %v", err)
	}
}

func TestExchangeReplay(t *testing.T) {
	f := newTokenFixture(t)
	code := f.issueCode(t, tokenPreset())

	if _, err := f.service.Exchange(context.Background(), exchangeReq(code)); err != nil {
		t.Fatalf("first exchange: %v", err)
	}
	if _, err := f.service.Exchange(context.Background(), exchangeReq(code)); !errors.Is(err, svc.ErrInvalidGrant) {
		t.Fatalf("replay: want ErrInvalidGrant, got %v", err)
	}
}

func TestExchangeBindingMismatchBurnsCode(t *testing.T) {
	f := newTokenFixture(t)
	code := f.issueCode(t, tokenPreset())

	bad := exchangeReq(code)
	bad.RedirectURI = "http://evil.example.com/steal"
	if _, err := f.service.Exchange(context.Background(), bad); !errors.Is(err, svc.ErrInvalidGrant) {
		t.Fatalf("mismatch: want ErrInvalidGrant, got %v", err)
	}

	// El intento fallido consumió el code: el reintento correcto también falla.
	if _, err := f.service.Exchange(context.Background(), exchangeReq(code)); !errors.Is(err, svc.ErrInvalidGrant) {
		t.Fatalf("post-mismatch retry: want ErrInvalidGrant, got %v", err)
	}
}

func TestExchangeClientMismatch(t *testing.T) {
	f := newTokenFixture(t)
	code := f.issueCode(t, tokenPreset())

	bad := exchangeReq(code)
	bad.ClientID = "other-client"
	if _, err := f.service.Exchange(context.Background(), bad); !errors.Is(err, svc.ErrInvalidGrant) {
		t.Fatalf("want ErrInvalidGrant, got %v", err)
	}
}
