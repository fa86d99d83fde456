package claims_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/dropDatabas3/proxima/internal/claims"
	"github.com/dropDatabas3/proxima/internal/preset"
)

func basePreset() preset.Preset {
	return preset.Preset{
		Name:              "test-user",
		ClientID:          "test-client",
		Subject:           "user-1234",
		TokenTTLSeconds:   3600,
		Email:             "test.user@example.com",
		FullName:          "Test User",
		PreferredUsername: "testuser",
		Groups:            []string{"developers"},
		CustomClaims:      map[string]any{"department": "QA"},
	}
}

func baseInput() claims.Input {
	return claims.Input{
		Issuer:   "http://localhost:8080",
		Subject:  "user-1234",
		Audience: "test-client",
		Nonce:    "n-1",
		IssuedAt: time.Unix(1_700_000_000, 0).UTC(),
		MaxTTL:   7200 * time.Second,
	}
}

func TestComposeMandatoryClaims(t *testing.T) {
	mc := claims.Compose(basePreset(), baseInput())

	if mc["iss"] != "http://localhost:8080" {
		t.Fatalf("iss = %v", mc["iss"])
	}
	if mc["sub"] != "user-1234" {
		t.Fatalf("sub = %v", mc["sub"])
	}
	if mc["aud"] != "test-client" {
		t.Fatalf("aud = %v", mc["aud"])
	}
	if mc["iat"] != int64(1_700_000_000) {
		t.Fatalf("iat = %v", mc["iat"])
	}
	if mc["exp"] != int64(1_700_000_000+3600) {
		t.Fatalf("exp = %v", mc["exp"])
	}
	if mc["nonce"] != "n-1" {
		t.Fatalf("nonce = %v", mc["nonce"])
	}
}

func TestComposeIdentityClaims(t *testing.T) {
	mc := claims.Compose(basePreset(), baseInput())

	if mc["email"] != "test.user@example.com" {
		t.Fatalf("email = %v", mc["email"])
	}
	if mc["name"] != "Test User" {
		t.Fatalf("name = %v", mc["name"])
	}
	if mc["preferred_username"] != "testuser" {
		t.Fatalf("preferred_username = %v", mc["preferred_username"])
	}
	if !reflect.DeepEqual(mc["groups"], []string{"developers"}) {
		t.Fatalf("groups = %v", mc["groups"])
	}
	if mc["department"] != "QA" {
		t.Fatalf("custom claim lost: %v", mc["department"])
	}
}

func TestComposeNonceOmittedWhenEmpty(t *testing.T) {
	in := baseInput()
	in.Nonce = ""
	mc := claims.Compose(basePreset(), in)
	if _, ok := mc["nonce"]; ok {
		t.Fatal("nonce present without request nonce")
	}
}

func TestComposeCustomNeverOverridesMandatory(t *testing.T) {
	p := basePreset()
	p.CustomClaims = map[string]any{
		"iss": "https://evil.example.com",
		"sub": "admin",
		"exp": int64(9_999_999_999),
	}
	mc := claims.Compose(p, baseInput())
	if mc["iss"] != "http://localhost:8080" || mc["sub"] != "user-1234" {
		t.Fatalf("mandatory claims overridden: iss=%v sub=%v", mc["iss"], mc["sub"])
	}
	if mc["exp"] != int64(1_700_000_000+3600) {
		t.Fatalf("exp overridden: %v", mc["exp"])
	}
}

func TestExpiryCappedByMaxTTL(t *testing.T) {
	p := basePreset()
	p.TokenTTLSeconds = 999_999
	in := baseInput()

	exp := claims.Expiry(p, in)
	if want := in.IssuedAt.Add(in.MaxTTL); !exp.Equal(want) {
		t.Fatalf("exp = %v, want cap at %v", exp, want)
	}

	// sin cap, manda el preset
	in.MaxTTL = 0
	exp = claims.Expiry(p, in)
	if want := in.IssuedAt.Add(999_999 * time.Second); !exp.Equal(want) {
		t.Fatalf("uncapped exp = %v, want %v", exp, want)
	}
}

func TestComposeDeterministic(t *testing.T) {
	a := claims.Compose(basePreset(), baseInput())
	b := claims.Compose(basePreset(), baseInput())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("composition not deterministic:\n%v\n%v", a, b)
	}
}
