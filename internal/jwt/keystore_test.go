package jwt_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	jwtx "github.com/dropDatabas3/proxima/internal/jwt"
	jwtv5 "github.com/golang-jwt/jwt/v5"
)

func TestBootstrapDefaultKey(t *testing.T) {
	ks, err := jwtx.NewKeystore()
	if err != nil {
		t.Fatalf("new keystore: %v", err)
	}
	if !ks.Has(jwtx.DefaultKeyID) {
		t.Fatal("default key missing after bootstrap")
	}
	list := ks.List()
	if len(list) != 1 || list[0].ID != jwtx.DefaultKeyID || list[0].Algorithm != jwtx.AlgRS256 {
		t.Fatalf("unexpected key list: %+v", list)
	}
}

func TestCreateKeyDuplicate(t *testing.T) {
	ks, err := jwtx.NewKeystore()
	if err != nil {
		t.Fatalf("new keystore: %v", err)
	}
	if _, err := ks.CreateKey("api-key-1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ks.CreateKey("api-key-1"); !errors.Is(err, jwtx.ErrDuplicateKey) {
		t.Fatalf("want ErrDuplicateKey, got %v", err)
	}
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	ks, err := jwtx.NewKeystore()
	if err != nil {
		t.Fatalf("new keystore: %v", err)
	}

	raw, err := ks.Sign(jwtx.DefaultKeyID, jwtv5.MapClaims{
		"iss": "http://localhost:8080",
		"sub": "user-1234",
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if parts := strings.Split(raw, "."); len(parts) != 3 {
		t.Fatalf("token is not compact JWS: %q", raw)
	}

	tok, err := jwtv5.Parse(raw, ks.Keyfunc(), jwtv5.WithValidMethods([]string{jwtx.AlgRS256}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !tok.Valid {
		t.Fatal("token did not verify")
	}
	if kid := tok.Header["kid"]; kid != jwtx.DefaultKeyID {
		t.Fatalf("kid header = %v", kid)
	}
	if typ := tok.Header["typ"]; typ != "JWT" {
		t.Fatalf("typ header = %v", typ)
	}
}

func TestSignUnknownKey(t *testing.T) {
	ks, err := jwtx.NewKeystore()
	if err != nil {
		t.Fatalf("new keystore: %v", err)
	}
	if _, err := ks.Sign("ghost", jwtv5.MapClaims{}); !errors.Is(err, jwtx.ErrUnknownKey) {
		t.Fatalf("want ErrUnknownKey, got %v", err)
	}
}

func TestJWKSShape(t *testing.T) {
	ks, err := jwtx.NewKeystore()
	if err != nil {
		t.Fatalf("new keystore: %v", err)
	}
	if _, err := ks.CreateKey("rotated"); err != nil {
		t.Fatalf("create: %v", err)
	}

	var set struct {
		Keys []map[string]string `json:"keys"`
	}
	if err := json.Unmarshal(ks.JWKSJSON(), &set); err != nil {
		t.Fatalf("jwks unmarshal: %v", err)
	}
	if len(set.Keys) != 2 {
		t.Fatalf("want 2 keys, got %d", len(set.Keys))
	}
	for _, k := range set.Keys {
		if k["kty"] != "RSA" || k["use"] != "sig" || k["alg"] != "RS256" {
			t.Fatalf("bad key envelope: %v", k)
		}
		if k["kid"] == "" || k["n"] == "" || k["e"] == "" {
			t.Fatalf("missing fields: %v", k)
		}
		if strings.ContainsAny(k["n"]+k["e"], "+/=") {
			t.Fatalf("n/e not base64url without padding: %v", k)
		}
	}
}

func TestPublicKeyPEM(t *testing.T) {
	ks, err := jwtx.NewKeystore()
	if err != nil {
		t.Fatalf("new keystore: %v", err)
	}
	pemStr, err := ks.PublicKeyPEM(jwtx.DefaultKeyID)
	if err != nil {
		t.Fatalf("pem: %v", err)
	}
	if !strings.HasPrefix(pemStr, "-----BEGIN PUBLIC KEY-----") {
		t.Fatalf("not a PKIX public key PEM: %q", pemStr[:40])
	}
	if strings.Contains(pemStr, "PRIVATE") {
		t.Fatal("private material leaked")
	}
	if _, err := ks.PublicKeyPEM("ghost"); !errors.Is(err, jwtx.ErrUnknownKey) {
		t.Fatalf("want ErrUnknownKey, got %v", err)
	}
}
