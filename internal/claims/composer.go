// Package claims builds ID/access token claim sets from a preset plus
// flow parameters. Composition is deterministic: same inputs, same
// claims. No clock reads, no randomness.
package claims

import (
	"time"

	"github.com/dropDatabas3/proxima/internal/preset"
	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Input carries the flow parameters for one composition.
type Input struct {
	Issuer   string
	Subject  string
	Audience string
	Nonce    string
	IssuedAt time.Time
	// MaxTTL caps the preset TTL; zero means no cap.
	MaxTTL time.Duration
}

// Expiry resolves the effective expiration for a preset under the cap.
func Expiry(p preset.Preset, in Input) time.Time {
	ttl := time.Duration(p.TokenTTLSeconds) * time.Second
	if in.MaxTTL > 0 && ttl > in.MaxTTL {
		ttl = in.MaxTTL
	}
	return in.IssuedAt.Add(ttl)
}

// Compose builds the claim set: mandatory iss/sub/aud/exp/iat, nonce
// when supplied, then the preset's standard and custom claims. Custom
// claims never override the mandatory set.
func Compose(p preset.Preset, in Input) jwtv5.MapClaims {
	mc := jwtv5.MapClaims{}

	for k, v := range p.CustomClaims {
		mc[k] = v
	}

	if p.Email != "" {
		mc["email"] = p.Email
	}
	if p.FullName != "" {
		mc["name"] = p.FullName
	}
	if p.PreferredUsername != "" {
		mc["preferred_username"] = p.PreferredUsername
	}
	if len(p.Groups) > 0 {
		mc["groups"] = append([]string(nil), p.Groups...)
	}

	mc["iss"] = in.Issuer
	mc["sub"] = in.Subject
	mc["aud"] = in.Audience
	mc["iat"] = in.IssuedAt.Unix()
	mc["exp"] = Expiry(p, in).Unix()
	if in.Nonce != "" {
		mc["nonce"] = in.Nonce
	}

	return mc
}
