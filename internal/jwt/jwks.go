package jwt

import (
	"encoding/base64"
	"encoding/json"
	"math/big"
	"sort"
)

// JWK is a public RSA key entry. Only modulus and exponent cross the
// keystore boundary.
type JWK struct {
	Kty string `json:"kty"` // "RSA"
	Use string `json:"use"` // "sig"
	Alg string `json:"alg"` // "RS256"
	KID string `json:"kid"`
	N   string `json:"n"` // base64url, no padding
	E   string `json:"e"` // base64url, no padding
}

// Set is a JSON Web Key Set.
type Set struct {
	Keys []JWK `json:"keys"`
}

// JWKS returns the public projection of every key, sorted by kid.
func (k *Keystore) JWKS() Set {
	k.mu.RLock()
	defer k.mu.RUnlock()

	set := Set{Keys: make([]JWK, 0, len(k.keys))}
	for kid, sk := range k.keys {
		pub := &sk.priv.PublicKey
		set.Keys = append(set.Keys, JWK{
			Kty: "RSA",
			Use: "sig",
			Alg: AlgRS256,
			KID: kid,
			N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		})
	}
	sort.Slice(set.Keys, func(i, j int) bool { return set.Keys[i].KID < set.Keys[j].KID })
	return set
}

// JWKSJSON serializes the key set.
func (k *Keystore) JWKSJSON() []byte {
	b, _ := json.Marshal(k.JWKS())
	return b
}
