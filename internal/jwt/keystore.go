// Package jwt holds the signing key manager and JWKS projection.
package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultKeyID is the kid of the key generated at startup.
	DefaultKeyID = "default"

	// AlgRS256 is the only signing algorithm the server issues.
	AlgRS256 = "RS256"

	rsaKeyBits = 2048
)

var (
	ErrDuplicateKey = errors.New("duplicate key id")
	ErrUnknownKey   = errors.New("unknown key id")
)

// KeyInfo is the public description of a signing key. Private material
// never leaves this package.
type KeyInfo struct {
	ID        string    `json:"keyId"`
	Algorithm string    `json:"algorithm"`
	CreatedAt time.Time `json:"createdAt"`
}

type signingKey struct {
	info KeyInfo
	priv *rsa.PrivateKey
}

// Keystore owns RSA signing keys. Keys are immutable once created and
// live for the process lifetime; CreateKey is the only mutation.
type Keystore struct {
	mu   sync.RWMutex
	keys map[string]*signingKey
}

// NewKeystore creates a keystore with the bootstrap "default" RS256 key.
func NewKeystore() (*Keystore, error) {
	ks := &Keystore{keys: make(map[string]*signingKey)}
	if _, err := ks.CreateKey(DefaultKeyID); err != nil {
		return nil, fmt.Errorf("keystore bootstrap: %w", err)
	}
	return ks, nil
}

// CreateKey generates a new RSA-2048 key under the given kid.
func (k *Keystore) CreateKey(kid string) (KeyInfo, error) {
	if kid == "" {
		return KeyInfo{}, fmt.Errorf("%w: empty", ErrUnknownKey)
	}

	priv, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return KeyInfo{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.keys[kid]; exists {
		return KeyInfo{}, fmt.Errorf("%w: %s", ErrDuplicateKey, kid)
	}

	sk := &signingKey{
		info: KeyInfo{ID: kid, Algorithm: AlgRS256, CreatedAt: time.Now().UTC()},
		priv: priv,
	}
	k.keys[kid] = sk
	return sk.info, nil
}

// Sign produces a compact RS256 JWT with header kid/typ over the given
// claims. Pure given key + claims.
func (k *Keystore) Sign(kid string, claims jwtv5.MapClaims) (string, error) {
	k.mu.RLock()
	sk, ok := k.keys[kid]
	k.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, kid)
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodRS256, claims)
	tk.Header["kid"] = kid
	tk.Header["typ"] = "JWT"
	return tk.SignedString(sk.priv)
}

// Has reports whether a key with the given kid exists.
func (k *Keystore) Has(kid string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.keys[kid]
	return ok
}

// List returns public key descriptions sorted by kid.
func (k *Keystore) List() []KeyInfo {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make([]KeyInfo, 0, len(k.keys))
	for _, sk := range k.keys {
		out = append(out, sk.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PublicKeyPEM returns the PKIX PEM encoding of the public key.
func (k *Keystore) PublicKeyPEM(kid string) (string, error) {
	k.mu.RLock()
	sk, ok := k.keys[kid]
	k.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, kid)
	}

	der, err := x509.MarshalPKIXPublicKey(&sk.priv.PublicKey)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

// Keyfunc resolves the verification key by the token's kid header.
// Used by tests and by anything that needs to validate issued tokens.
func (k *Keystore) Keyfunc() jwtv5.Keyfunc {
	return func(t *jwtv5.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("kid_missing")
		}
		k.mu.RLock()
		sk, ok := k.keys[kid]
		k.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, kid)
		}
		return &sk.priv.PublicKey, nil
	}
}
