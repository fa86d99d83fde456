package oidc_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	svc "github.com/dropDatabas3/proxima/internal/http/services/oidc"
	jwtx "github.com/dropDatabas3/proxima/internal/jwt"
)

// countingCache cuenta hits/sets para observar el uso del cache.
type countingCache struct {
	data map[string][]byte
	gets int
	sets int
	hits int
}

func newCountingCache() *countingCache {
	return &countingCache{data: make(map[string][]byte)}
}

func (c *countingCache) Get(key string) ([]byte, bool) {
	c.gets++
	b, ok := c.data[key]
	if ok {
		c.hits++
	}
	return b, ok
}

func (c *countingCache) Set(key string, value []byte, ttl time.Duration) {
	c.sets++
	c.data[key] = value
}

func (c *countingCache) Delete(key string) {
	delete(c.data, key)
}

func TestDiscoveryJSONCached(t *testing.T) {
	cc := newCountingCache()
	s := svc.NewDiscoveryService("http://localhost:8080/", cc, 15*time.Second)

	a, err := s.DiscoveryJSON(context.Background())
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	b, err := s.DiscoveryJSON(context.Background())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if string(a) != string(b) {
		t.Fatal("cached document differs")
	}
	if cc.sets != 1 || cc.hits != 1 {
		t.Fatalf("cache usage: sets=%d hits=%d", cc.sets, cc.hits)
	}

	var doc map[string]any
	if err := json.Unmarshal(a, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// el slash final del issuer se normaliza
	if doc["issuer"] != "http://localhost:8080" {
		t.Fatalf("issuer = %v", doc["issuer"])
	}
	if doc["token_endpoint"] != "http://localhost:8080/oauth2/token" {
		t.Fatalf("token_endpoint = %v", doc["token_endpoint"])
	}
}

func TestDiscoveryWithoutCache(t *testing.T) {
	s := svc.NewDiscoveryService("http://localhost:8080", nil, 0)
	if _, err := s.DiscoveryJSON(context.Background()); err != nil {
		t.Fatalf("nil cache: %v", err)
	}
}

func TestJWKSInvalidate(t *testing.T) {
	ks, err := jwtx.NewKeystore()
	if err != nil {
		t.Fatalf("keystore: %v", err)
	}
	cc := newCountingCache()
	s := svc.NewJWKSService(ks, cc, 15*time.Second)

	before, err := s.JWKSJSON(context.Background())
	if err != nil {
		t.Fatalf("jwks: %v", err)
	}

	if _, err := ks.CreateKey("rotation-1"); err != nil {
		t.Fatalf("create key: %v", err)
	}

	// Sin invalidar, sigue sirviendo el documento viejo.
	stale, err := s.JWKSJSON(context.Background())
	if err != nil {
		t.Fatalf("jwks: %v", err)
	}
	if string(stale) != string(before) {
		t.Fatal("cache bypassed unexpectedly")
	}

	s.Invalidate()
	fresh, err := s.JWKSJSON(context.Background())
	if err != nil {
		t.Fatalf("jwks: %v", err)
	}
	var set struct {
		Keys []map[string]any `json:"keys"`
	}
	if err := json.Unmarshal(fresh, &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(set.Keys) != 2 {
		t.Fatalf("want 2 keys after invalidate, got %d", len(set.Keys))
	}
}
