// Package cache define la interfaz mínima de cache usada por los
// servicios de metadata (discovery/JWKS).
package cache

import "time"

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}
