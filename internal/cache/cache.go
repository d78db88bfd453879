// Package cache define una interfaz mínima de cache de bytes con TTL.
//
// Backends:
//   - memory (patrickmn/go-cache, para desarrollo/testing)
//   - redis (distribuido, para producción)
package cache

import "time"

// Cache es un cache de bytes con TTL por entrada.
type Cache interface {
	Get(k string) ([]byte, bool)
	Set(k string, v []byte, ttl time.Duration)
	Delete(k string)
}
