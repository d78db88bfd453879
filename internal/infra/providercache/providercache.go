// Package providercache decora un IdentityProviderStore con cache y
// colapso de lecturas concurrentes. La fila del provider se lee en cada
// login, así que es la lectura caliente del control plane.
package providercache

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/zonegate/internal/cache"
	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

// DefaultTTL acota cuánto puede tardar en verse un cambio del flag
// active de un provider.
const DefaultTTL = 30 * time.Second

// Store decora repository.IdentityProviderStore.
type Store struct {
	next  repository.IdentityProviderStore
	cache cache.Cache
	ttl   time.Duration
	sf    singleflight.Group
}

var _ repository.IdentityProviderStore = (*Store)(nil)

// New crea el decorador. ttl <= 0 usa DefaultTTL.
func New(next repository.IdentityProviderStore, c cache.Cache, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{next: next, cache: c, ttl: ttl}
}

func cacheKey(origin, zoneID string) string {
	return "idp:" + zoneID + ":" + origin
}

// FindByOriginAndZone sirve del cache si puede; los misses concurrentes
// por la misma key colapsan en una sola consulta al store real.
func (s *Store) FindByOriginAndZone(ctx context.Context, origin, zoneID string) (*repository.IdentityProvider, error) {
	key := cacheKey(origin, zoneID)

	if b, ok := s.cache.Get(key); ok {
		var p repository.IdentityProvider
		if json.Unmarshal(b, &p) == nil {
			return &p, nil
		}
		// Entrada corrupta: descartarla y reconsultar.
		s.cache.Delete(key)
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		p, err := s.next.FindByOriginAndZone(ctx, origin, zoneID)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(p); err == nil {
			s.cache.Set(key, b, s.ttl)
		} else {
			logger.From(ctx).Warn("provider cache marshal failed",
				logger.Component("providercache"), logger.Err(err))
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*repository.IdentityProvider), nil
}

// Invalidate borra la entrada de (origin, zone), para cuando el admin
// cambia el flag active.
func (s *Store) Invalidate(origin, zoneID string) {
	s.cache.Delete(cacheKey(origin, zoneID))
}
