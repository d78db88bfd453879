package repository

import (
	"context"
	"time"
)

// IdentityProvider representa un proveedor de identidad configurado en
// una zona. La clave (OriginKey, ZoneID) es única; OriginKey solo es
// única dentro de su zona, no globalmente.
type IdentityProvider struct {
	ID        string
	OriginKey string
	ZoneID    string
	Type      string // "internal", "ldap", "saml", etc.
	Config    map[string]any
	Active    bool
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IdentityZone representa un tenant. Los origins, providers y usuarios
// pertenecen exactamente a una zona.
type IdentityZone struct {
	ID        string
	Subdomain string
	Name      string
}

// IdentityProviderStore define el acceso de solo lectura a providers
// que necesita el núcleo (el gate solo inspecciona Active).
type IdentityProviderStore interface {
	// FindByOriginAndZone busca el provider para (origin, zone).
	// Retorna ErrNotFound si no existe.
	FindByOriginAndZone(ctx context.Context, origin, zoneID string) (*IdentityProvider, error)
}
