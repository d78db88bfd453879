package auth

import (
	"context"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

// ProviderGate envuelve un Authenticator y rechaza la autenticación
// cuando el identity provider del origin está deshabilitado en la zona.
//
// El autenticador envuelto corre siempre primero: el gate nunca
// cortocircuita antes de la verificación de credenciales, para que el
// timing y el orden de fallas sean uniformes.
type ProviderGate struct {
	Next      Authenticator
	Providers repository.IdentityProviderStore
	Origin    string
}

// NewProviderGate envuelve next con el chequeo de provider habilitado.
func NewProviderGate(next Authenticator, providers repository.IdentityProviderStore, origin string) *ProviderGate {
	return &ProviderGate{Next: next, Providers: providers, Origin: origin}
}

// Authenticate delega primero y recién después consulta el provider.
// Provider ausente o inactivo → ErrProviderUnavailable, aunque las
// credenciales hayan sido válidas.
func (g *ProviderGate) Authenticate(ctx context.Context, zone repository.IdentityZone, cred Credential) (*repository.User, error) {
	user, err := g.Next.Authenticate(ctx, zone, cred)
	if err != nil {
		return nil, err
	}

	idp, err := g.Providers.FindByOriginAndZone(ctx, g.Origin, zone.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProviderUnavailable
		}
		return nil, err
	}
	if !idp.Active {
		logger.From(ctx).Info("provider disabled, rejecting authenticated login",
			logger.Component("auth.gate"),
			logger.Origin(g.Origin),
			logger.ZoneID(zone.ID),
		)
		return nil, ErrProviderUnavailable
	}

	return user, nil
}
