package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/metrics"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

// ExternalIDFunc extrae el identificador externo de un principal.
// Cada origin puede instalar su propio extractor (ej: el DN en un
// origin de directorio). Si retorna vacío, el resolver cae al username.
type ExternalIDFunc func(p ExternalPrincipal) string

// ResolverDeps contiene las dependencias del resolver de identidades.
type ResolverDeps struct {
	Users     repository.UserStore
	Publisher Publisher // nil = NoOp

	// Origin es la clave del identity provider que verificó al principal.
	Origin string

	// ExternalID extrae el identificador externo. nil = usar
	// ExternalPrincipal.ExternalID tal cual.
	ExternalID ExternalIDFunc

	// ExtraAttributeEvents activa el evento adicional de atributos de
	// identidad que emiten los origins de tipo directorio al
	// aprovisionar. La cardinalidad de eventos es contrato observable.
	ExtraAttributeEvents bool

	// Authorities por defecto para usuarios aprovisionados.
	Authorities []string
}

// Resolver mapea un principal externo verificado a un usuario local,
// creándolo la primera vez que aparece (aprovisionamiento JIT).
type Resolver struct {
	deps ResolverDeps
}

// NewResolver crea un resolver para un origin.
func NewResolver(deps ResolverDeps) *Resolver {
	if deps.Publisher == nil {
		deps.Publisher = NoOpPublisher{}
	}
	if deps.ExternalID == nil {
		deps.ExternalID = func(p ExternalPrincipal) string { return p.ExternalID }
	}
	if len(deps.Authorities) == 0 {
		deps.Authorities = []string{"user"}
	}
	return &Resolver{deps: deps}
}

// Origin retorna la clave de origin de este resolver.
func (r *Resolver) Origin() string { return r.deps.Origin }

// Resolve mapea el principal a su usuario local dentro de la zona,
// aprovisionándolo si es la primera vez que se ve esta identidad.
//
// Dos primeros logins casi simultáneos de la misma identidad pueden
// fallar ambos el lookup inicial e intentar crear; el store rechaza el
// segundo insert con ErrConflict y ese caso se trata como "reintentar
// el lookup una vez", nunca como error.
func (r *Resolver) Resolve(ctx context.Context, zone repository.IdentityZone, p ExternalPrincipal) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.resolver"),
		logger.Origin(r.deps.Origin),
		logger.ZoneID(zone.ID),
	)

	// Paso 1: determinar el username utilizable
	username := strings.TrimSpace(p.Name)
	if username == "" {
		username = strings.TrimSpace(p.Email())
	}
	if username == "" {
		log.Debug("no usable identifier in external principal")
		return nil, fmt.Errorf("%w: no usable identifier", ErrBadCredentials)
	}

	// Paso 2: lookup por (username, origin, zone)
	user, err := r.deps.Users.FindByUsernameAndOrigin(ctx, zone.ID, r.deps.Origin, username)
	if err == nil {
		// Usuario existente: no se sincronizan campos, se retorna tal cual.
		r.deps.Publisher.Publish(ctx, Event{Kind: EventAuthSuccess, User: *user})
		return user, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	// Paso 3: aprovisionar (JIT)
	user, err = r.provision(ctx, zone, username, p)
	if err != nil {
		return nil, err
	}

	log.Info("user provisioned", logger.Username(username), logger.UserID(user.ID))
	metrics.UsersProvisioned.WithLabelValues(r.deps.Origin).Inc()

	r.deps.Publisher.Publish(ctx, Event{Kind: EventNewUser, User: *user})
	if r.deps.ExtraAttributeEvents {
		data := make(map[string]any, len(p.Attributes))
		for k, v := range p.Attributes {
			data[k] = v
		}
		r.deps.Publisher.Publish(ctx, Event{Kind: EventIdentityAttributes, User: *user, Data: data})
	}
	r.deps.Publisher.Publish(ctx, Event{Kind: EventAuthSuccess, User: *user})

	return user, nil
}

// provision inserta el usuario y lo re-consulta para obtener el
// registro persistido con su id generado.
func (r *Resolver) provision(ctx context.Context, zone repository.IdentityZone, username string, p ExternalPrincipal) (*repository.User, error) {
	externalID := strings.TrimSpace(r.deps.ExternalID(p))
	if externalID == "" {
		// Fallback impreciso pero contractual: sin identificador del
		// sistema de origen, el username hace de external id.
		externalID = username
	}

	in := repository.CreateUserInput{
		ZoneID:      zone.ID,
		Username:    username,
		Email:       emailFor(username, r.deps.Origin, p),
		Origin:      r.deps.Origin,
		ExternalID:  externalID,
		GivenName:   p.Attributes["given_name"],
		FamilyName:  p.Attributes["family_name"],
		Authorities: r.deps.Authorities,
		// El provider ya verificó al principal contra su directorio.
		Verified: true,
	}

	_, err := r.deps.Users.Create(ctx, in)
	if err != nil && !repository.IsConflict(err) {
		// ErrConflict es la carrera de doble aprovisionamiento: otro
		// request ganó el insert, el re-lookup lo encuentra igual.
		return nil, err
	}

	user, err := r.deps.Users.FindByUsernameAndOrigin(ctx, zone.ID, r.deps.Origin, username)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to provision user", ErrBadCredentials)
	}
	return user, nil
}

// emailFor determina el email del usuario aprovisionado. El storage
// exige forma válida de email, y usernames de algunos origins traen
// '@' embebidos que no son sintaxis válida.
func emailFor(username, origin string, p ExternalPrincipal) string {
	if email := strings.TrimSpace(p.Email()); email != "" {
		return email
	}
	if looksLikeEmail(username) {
		return username
	}
	return strings.ReplaceAll(username, "@", "") + "@user.from." + origin + ".cf"
}

// looksLikeEmail valida la forma mínima local@dominio con un solo '@'.
func looksLikeEmail(s string) bool {
	at := strings.Count(s, "@")
	return at == 1 && !strings.HasPrefix(s, "@") && !strings.HasSuffix(s, "@")
}
