package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

// EventKind clasifica las notificaciones que emite el resolver hacia el
// colaborador de auditoría externo.
type EventKind string

const (
	// EventNewUser se emite una vez cuando un usuario fue aprovisionado.
	EventNewUser EventKind = "new_user_authenticated"

	// EventIdentityAttributes se emite adicionalmente en origins de tipo
	// directorio, con los atributos específicos del directorio.
	EventIdentityAttributes EventKind = "identity_attributes"

	// EventAuthSuccess se emite en todo login exitoso.
	EventAuthSuccess EventKind = "user_authentication_success"
)

// Event es una notificación de autenticación. La cardinalidad observable
// por login es contrato: 1 para usuarios existentes, 2 para usuarios
// recién aprovisionados, 3 si además el origin es de tipo directorio.
type Event struct {
	Kind EventKind
	User repository.User
	Data map[string]any
}

// Publisher recibe las notificaciones del resolver. La publicación es
// síncrona: cuando Resolve retorna, todos los eventos ya fueron
// entregados.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// NoOpPublisher descarta todos los eventos.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(context.Context, Event) {}

// AuditPublisher persiste las notificaciones como entradas del log de
// auditoría. Es el publisher por defecto del servicio.
type AuditPublisher struct {
	Audit repository.AuditLogger
	Now   func() time.Time // nil = time.Now
}

func (p *AuditPublisher) Publish(ctx context.Context, ev Event) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	kind := repository.AuditUserCreated
	switch ev.Kind {
	case EventAuthSuccess:
		kind = repository.AuditAuthSuccess
	case EventIdentityAttributes:
		kind = repository.AuditIdentityAttributes
	}

	rec := repository.AuditEvent{
		ID:          uuid.NewString(),
		PrincipalID: ev.User.ID,
		Kind:        kind,
		ZoneID:      ev.User.ZoneID,
		Origin:      ev.User.Origin,
		Data:        ev.Data,
		At:          now().UTC(),
	}
	if err := p.Audit.Append(ctx, rec); err != nil {
		logger.From(ctx).Warn("audit append failed",
			logger.Component("auth.events"),
			logger.String("kind", string(ev.Kind)),
			logger.Err(err),
		)
	}
}
