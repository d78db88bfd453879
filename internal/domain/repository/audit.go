package repository

import (
	"context"
	"time"
)

// AuditEventKind clasifica un evento del log de auditoría.
type AuditEventKind string

const (
	AuditAuthSuccess        AuditEventKind = "user.authentication.success"
	AuditAuthFailure        AuditEventKind = "user.authentication.failure"
	AuditUserCreated        AuditEventKind = "user.created"
	AuditIdentityAttributes AuditEventKind = "user.identity.attributes"
)

// AuditEvent es una entrada append-only del log de auditoría.
type AuditEvent struct {
	ID          string
	PrincipalID string
	Kind        AuditEventKind
	ZoneID      string
	Origin      string
	Data        map[string]any
	At          time.Time
}

// IsFailure indica si el evento cuenta como intento fallido de login.
func (e AuditEvent) IsFailure() bool { return e.Kind == AuditAuthFailure }

// IsSuccess indica si el evento es un login exitoso.
func (e AuditEvent) IsSuccess() bool { return e.Kind == AuditAuthSuccess }

// AuditLogger define el log de auditoría que consume el núcleo.
// Append es la única mutación; el resto es lectura ordenada.
type AuditLogger interface {
	// FindSince retorna los eventos de un principal con At >= since,
	// ordenados del más reciente al más antiguo.
	FindSince(ctx context.Context, zoneID, principalID string, since time.Time) ([]AuditEvent, error)

	// Append agrega un evento al log.
	Append(ctx context.Context, ev AuditEvent) error
}
