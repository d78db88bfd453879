package repository

import (
	"context"
	"time"
)

// ApprovalStatus es la decisión registrada de un usuario sobre un scope.
type ApprovalStatus string

const (
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalDenied   ApprovalStatus = "DENIED"
)

// Approval es una decisión persistida por (userID, clientID, scope) con
// expiración. El núcleo nunca la muta, solo la lee.
type Approval struct {
	UserID        string
	ClientID      string
	Scope         string
	Status        ApprovalStatus
	ExpiresAt     time.Time
	LastUpdatedAt time.Time
}

// Expired indica si la aprobación ya no es efectiva en el instante dado.
func (a Approval) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}

// ApprovalStore define el acceso a decisiones de aprobación.
type ApprovalStore interface {
	// FindEffective retorna las aprobaciones de (userID, clientID).
	// Puede incluir expiradas; el consumidor filtra por instante.
	FindEffective(ctx context.Context, userID, clientID string) ([]Approval, error)

	// Upsert registra o reemplaza la decisión para (userID, clientID, scope).
	Upsert(ctx context.Context, a Approval) error

	// Revoke elimina todas las decisiones de (userID, clientID).
	Revoke(ctx context.Context, userID, clientID string) error
}
