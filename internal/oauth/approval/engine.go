// Package approval resuelve qué scopes de una autorización OAuth pueden
// proceder sin consentimiento interactivo, contra decisiones previas del
// usuario y las reglas de auto-aprobación del client.
package approval

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/metrics"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

// ErrUnknownClient indica que no hay configuración recuperable para el
// client de la autorización.
var ErrUnknownClient = errors.New("unknown client")

// Request es la autorización pendiente. Efímera, una por llamada; el
// engine nunca la muta, retorna un Result nuevo.
type Request struct {
	ClientID string
	Scopes   []string
}

// Result es el desenlace de la resolución. Si Approved es false, Scopes
// es el set solicitado sin cambios.
type Result struct {
	Approved bool
	Scopes   []string
}

// EngineDeps contiene las dependencias del engine.
type EngineDeps struct {
	Clients   repository.ClientConfigStore
	Approvals repository.ApprovalStore
}

// Engine resuelve aprobaciones de scopes.
type Engine struct {
	deps EngineDeps
}

// NewEngine crea el engine.
func NewEngine(deps EngineDeps) *Engine {
	return &Engine{deps: deps}
}

// Resolve particiona los scopes solicitados en auto-aprobados (nunca
// consultan el store) y el resto, que se resuelve contra la decisión
// registrada más reciente no expirada por (userID, clientID, scope):
// APPROVED se incluye, DENIED queda resuelto pero excluido, y sin
// registro el scope queda sin resolver. Cualquier scope sin resolver
// bloquea la aprobación y retorna el set solicitado sin cambios.
func (e *Engine) Resolve(ctx context.Context, req Request, userID string, now time.Time) (Result, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("oauth.approval"),
		logger.ClientID(req.ClientID),
		logger.UserID(userID),
	)

	// Sin scopes solicitados no hay consentimiento que evaluar.
	if len(req.Scopes) == 0 {
		return Result{Approved: true, Scopes: []string{}}, nil
	}

	cfg, err := e.deps.Clients.Get(ctx, req.ClientID)
	if err != nil {
		if repository.IsNotFound(err) {
			return Result{}, ErrUnknownClient
		}
		return Result{}, err
	}

	// Partición: auto-aprobados vs. pendientes de decisión registrada.
	var pending []string
	autoApproved := make(map[string]bool, len(req.Scopes))
	for _, scope := range req.Scopes {
		if AutoApproved(cfg.AutoApprove, scope) {
			autoApproved[scope] = true
		} else {
			pending = append(pending, scope)
		}
	}

	granted := make(map[string]bool, len(pending))
	if len(pending) > 0 {
		decisions, err := e.effectiveDecisions(ctx, userID, req.ClientID, now)
		if err != nil {
			return Result{}, err
		}
		for _, scope := range pending {
			st, found := decisions[scope]
			if !found {
				// Scope sin decisión registrada: se necesita
				// consentimiento interactivo.
				log.Debug("scope unresolved", logger.Scope(scope))
				metrics.ScopeResolutions.WithLabelValues("unresolved").Inc()
				return Result{Approved: false, Scopes: append([]string(nil), req.Scopes...)}, nil
			}
			if st == repository.ApprovalApproved {
				granted[scope] = true
			}
			// DENIED: resuelto, pero queda afuera del resultado.
		}
	}

	resolved := make([]string, 0, len(req.Scopes))
	for _, scope := range req.Scopes {
		if autoApproved[scope] || granted[scope] {
			resolved = append(resolved, scope)
		}
	}

	metrics.ScopeResolutions.WithLabelValues("approved").Inc()
	log.Debug("scope approval resolved", logger.Count(len(resolved)))
	return Result{Approved: true, Scopes: resolved}, nil
}

// effectiveDecisions arma el mapa scope → status con la decisión no
// expirada más reciente por scope. Si el store devuelve varias, la de
// LastUpdatedAt mayor es la autoritativa.
func (e *Engine) effectiveDecisions(ctx context.Context, userID, clientID string, now time.Time) (map[string]repository.ApprovalStatus, error) {
	all, err := e.deps.Approvals.FindEffective(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]repository.Approval, len(all))
	for _, a := range all {
		if a.Expired(now) {
			continue
		}
		if prev, ok := latest[a.Scope]; ok && !a.LastUpdatedAt.After(prev.LastUpdatedAt) {
			continue
		}
		latest[a.Scope] = a
	}

	out := make(map[string]repository.ApprovalStatus, len(latest))
	for scope, a := range latest {
		out[scope] = a.Status
	}
	return out, nil
}
