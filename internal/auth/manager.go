package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/metrics"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

// ManagerDeps contiene las dependencias del flujo completo de login.
type ManagerDeps struct {
	Verifier  Verifier
	Resolver  *Resolver
	Users     repository.UserStore
	Providers repository.IdentityProviderStore
	Audit     repository.AuditLogger
	Lockout   *LockoutPolicy // nil = sin política de lockout
	Now       func() time.Time
}

// Manager orquesta un intento de login: lockout → verificación delegada
// → resolución/aprovisionamiento → gate de provider. Cada invocación es
// síncrona y sin estado compartido entre requests.
type Manager struct {
	deps  ManagerDeps
	chain Authenticator
}

// NewManager arma la cadena de autenticación para un origin.
func NewManager(deps ManagerDeps) *Manager {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	inner := &verifyResolve{verifier: deps.Verifier, resolver: deps.Resolver}
	return &Manager{
		deps:  deps,
		chain: NewProviderGate(inner, deps.Providers, deps.Resolver.Origin()),
	}
}

// Authenticate ejecuta el intento de login completo para la zona dada.
func (m *Manager) Authenticate(ctx context.Context, zone repository.IdentityZone, cred Credential) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.manager"),
		logger.Origin(m.deps.Resolver.Origin()),
		logger.ZoneID(zone.ID),
	)
	now := m.deps.Now()

	// Paso 1: lockout. Solo aplica si el principal ya existe localmente;
	// una identidad nunca vista no tiene historial que contar.
	known := m.lookupKnown(ctx, zone, cred.Username)
	if known != nil && m.deps.Lockout != nil {
		allowed, err := m.deps.Lockout.IsLoginAllowed(ctx, zone.ID, known.ID, now)
		if err != nil {
			return nil, err
		}
		if !allowed {
			metrics.LockoutDenials.WithLabelValues(m.deps.Resolver.Origin()).Inc()
			return nil, ErrAccountLocked
		}
	}

	// Paso 2: verificar + resolver + gate
	user, err := m.chain.Authenticate(ctx, zone, cred)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			m.recordFailure(ctx, zone, known, now)
			metrics.AuthFailures.WithLabelValues(m.deps.Resolver.Origin()).Inc()
			log.Debug("authentication failed", logger.Err(err))
		}
		return nil, err
	}

	metrics.AuthSuccesses.WithLabelValues(m.deps.Resolver.Origin()).Inc()
	log.Info("authentication successful", logger.UserID(user.ID))
	return user, nil
}

// lookupKnown busca el usuario local del username, si ya existe.
func (m *Manager) lookupKnown(ctx context.Context, zone repository.IdentityZone, username string) *repository.User {
	if username == "" {
		return nil
	}
	u, err := m.deps.Users.FindByUsernameAndOrigin(ctx, zone.ID, m.deps.Resolver.Origin(), username)
	if err != nil {
		return nil
	}
	return u
}

// recordFailure agrega la falla al log de auditoría para que la cuente
// la política de lockout. Sin usuario conocido no hay principal al que
// atribuirla.
func (m *Manager) recordFailure(ctx context.Context, zone repository.IdentityZone, known *repository.User, now time.Time) {
	if known == nil || m.deps.Audit == nil {
		return
	}
	ev := repository.AuditEvent{
		ID:          uuid.NewString(),
		PrincipalID: known.ID,
		Kind:        repository.AuditAuthFailure,
		ZoneID:      zone.ID,
		Origin:      m.deps.Resolver.Origin(),
		At:          now.UTC(),
	}
	if err := m.deps.Audit.Append(ctx, ev); err != nil {
		logger.From(ctx).Warn("audit append failed",
			logger.Component("auth.manager"), logger.Err(err))
	}
}

// verifyResolve es el autenticador interno "verificar + resolver" al
// que el ProviderGate delega.
type verifyResolve struct {
	verifier Verifier
	resolver *Resolver
}

func (a *verifyResolve) Authenticate(ctx context.Context, zone repository.IdentityZone, cred Credential) (*repository.User, error) {
	p, err := a.verifier.Verify(ctx, zone, cred)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) || errors.Is(err, ErrProviderUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrBadCredentials, err)
	}
	return a.resolver.Resolve(ctx, zone, *p)
}
