package auth

import (
	"context"
	"time"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

// LockoutConfig parametriza la política de lockout por zona.
type LockoutConfig struct {
	// CountWindow acota cuánto historial se pide al log de auditoría.
	CountWindow time.Duration

	// LockoutPeriod es el requisito efectivo de recencia: una falla más
	// vieja que esto no cuenta, aunque siga dentro de CountWindow. Una
	// ráfaga de fallas ya vencida no puede dejar la cuenta bloqueada
	// para siempre.
	LockoutPeriod time.Duration

	// MaxFailures es la cantidad de fallas que dispara el lockout.
	MaxFailures int
}

// DefaultLockoutConfig refleja los defaults de administrador.
var DefaultLockoutConfig = LockoutConfig{
	CountWindow:   time.Hour,
	LockoutPeriod: 5 * time.Minute,
	MaxFailures:   5,
}

// LockoutPolicy decide si un principal puede intentar login ahora,
// a partir del log de auditoría.
type LockoutPolicy struct {
	Audit  repository.AuditLogger
	Config LockoutConfig
}

// NewLockoutPolicy crea la política con la configuración dada.
// Valores cero caen al default correspondiente.
func NewLockoutPolicy(audit repository.AuditLogger, cfg LockoutConfig) *LockoutPolicy {
	if cfg.CountWindow <= 0 {
		cfg.CountWindow = DefaultLockoutConfig.CountWindow
	}
	if cfg.LockoutPeriod <= 0 {
		cfg.LockoutPeriod = DefaultLockoutConfig.LockoutPeriod
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = DefaultLockoutConfig.MaxFailures
	}
	return &LockoutPolicy{Audit: audit, Config: cfg}
}

// IsLoginAllowed retorna true si el principal puede intentar login en
// el instante now. Solo cuentan las fallas más recientes que el último
// éxito y más nuevas que now-LockoutPeriod.
func (p *LockoutPolicy) IsLoginAllowed(ctx context.Context, zoneID, principalID string, now time.Time) (bool, error) {
	events, err := p.Audit.FindSince(ctx, zoneID, principalID, now.Add(-p.Config.CountWindow))
	if err != nil {
		return false, err
	}

	staleBefore := now.Add(-p.Config.LockoutPeriod)

	// Recorrido del más reciente al más antiguo: un éxito corta la racha,
	// un evento viejo corta el recorrido.
	failures := 0
	for _, ev := range events {
		if ev.At.Before(staleBefore) {
			break
		}
		if ev.IsSuccess() {
			break
		}
		if ev.IsFailure() {
			failures++
		}
	}

	allowed := failures < p.Config.MaxFailures
	if !allowed {
		logger.From(ctx).Info("login attempt denied by lockout policy",
			logger.Component("auth.lockout"),
			logger.ZoneID(zoneID),
			logger.UserID(principalID),
			logger.Count(failures),
		)
	}
	return allowed, nil
}
