package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Authentication-related Prometheus metrics. Defined in a standalone
// package to avoid import cycles between auth and HTTP packages.

var (
	AuthSuccesses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_success_total",
		Help: "Logins exitosos por origin",
	}, []string{"origin"})

	AuthFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_failure_total",
		Help: "Logins fallidos por origin",
	}, []string{"origin"})

	LockoutDenials = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_lockout_denials_total",
		Help: "Intentos negados por la política de lockout",
	}, []string{"origin"})

	UsersProvisioned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_users_provisioned_total",
		Help: "Usuarios creados por aprovisionamiento JIT",
	}, []string{"origin"})

	ScopeResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oauth_scope_resolutions_total",
		Help: "Resoluciones de aprobación de scopes por resultado",
	}, []string{"outcome"})
)

// RegisterAuth registers the auth metrics on the given registry (or default if nil).
func RegisterAuth(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		AuthSuccesses, AuthFailures, LockoutDenials, UsersProvisioned, ScopeResolutions,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
