// Package server arma el handler HTTP con todas las dependencias cableadas.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	authx "github.com/dropDatabas3/zonegate/internal/auth"
	"github.com/dropDatabas3/zonegate/internal/auth/verifier"
	"github.com/dropDatabas3/zonegate/internal/cache"
	cachememory "github.com/dropDatabas3/zonegate/internal/cache/memory"
	cacheredis "github.com/dropDatabas3/zonegate/internal/cache/redis"
	"github.com/dropDatabas3/zonegate/internal/config"
	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	authctrl "github.com/dropDatabas3/zonegate/internal/http/controllers/auth"
	oauthctrl "github.com/dropDatabas3/zonegate/internal/http/controllers/oauth"
	"github.com/dropDatabas3/zonegate/internal/http/router"
	authsvc "github.com/dropDatabas3/zonegate/internal/http/services/auth"
	oauthsvc "github.com/dropDatabas3/zonegate/internal/http/services/oauth"
	"github.com/dropDatabas3/zonegate/internal/infra/providercache"
	"github.com/dropDatabas3/zonegate/internal/metrics"
	"github.com/dropDatabas3/zonegate/internal/oauth/approval"
	"github.com/dropDatabas3/zonegate/internal/store/adapters/memory"
	"github.com/dropDatabas3/zonegate/internal/store/adapters/pg"
)

// OriginUAA es el origin del proveedor interno de password.
const OriginUAA = "uaa"

// OriginLDAP es el origin del directorio externo por defecto.
const OriginLDAP = "ldap"

// stores agrupa las vistas de persistencia que necesita el wiring,
// independientes del adapter concreto.
type stores struct {
	Users       repository.UserStore
	Providers   repository.IdentityProviderStore
	Audit       repository.AuditLogger
	Approvals   repository.ApprovalStore
	Clients     repository.ClientConfigStore
	Credentials repository.PasswordCredentialStore
}

// BuildHandler construye el handler HTTP completo a partir de la config.
// Retorna el handler, una función de cleanup y error.
func BuildHandler(ctx context.Context, cfg *config.Config) (http.Handler, func() error, error) {
	cleanup := func() error { return nil }

	// Paso 1: Persistencia
	var st stores
	var readyCheck func(ctx context.Context) error
	switch cfg.Storage.Driver {
	case "postgres":
		adapter, err := pg.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		st = stores{
			Users:       adapter.Users(),
			Providers:   adapter.Providers(),
			Audit:       adapter.Audit(),
			Approvals:   adapter.Approvals(),
			Clients:     adapter.Clients(),
			Credentials: adapter.Credentials(),
		}
		readyCheck = adapter.Ping
		cleanup = func() error {
			adapter.Close()
			return nil
		}
	case "memory":
		mem := memory.New()
		st = stores{
			Users:       mem,
			Providers:   mem,
			Audit:       mem,
			Approvals:   mem,
			Clients:     mem,
			Credentials: mem,
		}
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// Paso 2: Cache de providers
	var byteCache cache.Cache
	switch cfg.Cache.Kind {
	case "redis":
		byteCache = cacheredis.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB)
	default:
		byteCache = cachememory.New(cfg.ProviderCacheTTL())
	}
	providers := providercache.New(st.Providers, byteCache, cfg.ProviderCacheTTL())

	// Paso 3: Métricas
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	if err := metrics.RegisterAuth(reg); err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("register metrics: %w", err)
	}

	// Paso 4: Política de lockout
	lockoutCfg, err := lockoutConfig(cfg)
	if err != nil {
		_ = cleanup()
		return nil, nil, err
	}
	lockout := authx.NewLockoutPolicy(st.Audit, lockoutCfg)

	// Paso 5: Flujos de autenticación por origin
	publisher := &authx.AuditPublisher{Audit: st.Audit}

	uaaManager := authx.NewManager(authx.ManagerDeps{
		Verifier: verifier.NewPassword(st.Credentials),
		Resolver: authx.NewResolver(authx.ResolverDeps{
			Users:     st.Users,
			Publisher: publisher,
			Origin:    OriginUAA,
		}),
		Users:     st.Users,
		Providers: providers,
		Audit:     st.Audit,
		Lockout:   lockout,
	})

	ldapManager := authx.NewManager(authx.ManagerDeps{
		Verifier: verifier.NewAssertion(providers, OriginLDAP),
		Resolver: authx.NewResolver(authx.ResolverDeps{
			Users:                st.Users,
			Publisher:            publisher,
			Origin:               OriginLDAP,
			ExternalID:           authx.DirectoryExternalID,
			ExtraAttributeEvents: true,
		}),
		Users:     st.Users,
		Providers: providers,
		Audit:     st.Audit,
		Lockout:   lockout,
	})

	// Paso 6: Engine de approvals
	engine := approval.NewEngine(approval.EngineDeps{
		Clients:   st.Clients,
		Approvals: st.Approvals,
	})

	// Paso 7: Services y controllers
	services := authsvc.NewServices(authsvc.Deps{
		Managers: map[string]authx.Authenticator{
			OriginUAA:  uaaManager,
			OriginLDAP: ldapManager,
		},
	})
	approvals := oauthctrl.NewApprovalsController(
		oauthsvc.NewApprovalsService(oauthsvc.ApprovalsDeps{Engine: engine}),
	)

	handler := router.New(router.Deps{
		AuthControllers: authctrl.NewControllers(services),
		Approvals:       approvals,
		Metrics:         reg,
		ReadyCheck:      readyCheck,
	})

	return handler, cleanup, nil
}

func lockoutConfig(cfg *config.Config) (authx.LockoutConfig, error) {
	out := authx.DefaultLockoutConfig

	if cfg.Lockout.CountWindow != "" {
		d, err := cfg.LockoutCountWindow()
		if err != nil {
			return out, fmt.Errorf("lockout count_window: %w", err)
		}
		out.CountWindow = d
	}
	if cfg.Lockout.LockoutPeriod != "" {
		d, err := cfg.LockoutPeriod()
		if err != nil {
			return out, fmt.Errorf("lockout period: %w", err)
		}
		out.LockoutPeriod = d
	}
	if cfg.Lockout.MaxFailures > 0 {
		out.MaxFailures = cfg.Lockout.MaxFailures
	}
	return out, nil
}
