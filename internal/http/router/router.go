// Package router contiene el agregador de rutas del servicio.
package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authctrl "github.com/dropDatabas3/zonegate/internal/http/controllers/auth"
	oauthctrl "github.com/dropDatabas3/zonegate/internal/http/controllers/oauth"
	mw "github.com/dropDatabas3/zonegate/internal/http/middlewares"
)

// Deps contiene todas las dependencias del router.
type Deps struct {
	AuthControllers *authctrl.Controllers
	Approvals       *oauthctrl.ApprovalsController

	// Registry para exponer /metrics. nil = no se monta.
	Metrics *prometheus.Registry

	// ReadyCheck se consulta en /readyz. nil = siempre listo.
	ReadyCheck func(ctx context.Context) error
}

// New construye el handler raíz con todas las rutas registradas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Infra básica para toda la API
	r.Use(mw.WithRecover())

	r.Route("/v2", func(r chi.Router) {
		r.Use(mw.WithRequestLogger())
		if deps.AuthControllers != nil && deps.AuthControllers.Authenticate != nil {
			r.Post("/zones/{zone}/authenticate", deps.AuthControllers.Authenticate.Authenticate)
		}
		if deps.Approvals != nil {
			r.Post("/oauth/approvals/resolve", deps.Approvals.Resolve)
		}
	})

	// Health: público, sin access log (muy frecuente)
	r.Get("/readyz", readyzHandler(deps.ReadyCheck))

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	return r
}

func readyzHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if check != nil {
			if err := check(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
