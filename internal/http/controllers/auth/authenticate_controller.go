package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authx "github.com/dropDatabas3/zonegate/internal/auth"
	dto "github.com/dropDatabas3/zonegate/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/zonegate/internal/http/errors"
	svc "github.com/dropDatabas3/zonegate/internal/http/services/auth"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

// maxBodyBytes limita el tamaño del body aceptado.
const maxBodyBytes = 1 << 16 // 64 KiB

// AuthenticateController handles POST /v2/zones/{zone}/authenticate.
type AuthenticateController struct {
	service svc.AuthenticateService
}

// NewAuthenticateController creates a new authenticate controller.
func NewAuthenticateController(service svc.AuthenticateService) *AuthenticateController {
	return &AuthenticateController{service: service}
}

// Authenticate handles the credential verification request.
// POST /v2/zones/{zone}/authenticate
func (c *AuthenticateController) Authenticate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthenticateController.Authenticate"))

	zoneID := chi.URLParam(r, "zone")

	var req dto.AuthenticateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	result, err := c.service.Authenticate(ctx, zoneID, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, svc.ErrUnknownOrigin):
			httperrors.WriteError(w, httperrors.ErrProviderUnavailable.WithDetail("origin not configured"))
		case errors.Is(err, authx.ErrAccountLocked):
			httperrors.WriteError(w, httperrors.ErrAccountLocked)
		case errors.Is(err, authx.ErrProviderUnavailable):
			httperrors.WriteError(w, httperrors.ErrProviderUnavailable)
		case errors.Is(err, authx.ErrBadCredentials):
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
		default:
			log.Error("authentication failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	// Security headers
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)

	log.Debug("authentication response written")
}
