// Package oauth contiene los controllers de autorización.
package oauth

import (
	"encoding/json"
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/zonegate/internal/http/dto/oauth"
	httperrors "github.com/dropDatabas3/zonegate/internal/http/errors"
	svc "github.com/dropDatabas3/zonegate/internal/http/services/oauth"
	"github.com/dropDatabas3/zonegate/internal/oauth/approval"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

const maxBodyBytes = 1 << 16 // 64 KiB

// ApprovalsController handles POST /v2/oauth/approvals/resolve.
type ApprovalsController struct {
	service svc.ApprovalsService
}

// NewApprovalsController creates a new approvals controller.
func NewApprovalsController(service svc.ApprovalsService) *ApprovalsController {
	return &ApprovalsController{service: service}
}

// Resolve handles the scope resolution request.
// POST /v2/oauth/approvals/resolve
func (c *ApprovalsController) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ApprovalsController.Resolve"))

	var req dto.ResolveRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	result, err := c.service.Resolve(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, approval.ErrUnknownClient):
			httperrors.WriteError(w, httperrors.ErrUnknownClient)
		default:
			log.Error("scope resolution failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)

	log.Debug("resolution response written")
}
