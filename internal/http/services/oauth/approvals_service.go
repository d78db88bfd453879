// Package oauth contiene los services de autorización.
package oauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	dto "github.com/dropDatabas3/zonegate/internal/http/dto/oauth"
	"github.com/dropDatabas3/zonegate/internal/oauth/approval"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

// Errores del service de approvals.
var ErrMissingFields = fmt.Errorf("missing required fields")

// ApprovalsService resuelve qué scopes solicitados quedan autorizados.
type ApprovalsService interface {
	Resolve(ctx context.Context, in dto.ResolveRequest) (*dto.ResolveResponse, error)
}

// ApprovalsDeps contiene las dependencias del approvals service.
type ApprovalsDeps struct {
	Engine *approval.Engine
}

type approvalsService struct {
	deps ApprovalsDeps
}

// NewApprovalsService crea un nuevo servicio de approvals.
func NewApprovalsService(deps ApprovalsDeps) ApprovalsService {
	return &approvalsService{deps: deps}
}

func (s *approvalsService) Resolve(ctx context.Context, in dto.ResolveRequest) (*dto.ResolveResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("oauth.approvals"),
		logger.Op("Resolve"),
	)

	in.UserID = strings.TrimSpace(in.UserID)
	in.ClientID = strings.TrimSpace(in.ClientID)
	if in.UserID == "" || in.ClientID == "" {
		return nil, ErrMissingFields
	}

	log = log.With(logger.UserID(in.UserID), logger.ClientID(in.ClientID))

	result, err := s.deps.Engine.Resolve(ctx, approval.Request{
		ClientID: in.ClientID,
		Scopes:   in.Scopes,
	}, in.UserID, time.Now())
	if err != nil {
		return nil, err
	}

	log.Debug("scopes resolved",
		logger.Bool("approved", result.Approved),
		logger.Count(len(result.Scopes)),
	)

	return &dto.ResolveResponse{
		Approved: result.Approved,
		Scopes:   result.Scopes,
	}, nil
}
