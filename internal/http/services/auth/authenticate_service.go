package auth

import (
	"context"
	"fmt"
	"strings"

	authx "github.com/dropDatabas3/zonegate/internal/auth"
	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	dto "github.com/dropDatabas3/zonegate/internal/http/dto/auth"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

// DefaultOrigin es el origin asumido cuando el request no indica uno.
const DefaultOrigin = "uaa"

// Errores del service de autenticación.
var (
	ErrMissingFields = fmt.Errorf("missing required fields")
	ErrUnknownOrigin = fmt.Errorf("unknown origin")
)

// AuthenticateDeps contiene las dependencias del authenticate service.
type AuthenticateDeps struct {
	Managers map[string]authx.Authenticator // por origin
}

type authenticateService struct {
	deps AuthenticateDeps
}

// NewAuthenticateService crea un nuevo servicio de autenticación.
func NewAuthenticateService(deps AuthenticateDeps) AuthenticateService {
	return &authenticateService{deps: deps}
}

func (s *authenticateService) Authenticate(ctx context.Context, zoneID string, in dto.AuthenticateRequest) (*dto.AuthenticateResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.authenticate"),
		logger.Op("Authenticate"),
	)

	// Paso 0: Normalización
	in.Origin = strings.TrimSpace(in.Origin)
	in.Username = strings.TrimSpace(in.Username)
	zoneID = strings.TrimSpace(zoneID)
	if in.Origin == "" {
		in.Origin = DefaultOrigin
	}

	// Validación mínima: password o assertion, nunca ninguno
	if zoneID == "" || (in.Username == "" && in.Assertion == "") {
		return nil, ErrMissingFields
	}

	log = log.With(logger.ZoneID(zoneID), logger.Origin(in.Origin))

	// Paso 1: Seleccionar el flujo según origin
	mgr, ok := s.deps.Managers[in.Origin]
	if !ok {
		log.Debug("no authenticator registered for origin")
		return nil, ErrUnknownOrigin
	}

	// Paso 2: Ejecutar el flujo completo (gate → verify → resolve)
	zone := repository.IdentityZone{ID: zoneID}
	user, err := mgr.Authenticate(ctx, zone, authx.Credential{
		Username:  in.Username,
		Password:  in.Password,
		Assertion: in.Assertion,
	})
	if err != nil {
		return nil, err
	}

	log.Info("authentication succeeded", logger.UserID(user.ID))

	return &dto.AuthenticateResponse{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Origin:      user.Origin,
		ZoneID:      user.ZoneID,
		ExternalID:  user.ExternalID,
		GivenName:   user.GivenName,
		FamilyName:  user.FamilyName,
		Authorities: user.Authorities,
		Verified:    user.Verified,
	}, nil
}
