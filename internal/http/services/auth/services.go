// Package auth contiene los services de autenticación.
package auth

import (
	"context"

	authx "github.com/dropDatabas3/zonegate/internal/auth"
	dto "github.com/dropDatabas3/zonegate/internal/http/dto/auth"
)

// AuthenticateService resuelve credenciales contra la zona indicada.
type AuthenticateService interface {
	Authenticate(ctx context.Context, zoneID string, in dto.AuthenticateRequest) (*dto.AuthenticateResponse, error)
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Authenticate AuthenticateService
}

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Managers map[string]authx.Authenticator // por origin
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	return Services{
		Authenticate: NewAuthenticateService(AuthenticateDeps{Managers: d.Managers}),
	}
}
