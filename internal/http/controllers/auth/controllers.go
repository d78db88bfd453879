// Package auth contiene los controllers de autenticación.
package auth

import svc "github.com/dropDatabas3/zonegate/internal/http/services/auth"

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Authenticate *AuthenticateController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Authenticate: NewAuthenticateController(s.Authenticate),
	}
}
