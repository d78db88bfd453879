package auth

import "errors"

// Errores terminales del flujo de autenticación. Ninguno se reintenta
// internamente; el caller los mapea a una falla genérica hacia afuera
// para no filtrar información de enumeración de cuentas.
var (
	// ErrBadCredentials indica que la verificación falló o que la
	// identidad no pudo resolverse ni aprovisionarse.
	ErrBadCredentials = errors.New("bad credentials")

	// ErrProviderUnavailable indica que el identity provider del origin
	// está deshabilitado en la zona, aun con credenciales válidas.
	ErrProviderUnavailable = errors.New("identity provider unavailable")

	// ErrAccountLocked indica que la política de lockout negó el intento.
	ErrAccountLocked = errors.New("account locked")
)
