package repository

import "context"

// PasswordCredentialStore provee los hashes de password del origin
// local. Los origins federados no lo usan: sus credenciales las
// verifica el sistema de origen.
type PasswordCredentialStore interface {
	// FindPasswordHash retorna el PHC hash del usuario.
	// Retorna ErrNotFound si no hay credencial registrada.
	FindPasswordHash(ctx context.Context, zoneID, username string) (string, error)

	// SetPasswordHash registra o reemplaza el hash del usuario.
	SetPasswordHash(ctx context.Context, zoneID, username, phc string) error
}
