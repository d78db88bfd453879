package repository

import (
	"context"
	"time"
)

// User representa un usuario local del sistema. Se crea por login directo
// o por aprovisionamiento JIT la primera vez que una identidad externa
// se autentica con éxito.
type User struct {
	ID          string
	ZoneID      string
	Username    string
	Email       string
	Origin      string // clave del identity provider que verificó al usuario
	ExternalID  string // identificador en el sistema de origen (ej: DN de directorio)
	GivenName   string
	FamilyName  string
	Authorities []string
	Verified    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateUserInput contiene los datos para aprovisionar un usuario.
type CreateUserInput struct {
	ZoneID      string
	Username    string
	Email       string
	Origin      string
	ExternalID  string
	GivenName   string
	FamilyName  string
	Authorities []string
	Verified    bool
}

// UserStore define las operaciones de persistencia de usuarios que
// consume el núcleo de autenticación.
type UserStore interface {
	// FindByUsernameAndOrigin busca un usuario por (username, origin, zone).
	// Retorna ErrNotFound si no existe.
	FindByUsernameAndOrigin(ctx context.Context, zoneID, origin, username string) (*User, error)

	// FindByID busca un usuario por ID.
	// Retorna ErrNotFound si no existe.
	FindByID(ctx context.Context, userID string) (*User, error)

	// Create inserta un nuevo usuario. Retorna ErrConflict si ya existe
	// un registro con el mismo (username, origin, zone).
	Create(ctx context.Context, in CreateUserInput) (*User, error)
}
