// Package auth implementa el núcleo de decisión de autenticación:
// política de lockout, resolución/aprovisionamiento JIT de identidades
// externas y gating por identity provider.
package auth

import (
	"context"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
)

// ExternalPrincipal es una identidad ya verificada por un autenticador
// delegado. Todos sus campos son opcionales; el resolver decide con qué
// identificador trabajar.
type ExternalPrincipal struct {
	// Name es el display name reportado por el sistema de origen.
	Name string

	// ExternalID es el identificador en el sistema de origen
	// (ej: DN de un directorio). Vacío si el origen no lo provee.
	ExternalID string

	// Attributes son atributos extendidos (puede incluir "email").
	Attributes map[string]string
}

// Email retorna el atributo extendido "email", si existe.
func (p ExternalPrincipal) Email() string {
	return p.Attributes["email"]
}

// DirectoryExternalID es el extractor de external id para origins de
// tipo directorio: usa el DN reportado por el bind.
func DirectoryExternalID(p ExternalPrincipal) string {
	return p.Attributes["dn"]
}

// Credential es la credencial o aserción cruda de un intento de login.
// Qué campos aplican depende del origin (password local vs. aserción
// firmada de un origen federado).
type Credential struct {
	Username  string
	Password  string
	Assertion string
}

// Verifier es el autenticador delegado: verifica la credencial y
// retorna el principal externo verificado, o falla.
type Verifier interface {
	Verify(ctx context.Context, zone repository.IdentityZone, cred Credential) (*ExternalPrincipal, error)
}

// Authenticator es la operación completa "verificar + resolver":
// de credencial a usuario local.
type Authenticator interface {
	Authenticate(ctx context.Context, zone repository.IdentityZone, cred Credential) (*repository.User, error)
}
