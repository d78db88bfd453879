// Package verifier provee autenticadores delegados concretos: password
// local y aserciones firmadas de origins federados. Ambos cumplen el
// contrato auth.Verifier; el núcleo no depende de ninguno en concreto.
package verifier

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/zonegate/internal/auth"
	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/security/password"
)

// Password verifica credenciales username/password contra los hashes
// del store local.
type Password struct {
	Creds repository.PasswordCredentialStore
}

// NewPassword crea el verificador de password local.
func NewPassword(creds repository.PasswordCredentialStore) *Password {
	return &Password{Creds: creds}
}

func (v *Password) Verify(ctx context.Context, zone repository.IdentityZone, cred auth.Credential) (*auth.ExternalPrincipal, error) {
	if cred.Username == "" || cred.Password == "" {
		return nil, fmt.Errorf("%w: missing username or password", auth.ErrBadCredentials)
	}

	phc, err := v.Creds.FindPasswordHash(ctx, zone.ID, cred.Username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: unknown user", auth.ErrBadCredentials)
		}
		return nil, err
	}

	if !password.Verify(cred.Password, phc) {
		return nil, fmt.Errorf("%w: password mismatch", auth.ErrBadCredentials)
	}

	return &auth.ExternalPrincipal{Name: cred.Username}, nil
}
