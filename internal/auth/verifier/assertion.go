package verifier

import (
	"context"
	"fmt"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/zonegate/internal/auth"
	"github.com/dropDatabas3/zonegate/internal/domain/repository"
)

// Claves de configuración del provider que consume este verificador.
const (
	cfgAssertionSecret = "assertion_secret"
	cfgAssertionIssuer = "assertion_issuer"
)

// Assertion verifica aserciones firmadas (JWT HS256) de un origin
// federado. El secreto compartido vive en la config del provider de la
// zona, así cada tenant federa con su propia clave.
type Assertion struct {
	Providers repository.IdentityProviderStore
	Origin    string
}

// NewAssertion crea el verificador de aserciones para un origin.
func NewAssertion(providers repository.IdentityProviderStore, origin string) *Assertion {
	return &Assertion{Providers: providers, Origin: origin}
}

func (v *Assertion) Verify(ctx context.Context, zone repository.IdentityZone, cred auth.Credential) (*auth.ExternalPrincipal, error) {
	if cred.Assertion == "" {
		return nil, fmt.Errorf("%w: missing assertion", auth.ErrBadCredentials)
	}

	idp, err := v.Providers.FindByOriginAndZone(ctx, v.Origin, zone.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: no provider for origin %s", auth.ErrBadCredentials, v.Origin)
		}
		return nil, err
	}

	secret, _ := idp.Config[cfgAssertionSecret].(string)
	if secret == "" {
		return nil, fmt.Errorf("%w: provider has no assertion secret", auth.ErrBadCredentials)
	}

	opts := []jwtv5.ParserOption{jwtv5.WithValidMethods([]string{"HS256"})}
	if iss, _ := idp.Config[cfgAssertionIssuer].(string); iss != "" {
		opts = append(opts, jwtv5.WithIssuer(iss))
	}

	tk, err := jwtv5.Parse(cred.Assertion, func(*jwtv5.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil || !tk.Valid {
		return nil, fmt.Errorf("%w: invalid assertion", auth.ErrBadCredentials)
	}

	claims, ok := tk.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid assertion claims", auth.ErrBadCredentials)
	}

	return principalFromClaims(claims), nil
}

// principalFromClaims mapea los claims de la aserción al principal
// externo. user_name pisa a sub como display name; el resto de los
// claims string quedan como atributos extendidos.
func principalFromClaims(claims jwtv5.MapClaims) *auth.ExternalPrincipal {
	p := &auth.ExternalPrincipal{Attributes: map[string]string{}}

	if v, _ := claims["user_name"].(string); v != "" {
		p.Name = v
	} else if v, _ := claims["sub"].(string); v != "" {
		p.Name = v
	}
	if v, _ := claims["external_id"].(string); v != "" {
		p.ExternalID = v
	}

	for _, k := range []string{"email", "given_name", "family_name", "phone_number", "dn"} {
		if v, _ := claims[k].(string); v != "" {
			p.Attributes[k] = v
		}
	}
	return p
}
