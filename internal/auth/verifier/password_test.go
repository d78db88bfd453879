package verifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/zonegate/internal/auth"
	"github.com/dropDatabas3/zonegate/internal/auth/verifier"
	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/security/password"
	"github.com/dropDatabas3/zonegate/internal/store/adapters/memory"
)

var testZone = repository.IdentityZone{ID: "zone-1"}

var fastHash = password.Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func seedPassword(t *testing.T, store *memory.Store, username, plain string) {
	t.Helper()
	phc, err := password.Hash(fastHash, plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := store.SetPasswordHash(context.Background(), testZone.ID, username, phc); err != nil {
		t.Fatalf("set hash: %v", err)
	}
}

func TestPasswordVerify_Success(t *testing.T) {
	store := memory.New()
	seedPassword(t, store, "marissa", "koala")
	v := verifier.NewPassword(store)

	p, err := v.Verify(context.Background(), testZone, auth.Credential{Username: "marissa", Password: "koala"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.Name != "marissa" {
		t.Fatalf("expected principal named marissa, got %q", p.Name)
	}
}

func TestPasswordVerify_Failures(t *testing.T) {
	store := memory.New()
	seedPassword(t, store, "marissa", "koala")
	v := verifier.NewPassword(store)

	cases := []struct {
		name string
		cred auth.Credential
	}{
		{"missing username", auth.Credential{Password: "koala"}},
		{"missing password", auth.Credential{Username: "marissa"}},
		{"unknown user", auth.Credential{Username: "ghost", Password: "koala"}},
		{"wrong password", auth.Credential{Username: "marissa", Password: "wrong"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), testZone, tc.cred)
			if !errors.Is(err, auth.ErrBadCredentials) {
				t.Fatalf("expected ErrBadCredentials, got %v", err)
			}
		})
	}
}
