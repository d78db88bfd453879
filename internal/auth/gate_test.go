package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/zonegate/internal/auth"
	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/store/adapters/memory"
)

// stubAuthenticator es el delegado envuelto por el gate.
type stubAuthenticator struct {
	user   *repository.User
	err    error
	called bool
}

func (s *stubAuthenticator) Authenticate(context.Context, repository.IdentityZone, auth.Credential) (*repository.User, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

// countingProviderStore cuenta lookups para verificar el orden del gate.
type countingProviderStore struct {
	repository.IdentityProviderStore
	lookups int
}

func (s *countingProviderStore) FindByOriginAndZone(ctx context.Context, origin, zoneID string) (*repository.IdentityProvider, error) {
	s.lookups++
	return s.IdentityProviderStore.FindByOriginAndZone(ctx, origin, zoneID)
}

func TestProviderGate_ActiveProvider_PassesThrough(t *testing.T) {
	providers := memory.New()
	providers.SaveProvider(repository.IdentityProvider{OriginKey: "ldap", ZoneID: testZone.ID, Active: true})

	next := &stubAuthenticator{user: &repository.User{ID: "u-1"}}
	gate := auth.NewProviderGate(next, providers, "ldap")

	user, err := gate.Authenticate(context.Background(), testZone, auth.Credential{Username: "jdoe"})
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if user.ID != "u-1" {
		t.Fatalf("expected delegated user, got %+v", user)
	}
}

func TestProviderGate_InactiveProvider_RejectsValidLogin(t *testing.T) {
	providers := memory.New()
	providers.SaveProvider(repository.IdentityProvider{OriginKey: "ldap", ZoneID: testZone.ID, Active: false})

	next := &stubAuthenticator{user: &repository.User{ID: "u-1"}}
	gate := auth.NewProviderGate(next, providers, "ldap")

	_, err := gate.Authenticate(context.Background(), testZone, auth.Credential{Username: "jdoe"})
	if !errors.Is(err, auth.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if !next.called {
		t.Fatal("delegate must run before the provider check")
	}
}

func TestProviderGate_MissingProvider_RejectsValidLogin(t *testing.T) {
	next := &stubAuthenticator{user: &repository.User{ID: "u-1"}}
	gate := auth.NewProviderGate(next, memory.New(), "ldap")

	_, err := gate.Authenticate(context.Background(), testZone, auth.Credential{Username: "jdoe"})
	if !errors.Is(err, auth.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestProviderGate_DelegateFailure_SkipsProviderLookup(t *testing.T) {
	providers := &countingProviderStore{IdentityProviderStore: memory.New()}
	next := &stubAuthenticator{err: auth.ErrBadCredentials}
	gate := auth.NewProviderGate(next, providers, "ldap")

	_, err := gate.Authenticate(context.Background(), testZone, auth.Credential{Username: "jdoe"})
	if !errors.Is(err, auth.ErrBadCredentials) {
		t.Fatalf("expected delegate error, got %v", err)
	}
	if providers.lookups != 0 {
		t.Fatalf("provider must not be consulted after a failed verification, got %d lookups", providers.lookups)
	}
}

func TestProviderGate_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("store down")
	gate := auth.NewProviderGate(
		&stubAuthenticator{user: &repository.User{ID: "u-1"}},
		failingProviderStore{err: boom},
		"ldap",
	)

	_, err := gate.Authenticate(context.Background(), testZone, auth.Credential{Username: "jdoe"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

type failingProviderStore struct{ err error }

func (s failingProviderStore) FindByOriginAndZone(context.Context, string, string) (*repository.IdentityProvider, error) {
	return nil, s.err
}
