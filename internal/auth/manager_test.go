package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/zonegate/internal/auth"
	"github.com/dropDatabas3/zonegate/internal/auth/verifier"
	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/security/password"
	"github.com/dropDatabas3/zonegate/internal/store/adapters/memory"
)

// fastHash evita los parámetros de producción de argon2 en tests.
var fastHash = password.Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func newPasswordManager(t *testing.T, store *memory.Store, maxFailures int) *auth.Manager {
	t.Helper()

	phc, err := password.Hash(fastHash, "koala")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := store.SetPasswordHash(context.Background(), testZone.ID, "marissa", phc); err != nil {
		t.Fatalf("set hash: %v", err)
	}
	store.SaveProvider(repository.IdentityProvider{OriginKey: "uaa", ZoneID: testZone.ID, Active: true})

	return auth.NewManager(auth.ManagerDeps{
		Verifier:  verifier.NewPassword(store),
		Resolver:  auth.NewResolver(auth.ResolverDeps{Users: store, Origin: "uaa"}),
		Users:     store,
		Providers: store,
		Audit:     store,
		Lockout:   auth.NewLockoutPolicy(store, auth.LockoutConfig{
			CountWindow:   time.Hour,
			LockoutPeriod: 5 * time.Minute,
			MaxFailures:   maxFailures,
		}),
	})
}

func TestManager_SuccessfulLogin_ProvisionsUser(t *testing.T) {
	store := memory.New()
	m := newPasswordManager(t, store, 5)

	user, err := m.Authenticate(context.Background(), testZone, auth.Credential{Username: "marissa", Password: "koala"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "marissa" || user.Origin != "uaa" {
		t.Fatalf("unexpected user: %+v", user)
	}

	// Segundo login: mismo usuario, no uno nuevo.
	again, err := m.Authenticate(context.Background(), testZone, auth.Credential{Username: "marissa", Password: "koala"})
	if err != nil {
		t.Fatalf("second authenticate: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("expected same user on repeat login, got %s vs %s", again.ID, user.ID)
	}
}

func TestManager_WrongPassword_BadCredentials(t *testing.T) {
	store := memory.New()
	m := newPasswordManager(t, store, 5)

	_, err := m.Authenticate(context.Background(), testZone, auth.Credential{Username: "marissa", Password: "wrong"})
	if !errors.Is(err, auth.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestManager_FailuresRecordedForKnownUser(t *testing.T) {
	store := memory.New()
	m := newPasswordManager(t, store, 5)
	ctx := context.Background()

	user, err := m.Authenticate(ctx, testZone, auth.Credential{Username: "marissa", Password: "koala"})
	if err != nil {
		t.Fatalf("provision login: %v", err)
	}

	if _, err := m.Authenticate(ctx, testZone, auth.Credential{Username: "marissa", Password: "wrong"}); err == nil {
		t.Fatal("expected failure")
	}

	events, err := store.FindSince(ctx, testZone.ID, user.ID, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("find events: %v", err)
	}
	failures := 0
	for _, ev := range events {
		if ev.IsFailure() {
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", failures)
	}
}

func TestManager_LockoutAfterMaxFailures(t *testing.T) {
	store := memory.New()
	m := newPasswordManager(t, store, 2)
	ctx := context.Background()

	if _, err := m.Authenticate(ctx, testZone, auth.Credential{Username: "marissa", Password: "koala"}); err != nil {
		t.Fatalf("provision login: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := m.Authenticate(ctx, testZone, auth.Credential{Username: "marissa", Password: "wrong"}); !errors.Is(err, auth.ErrBadCredentials) {
			t.Fatalf("attempt %d: expected ErrBadCredentials, got %v", i, err)
		}
	}

	// Con la cuenta bloqueada ni el password correcto entra.
	_, err := m.Authenticate(ctx, testZone, auth.Credential{Username: "marissa", Password: "koala"})
	if !errors.Is(err, auth.ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}
}

func TestManager_UnknownUser_NoLockoutCheckNoAudit(t *testing.T) {
	store := memory.New()
	m := newPasswordManager(t, store, 2)
	ctx := context.Background()

	// Identidad nunca vista: fallas repetidas no bloquean nada.
	for i := 0; i < 5; i++ {
		_, err := m.Authenticate(ctx, testZone, auth.Credential{Username: "ghost", Password: "wrong"})
		if !errors.Is(err, auth.ErrBadCredentials) {
			t.Fatalf("attempt %d: expected ErrBadCredentials, got %v", i, err)
		}
	}
}

func TestManager_InactiveProvider_RejectsAfterVerification(t *testing.T) {
	store := memory.New()
	m := newPasswordManager(t, store, 5)
	store.SaveProvider(repository.IdentityProvider{OriginKey: "uaa", ZoneID: testZone.ID, Active: false})

	_, err := m.Authenticate(context.Background(), testZone, auth.Credential{Username: "marissa", Password: "koala"})
	if !errors.Is(err, auth.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
