package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/dropDatabas3/zonegate/internal/auth"
	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/store/adapters/memory"
)

const principal = "user-1"

func appendEvent(t *testing.T, store *memory.Store, kind repository.AuditEventKind, at time.Time) {
	t.Helper()
	err := store.Append(context.Background(), repository.AuditEvent{
		PrincipalID: principal,
		Kind:        kind,
		ZoneID:      testZone.ID,
		At:          at,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestIsLoginAllowed_RecentFailuresAtThreshold_Denied(t *testing.T) {
	store := memory.New()
	now := time.Now()
	appendEvent(t, store, repository.AuditAuthFailure, now.Add(-1*time.Second))
	appendEvent(t, store, repository.AuditAuthFailure, now.Add(-2*time.Second))

	p := auth.NewLockoutPolicy(store, auth.LockoutConfig{
		CountWindow:   time.Hour,
		LockoutPeriod: 5 * time.Minute,
		MaxFailures:   2,
	})

	allowed, err := p.IsLoginAllowed(context.Background(), testZone.ID, principal, now)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if allowed {
		t.Fatal("expected login denied at max failures")
	}
}

func TestIsLoginAllowed_SuccessBreaksFailureStreak(t *testing.T) {
	store := memory.New()
	now := time.Now()
	// Fallas viejas, un éxito en el medio, una sola falla después.
	appendEvent(t, store, repository.AuditAuthFailure, now.Add(-4*time.Second))
	appendEvent(t, store, repository.AuditAuthFailure, now.Add(-3*time.Second))
	appendEvent(t, store, repository.AuditAuthSuccess, now.Add(-2*time.Second))
	appendEvent(t, store, repository.AuditAuthFailure, now.Add(-1*time.Second))

	p := auth.NewLockoutPolicy(store, auth.LockoutConfig{
		CountWindow:   time.Hour,
		LockoutPeriod: 5 * time.Minute,
		MaxFailures:   2,
	})

	allowed, err := p.IsLoginAllowed(context.Background(), testZone.ID, principal, now)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if !allowed {
		t.Fatal("a success must reset the failure streak")
	}
}

func TestIsLoginAllowed_StaleBurstDoesNotLockForever(t *testing.T) {
	store := memory.New()
	now := time.Now()
	// Ráfaga por encima del umbral, pero toda más vieja que el período.
	for i := 0; i < 4; i++ {
		appendEvent(t, store, repository.AuditAuthFailure, now.Add(-10*time.Second).Add(-time.Duration(i)*time.Second))
	}

	p := auth.NewLockoutPolicy(store, auth.LockoutConfig{
		CountWindow:   time.Hour,
		LockoutPeriod: 5 * time.Second,
		MaxFailures:   2,
	})

	allowed, err := p.IsLoginAllowed(context.Background(), testZone.ID, principal, now)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if !allowed {
		t.Fatal("failures older than the lockout period must not count")
	}
}

func TestIsLoginAllowed_BelowThreshold_Allowed(t *testing.T) {
	store := memory.New()
	now := time.Now()
	appendEvent(t, store, repository.AuditAuthFailure, now.Add(-1*time.Second))

	p := auth.NewLockoutPolicy(store, auth.LockoutConfig{
		CountWindow:   time.Hour,
		LockoutPeriod: 5 * time.Minute,
		MaxFailures:   2,
	})

	allowed, err := p.IsLoginAllowed(context.Background(), testZone.ID, principal, now)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if !allowed {
		t.Fatal("one failure below the threshold must be allowed")
	}
}

func TestIsLoginAllowed_NoHistory_Allowed(t *testing.T) {
	store := memory.New()
	p := auth.NewLockoutPolicy(store, auth.DefaultLockoutConfig)

	allowed, err := p.IsLoginAllowed(context.Background(), testZone.ID, principal, time.Now())
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if !allowed {
		t.Fatal("empty history must allow login")
	}
}

func TestNewLockoutPolicy_ZeroValuesFallBackToDefaults(t *testing.T) {
	p := auth.NewLockoutPolicy(memory.New(), auth.LockoutConfig{})
	if p.Config != auth.DefaultLockoutConfig {
		t.Fatalf("expected defaults, got %+v", p.Config)
	}
}
