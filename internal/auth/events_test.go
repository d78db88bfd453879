package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/dropDatabas3/zonegate/internal/auth"
	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/store/adapters/memory"
)

func TestAuditPublisher_MapsEventKinds(t *testing.T) {
	store := memory.New()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pub := &auth.AuditPublisher{Audit: store, Now: func() time.Time { return fixed }}

	user := repository.User{ID: "u-1", ZoneID: testZone.ID, Origin: "ldap"}
	ctx := context.Background()

	pub.Publish(ctx, auth.Event{Kind: auth.EventNewUser, User: user})
	pub.Publish(ctx, auth.Event{Kind: auth.EventIdentityAttributes, User: user, Data: map[string]any{"dn": "cn=x"}})
	pub.Publish(ctx, auth.Event{Kind: auth.EventAuthSuccess, User: user})

	events, err := store.FindSince(ctx, testZone.ID, "u-1", fixed.Add(-time.Minute))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(events))
	}

	kinds := map[repository.AuditEventKind]bool{}
	for _, ev := range events {
		kinds[ev.Kind] = true
		if !ev.At.Equal(fixed) {
			t.Fatalf("expected injected clock, got %v", ev.At)
		}
	}
	for _, want := range []repository.AuditEventKind{
		repository.AuditUserCreated,
		repository.AuditIdentityAttributes,
		repository.AuditAuthSuccess,
	} {
		if !kinds[want] {
			t.Fatalf("missing audit kind %s, got %v", want, kinds)
		}
	}
}
