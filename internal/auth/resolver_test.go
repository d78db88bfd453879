package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/zonegate/internal/auth"
	"github.com/dropDatabas3/zonegate/internal/domain/repository"
	"github.com/dropDatabas3/zonegate/internal/store/adapters/memory"
)

var testZone = repository.IdentityZone{ID: "zone-1"}

// recordingPublisher captura los eventos publicados en orden.
type recordingPublisher struct {
	events []auth.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev auth.Event) {
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) kinds() []auth.EventKind {
	out := make([]auth.EventKind, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestResolve_ExistingUser_SingleEvent(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	seeded, err := store.Create(ctx, repository.CreateUserInput{
		ZoneID:   testZone.ID,
		Username: "marissa",
		Email:    "marissa@test.org",
		Origin:   "ldap",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	pub := &recordingPublisher{}
	r := auth.NewResolver(auth.ResolverDeps{Users: store, Publisher: pub, Origin: "ldap"})

	user, err := r.Resolve(ctx, testZone, auth.ExternalPrincipal{Name: "marissa"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.ID != seeded.ID {
		t.Fatalf("expected existing user %s, got %s", seeded.ID, user.ID)
	}
	if user.Email != "marissa@test.org" {
		t.Fatalf("existing user fields must not change, got email %q", user.Email)
	}

	kinds := pub.kinds()
	if len(kinds) != 1 || kinds[0] != auth.EventAuthSuccess {
		t.Fatalf("expected exactly [auth success], got %v", kinds)
	}
}

func TestResolve_NewUser_TwoEvents(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{}
	r := auth.NewResolver(auth.ResolverDeps{Users: store, Publisher: pub, Origin: "saml"})

	user, err := r.Resolve(context.Background(), testZone, auth.ExternalPrincipal{Name: "jdoe"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.ID == "" {
		t.Fatal("provisioned user must have an id")
	}
	if user.Origin != "saml" || user.ZoneID != testZone.ID {
		t.Fatalf("unexpected provisioned user: %+v", user)
	}
	if !user.Verified {
		t.Fatal("provisioned user should be verified")
	}
	if len(user.Authorities) != 1 || user.Authorities[0] != "user" {
		t.Fatalf("expected default authorities, got %v", user.Authorities)
	}

	kinds := pub.kinds()
	want := []auth.EventKind{auth.EventNewUser, auth.EventAuthSuccess}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
}

func TestResolve_DirectoryOrigin_ThreeEventsWithAttributes(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{}
	r := auth.NewResolver(auth.ResolverDeps{
		Users:                store,
		Publisher:            pub,
		Origin:               "ldap",
		ExternalID:           auth.DirectoryExternalID,
		ExtraAttributeEvents: true,
	})

	attrs := map[string]string{
		"dn":    "cn=jdoe,ou=people,dc=test,dc=org",
		"email": "jdoe@test.org",
		"phone": "555-0100",
	}
	user, err := r.Resolve(context.Background(), testZone, auth.ExternalPrincipal{Name: "jdoe", Attributes: attrs})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if user.ExternalID != attrs["dn"] {
		t.Fatalf("expected external id from dn, got %q", user.ExternalID)
	}
	if user.Email != "jdoe@test.org" {
		t.Fatalf("expected email from attributes, got %q", user.Email)
	}

	kinds := pub.kinds()
	want := []auth.EventKind{auth.EventNewUser, auth.EventIdentityAttributes, auth.EventAuthSuccess}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}

	data := pub.events[1].Data
	if data["dn"] != attrs["dn"] || data["phone"] != attrs["phone"] {
		t.Fatalf("attribute event must carry directory attributes, got %v", data)
	}
}

func TestResolve_UsernameFallsBackToEmailAttribute(t *testing.T) {
	store := memory.New()
	r := auth.NewResolver(auth.ResolverDeps{Users: store, Origin: "saml"})

	user, err := r.Resolve(context.Background(), testZone, auth.ExternalPrincipal{
		Attributes: map[string]string{"email": "anon@test.org"},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.Username != "anon@test.org" {
		t.Fatalf("expected email as username, got %q", user.Username)
	}
}

func TestResolve_NoUsableIdentifier(t *testing.T) {
	store := memory.New()
	r := auth.NewResolver(auth.ResolverDeps{Users: store, Origin: "saml"})

	_, err := r.Resolve(context.Background(), testZone, auth.ExternalPrincipal{Name: "   "})
	if !errors.Is(err, auth.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestResolve_EmailSynthesis(t *testing.T) {
	cases := []struct {
		name     string
		username string
		want     string
	}{
		{"plain username", "jdoe", "jdoe@user.from.ldap.cf"},
		{"valid email kept", "jdoe@example.com", "jdoe@example.com"},
		{"embedded ats stripped", "filip@hanik@", "filiphanik@user.from.ldap.cf"},
		{"leading at stripped", "@jdoe", "jdoe@user.from.ldap.cf"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.New()
			r := auth.NewResolver(auth.ResolverDeps{Users: store, Origin: "ldap"})

			user, err := r.Resolve(context.Background(), testZone, auth.ExternalPrincipal{Name: tc.username})
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if user.Email != tc.want {
				t.Fatalf("username %q: expected email %q, got %q", tc.username, tc.want, user.Email)
			}
		})
	}
}

func TestResolve_ExternalIDFallsBackToUsername(t *testing.T) {
	store := memory.New()
	r := auth.NewResolver(auth.ResolverDeps{Users: store, Origin: "saml"})

	user, err := r.Resolve(context.Background(), testZone, auth.ExternalPrincipal{Name: "jdoe"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.ExternalID != "jdoe" {
		t.Fatalf("expected username as external id fallback, got %q", user.ExternalID)
	}
}

// racingUserStore simula la carrera de doble aprovisionamiento: el
// lookup inicial falla, el insert choca con el del request ganador y el
// re-lookup encuentra al usuario ya creado.
type racingUserStore struct {
	winner  *repository.User
	lookups int
	creates int
}

func (s *racingUserStore) FindByUsernameAndOrigin(context.Context, string, string, string) (*repository.User, error) {
	s.lookups++
	if s.lookups == 1 {
		return nil, repository.ErrNotFound
	}
	cp := *s.winner
	return &cp, nil
}

func (s *racingUserStore) FindByID(context.Context, string) (*repository.User, error) {
	return nil, repository.ErrNotFound
}

func (s *racingUserStore) Create(context.Context, repository.CreateUserInput) (*repository.User, error) {
	s.creates++
	return nil, repository.ErrConflict
}

func TestResolve_ProvisionRace_ConflictRetriesLookup(t *testing.T) {
	winner := &repository.User{ID: "u-1", ZoneID: testZone.ID, Username: "jdoe", Origin: "ldap"}
	store := &racingUserStore{winner: winner}
	pub := &recordingPublisher{}
	r := auth.NewResolver(auth.ResolverDeps{Users: store, Publisher: pub, Origin: "ldap"})

	user, err := r.Resolve(context.Background(), testZone, auth.ExternalPrincipal{Name: "jdoe"})
	if err != nil {
		t.Fatalf("conflict must not surface as error: %v", err)
	}
	if user.ID != "u-1" {
		t.Fatalf("expected winner's user, got %+v", user)
	}
	if store.creates != 1 || store.lookups != 2 {
		t.Fatalf("expected 1 create + 2 lookups, got %d/%d", store.creates, store.lookups)
	}
}

func TestResolve_ProvisionLookupStillMissing_BadCredentials(t *testing.T) {
	store := &alwaysMissingUserStore{}
	r := auth.NewResolver(auth.ResolverDeps{Users: store, Origin: "ldap"})

	_, err := r.Resolve(context.Background(), testZone, auth.ExternalPrincipal{Name: "ghost"})
	if !errors.Is(err, auth.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

type alwaysMissingUserStore struct{}

func (alwaysMissingUserStore) FindByUsernameAndOrigin(context.Context, string, string, string) (*repository.User, error) {
	return nil, repository.ErrNotFound
}
func (alwaysMissingUserStore) FindByID(context.Context, string) (*repository.User, error) {
	return nil, repository.ErrNotFound
}
func (alwaysMissingUserStore) Create(context.Context, repository.CreateUserInput) (*repository.User, error) {
	return nil, repository.ErrConflict
}
