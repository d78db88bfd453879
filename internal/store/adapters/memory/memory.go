// Package memory implementa todos los stores de dominio en memoria.
// Sirve como modo dev sin base de datos y como double de test.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
)

// Store es el adapter en memoria. Thread-safe; cada método toma el lock
// así dos requests concurrentes ven la misma semántica de unicidad que
// daría una constraint de base de datos.
type Store struct {
	mu        sync.RWMutex
	users     map[string]*repository.User // key: zone|origin|username
	usersByID map[string]*repository.User
	providers map[string]*repository.IdentityProvider // key: origin|zone
	events    []repository.AuditEvent
	approvals map[string][]repository.Approval // key: user|client
	clients   map[string]*repository.ClientScopeConfig
	creds     map[string]string // key: zone|username
	now       func() time.Time
}

// New crea el store vacío.
func New() *Store {
	return &Store{
		users:     map[string]*repository.User{},
		usersByID: map[string]*repository.User{},
		providers: map[string]*repository.IdentityProvider{},
		approvals: map[string][]repository.Approval{},
		clients:   map[string]*repository.ClientScopeConfig{},
		creds:     map[string]string{},
		now:       time.Now,
	}
}

// WithClock fija el reloj, para tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func userKey(zoneID, origin, username string) string {
	return strings.Join([]string{zoneID, origin, username}, "|")
}

// ─── UserStore ───

func (s *Store) FindByUsernameAndOrigin(ctx context.Context, zoneID, origin, username string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userKey(zoneID, origin, username)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) FindByID(ctx context.Context, userID string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.usersByID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userKey(in.ZoneID, in.Origin, in.Username)
	if _, exists := s.users[key]; exists {
		return nil, repository.ErrConflict
	}

	now := s.now().UTC()
	u := &repository.User{
		ID:          uuid.NewString(),
		ZoneID:      in.ZoneID,
		Username:    in.Username,
		Email:       in.Email,
		Origin:      in.Origin,
		ExternalID:  in.ExternalID,
		GivenName:   in.GivenName,
		FamilyName:  in.FamilyName,
		Authorities: append([]string(nil), in.Authorities...),
		Verified:    in.Verified,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.users[key] = u
	s.usersByID[u.ID] = u
	cp := *u
	return &cp, nil
}

// ─── IdentityProviderStore ───

func (s *Store) FindByOriginAndZone(ctx context.Context, origin, zoneID string) (*repository.IdentityProvider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.providers[origin+"|"+zoneID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// SaveProvider registra o reemplaza un provider (seed/admin plumbing).
func (s *Store) SaveProvider(p repository.IdentityProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := p
	s.providers[p.OriginKey+"|"+p.ZoneID] = &cp
}

// ─── AuditLogger ───

func (s *Store) FindSince(ctx context.Context, zoneID, principalID string, since time.Time) ([]repository.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []repository.AuditEvent
	for _, ev := range s.events {
		if ev.ZoneID == zoneID && ev.PrincipalID == principalID && !ev.At.Before(since) {
			out = append(out, ev)
		}
	}
	// Más reciente primero, como retornaría la query con ORDER BY.
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	return out, nil
}

func (s *Store) Append(ctx context.Context, ev repository.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	s.events = append(s.events, ev)
	return nil
}

// ─── ApprovalStore ───

func (s *Store) FindEffective(ctx context.Context, userID, clientID string) ([]repository.Approval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.approvals[userID+"|"+clientID]
	return append([]repository.Approval(nil), list...), nil
}

func (s *Store) Upsert(ctx context.Context, a repository.Approval) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.LastUpdatedAt.IsZero() {
		a.LastUpdatedAt = s.now().UTC()
	}
	key := a.UserID + "|" + a.ClientID
	list := s.approvals[key]
	for i, prev := range list {
		if prev.Scope == a.Scope {
			list[i] = a
			return nil
		}
	}
	s.approvals[key] = append(list, a)
	return nil
}

func (s *Store) Revoke(ctx context.Context, userID, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.approvals, userID+"|"+clientID)
	return nil
}

// ─── ClientConfigStore ───

func (s *Store) Get(ctx context.Context, clientID string) (*repository.ClientScopeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// SaveClient registra o reemplaza la configuración de un client.
func (s *Store) SaveClient(c repository.ClientScopeConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := c
	s.clients[c.ClientID] = &cp
}

// ─── PasswordCredentialStore ───

func (s *Store) FindPasswordHash(ctx context.Context, zoneID, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	phc, ok := s.creds[zoneID+"|"+username]
	if !ok {
		return "", repository.ErrNotFound
	}
	return phc, nil
}

func (s *Store) SetPasswordHash(ctx context.Context, zoneID, username, phc string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[zoneID+"|"+username] = phc
	return nil
}
