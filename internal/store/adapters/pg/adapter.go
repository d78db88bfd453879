// Package pg implementa los stores de dominio sobre PostgreSQL (pgx).
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
)

// Adapter agrupa los repos Postgres sobre un pool compartido.
type Adapter struct {
	pool *pgxpool.Pool
}

// Open conecta el pool y verifica la conexión.
func Open(ctx context.Context, dsn string) (*Adapter, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return &Adapter{pool: pool}, nil
}

// Close cierra el pool.
func (a *Adapter) Close() { a.pool.Close() }

// Ping verifica la conectividad con la base.
func (a *Adapter) Ping(ctx context.Context) error { return a.pool.Ping(ctx) }

// Users retorna el UserStore.
func (a *Adapter) Users() repository.UserStore { return &userRepo{pool: a.pool} }

// Providers retorna el IdentityProviderStore.
func (a *Adapter) Providers() repository.IdentityProviderStore { return &providerRepo{pool: a.pool} }

// Audit retorna el AuditLogger.
func (a *Adapter) Audit() repository.AuditLogger { return &auditRepo{pool: a.pool} }

// Approvals retorna el ApprovalStore.
func (a *Adapter) Approvals() repository.ApprovalStore { return &approvalRepo{pool: a.pool} }

// Clients retorna el ClientConfigStore.
func (a *Adapter) Clients() repository.ClientConfigStore { return &clientRepo{pool: a.pool} }

// Credentials retorna el PasswordCredentialStore.
func (a *Adapter) Credentials() repository.PasswordCredentialStore {
	return &credentialRepo{pool: a.pool}
}

// isUniqueViolation detecta la violación de constraint de unicidad que
// dispara el retry de aprovisionamiento.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // unique_violation
}
