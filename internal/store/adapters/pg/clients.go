package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
)

type clientRepo struct{ pool *pgxpool.Pool }

var _ repository.ClientConfigStore = (*clientRepo)(nil)

func (r *clientRepo) Get(ctx context.Context, clientID string) (*repository.ClientScopeConfig, error) {
	const query = `
		SELECT client_id, scopes, auto_approve_all, auto_approve_scopes
		FROM oauth_clients
		WHERE client_id = $1
	`
	var c repository.ClientScopeConfig
	err := r.pool.QueryRow(ctx, query, clientID).Scan(
		&c.ClientID, &c.Scopes, &c.AutoApprove.All, &c.AutoApprove.Scopes,
	)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type credentialRepo struct{ pool *pgxpool.Pool }

var _ repository.PasswordCredentialStore = (*credentialRepo)(nil)

func (r *credentialRepo) FindPasswordHash(ctx context.Context, zoneID, username string) (string, error) {
	const query = `SELECT password_phc FROM user_credentials WHERE zone_id = $1 AND username = $2`
	var phc string
	err := r.pool.QueryRow(ctx, query, zoneID, username).Scan(&phc)
	if err == pgx.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return phc, nil
}

func (r *credentialRepo) SetPasswordHash(ctx context.Context, zoneID, username, phc string) error {
	const query = `
		INSERT INTO user_credentials (zone_id, username, password_phc, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (zone_id, username) DO UPDATE SET password_phc = $3, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, zoneID, username, phc)
	return err
}
