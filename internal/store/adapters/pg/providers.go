package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
)

type providerRepo struct{ pool *pgxpool.Pool }

var _ repository.IdentityProviderStore = (*providerRepo)(nil)

func (r *providerRepo) FindByOriginAndZone(ctx context.Context, origin, zoneID string) (*repository.IdentityProvider, error) {
	const query = `
		SELECT id, origin_key, zone_id, type, config, active, version, created_at, updated_at
		FROM identity_providers
		WHERE origin_key = $1 AND zone_id = $2
	`
	var p repository.IdentityProvider
	err := r.pool.QueryRow(ctx, query, origin, zoneID).Scan(
		&p.ID, &p.OriginKey, &p.ZoneID, &p.Type, &p.Config,
		&p.Active, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
