package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
)

type userRepo struct{ pool *pgxpool.Pool }

var _ repository.UserStore = (*userRepo)(nil)

func (r *userRepo) FindByUsernameAndOrigin(ctx context.Context, zoneID, origin, username string) (*repository.User, error) {
	const query = `
		SELECT id, zone_id, username, email, origin, external_id,
		       given_name, family_name, authorities, verified, created_at, updated_at
		FROM users
		WHERE zone_id = $1 AND origin = $2 AND username = $3
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, zoneID, origin, username))
}

func (r *userRepo) FindByID(ctx context.Context, userID string) (*repository.User, error) {
	const query = `
		SELECT id, zone_id, username, email, origin, external_id,
		       given_name, family_name, authorities, verified, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	const query = `
		INSERT INTO users (id, zone_id, username, email, origin, external_id,
		                   given_name, family_name, authorities, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, query,
		id, in.ZoneID, in.Username, in.Email, in.Origin, in.ExternalID,
		in.GivenName, in.FamilyName, in.Authorities, in.Verified,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *userRepo) scanOne(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(
		&u.ID, &u.ZoneID, &u.Username, &u.Email, &u.Origin, &u.ExternalID,
		&u.GivenName, &u.FamilyName, &u.Authorities, &u.Verified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
