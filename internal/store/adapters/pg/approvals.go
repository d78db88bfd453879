package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
)

type approvalRepo struct{ pool *pgxpool.Pool }

var _ repository.ApprovalStore = (*approvalRepo)(nil)

func (r *approvalRepo) FindEffective(ctx context.Context, userID, clientID string) ([]repository.Approval, error) {
	const query = `
		SELECT user_id, client_id, scope, status, expires_at, last_updated_at
		FROM authz_approvals
		WHERE user_id = $1 AND client_id = $2
		ORDER BY last_updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Approval
	for rows.Next() {
		var a repository.Approval
		if err := rows.Scan(&a.UserID, &a.ClientID, &a.Scope, &a.Status, &a.ExpiresAt, &a.LastUpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *approvalRepo) Upsert(ctx context.Context, a repository.Approval) error {
	const query = `
		INSERT INTO authz_approvals (user_id, client_id, scope, status, expires_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, client_id, scope)
		DO UPDATE SET status = $4, expires_at = $5, last_updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, a.UserID, a.ClientID, a.Scope, a.Status, a.ExpiresAt)
	return err
}

func (r *approvalRepo) Revoke(ctx context.Context, userID, clientID string) error {
	const query = `DELETE FROM authz_approvals WHERE user_id = $1 AND client_id = $2`
	_, err := r.pool.Exec(ctx, query, userID, clientID)
	return err
}
