package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/zonegate/internal/domain/repository"
)

type auditRepo struct{ pool *pgxpool.Pool }

var _ repository.AuditLogger = (*auditRepo)(nil)

func (r *auditRepo) FindSince(ctx context.Context, zoneID, principalID string, since time.Time) ([]repository.AuditEvent, error) {
	const query = `
		SELECT id, principal_id, kind, zone_id, origin, data, at
		FROM audit_events
		WHERE zone_id = $1 AND principal_id = $2 AND at >= $3
		ORDER BY at DESC
	`
	rows, err := r.pool.Query(ctx, query, zoneID, principalID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.AuditEvent
	for rows.Next() {
		var ev repository.AuditEvent
		if err := rows.Scan(&ev.ID, &ev.PrincipalID, &ev.Kind, &ev.ZoneID, &ev.Origin, &ev.Data, &ev.At); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *auditRepo) Append(ctx context.Context, ev repository.AuditEvent) error {
	const query = `
		INSERT INTO audit_events (id, principal_id, kind, zone_id, origin, data, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, query, ev.ID, ev.PrincipalID, ev.Kind, ev.ZoneID, ev.Origin, ev.Data, ev.At)
	return err
}
