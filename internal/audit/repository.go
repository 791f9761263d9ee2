package audit

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Insert(ctx context.Context, entry Entry) (*Entry, error)
	List(ctx context.Context, tenantID int, action string, limit, offset int) ([]Entry, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, entry Entry) (*Entry, error) {
	query := `
		INSERT INTO audit_log (tenant_id, actor_id, action, target_type, target_id, reason, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, tenant_id, actor_id, action, target_type, target_id, reason, payload, created_at
	`

	var saved Entry
	err := r.db.GetContext(ctx, &saved, query,
		entry.TenantID, entry.ActorID, entry.Action,
		entry.TargetType, entry.TargetID, entry.Reason, entry.Payload,
	)
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func (r *repository) List(ctx context.Context, tenantID int, action string, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, tenant_id, actor_id, action, target_type, target_id, reason, payload, created_at
		FROM audit_log
		WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}

	if action != "" {
		query += " AND action = $2"
		args = append(args, action)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if action != "" {
		query += " LIMIT $3 OFFSET $4"
	} else {
		query += " LIMIT $2 OFFSET $3"
	}
	args = append(args, limit, offset)

	var entries []Entry
	err := r.db.SelectContext(ctx, &entries, query, args...)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
