package approval

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gymdesk/internal/apperr"
	"gymdesk/internal/billing"
	"gymdesk/internal/db"
)

const pendingConstraint = "uq_high_risk_requests_pending"

const requestColumns = `id, reference, tenant_id, branch_id, action, target_type, target_id, requested_by, reason, status, decision_note, resolved_by, resolved_at, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, p CreateParams) (*Request, error) {
	query := `
		INSERT INTO high_risk_requests (reference, tenant_id, branch_id, action, target_type, target_id, requested_by, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
		RETURNING ` + requestColumns

	var req Request
	err := r.db.GetContext(ctx, &req, query,
		uuid.NewString(), p.TenantID, p.BranchID,
		p.Action, p.TargetType, p.TargetID, p.RequestedBy, p.Reason,
	)
	if err != nil {
		if db.IsUniqueViolation(err, pendingConstraint) {
			return nil, fmt.Errorf("%s on %s %d: %w", p.Action, p.TargetType, p.TargetID, apperr.ErrDuplicatePending)
		}
		return nil, err
	}

	return &req, nil
}

func (r *repository) GetByID(ctx context.Context, tenantID, id int) (*Request, error) {
	var req Request
	err := r.db.GetContext(ctx, &req,
		`SELECT `+requestColumns+` FROM high_risk_requests WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("request %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}

	return &req, nil
}

func (r *repository) Decide(ctx context.Context, p DecideParams) (*Request, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// The row lock serializes concurrent deciders: the loser of the race
	// blocks here and then sees a non-pending status.
	var req Request
	err = tx.GetContext(ctx, &req,
		`SELECT `+requestColumns+` FROM high_risk_requests WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
		p.TenantID, p.RequestID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("request %d: %w", p.RequestID, apperr.ErrNotFound)
		}
		return nil, err
	}

	if req.Status != StatusPending {
		return nil, fmt.Errorf("request %d is %s: %w", req.ID, req.Status, apperr.ErrAlreadyResolved)
	}

	status := StatusRejected
	if p.Decision == DecisionApprove {
		status = StatusApproved

		// Execute the effect in this same transaction. Any failure below
		// rolls everything back, leaving the request pending so the manager
		// can retry the decision.
		switch req.Action {
		case ActionOrderVoid:
			if _, err := billing.VoidOrderIn(ctx, tx, req.TenantID, req.TargetID); err != nil {
				return nil, fmt.Errorf("executing %s: %w", req.Action, err)
			}
		case ActionPaymentRefund:
			if _, err := billing.RefundPaymentIn(ctx, tx, req.TenantID, req.TargetID); err != nil {
				return nil, fmt.Errorf("executing %s: %w", req.Action, err)
			}
		default:
			return nil, fmt.Errorf("unknown action %q on request %d", req.Action, req.ID)
		}
	}

	err = tx.GetContext(ctx, &req,
		`UPDATE high_risk_requests
		 SET status = $1, decision_note = $2, resolved_by = $3, resolved_at = NOW()
		 WHERE id = $4
		 RETURNING `+requestColumns,
		status, p.Note, p.ResolverID, req.ID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &req, nil
}

func (r *repository) ListByStatus(ctx context.Context, tenantID int, status string, limit, offset int) ([]Request, error) {
	if limit <= 0 {
		limit = 50
	}

	var requests []Request
	err := r.db.SelectContext(ctx, &requests,
		`SELECT `+requestColumns+`
		 FROM high_risk_requests
		 WHERE tenant_id = $1 AND status = $2
		 ORDER BY created_at ASC
		 LIMIT $3 OFFSET $4`,
		tenantID, status, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	return requests, nil
}
