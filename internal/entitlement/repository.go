package entitlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/apperr"
	"gymdesk/internal/db"
)

const redemptionBookingConstraint = "uq_session_redemptions_booking"

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

// Redeem consumes one entitlement as a single transaction: the pass balance
// is read under a row lock, decremented, and the ledger row inserted, so the
// balance can never go negative and no partial state is ever observable. The
// partial unique index on booking_id rejects a second redemption for the
// same booking even under concurrent retries.
func (r *repository) Redeem(ctx context.Context, p RedeemParams) (*SessionRedemption, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if p.Kind == KindPass {
		var pass EntryPass
		err = tx.GetContext(ctx, &pass,
			`SELECT id, tenant_id, member_id, remaining, expires_at, status, created_at, updated_at
			 FROM entry_passes
			 WHERE tenant_id = $1 AND member_id = $2 AND id = $3 AND status = 'active'
			 FOR UPDATE`,
			p.TenantID, p.MemberID, *p.PassID,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("pass %d: %w", *p.PassID, apperr.ErrNotFound)
			}
			return nil, err
		}

		if pass.ExpiresAt != nil && !p.Now.Before(*pass.ExpiresAt) {
			return nil, apperr.Validationf("pass %d expired", pass.ID)
		}
		if pass.Remaining < p.Quantity {
			return nil, fmt.Errorf("pass has %d remaining, need %d: %w",
				pass.Remaining, p.Quantity, apperr.ErrInsufficientBalance)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE entry_passes SET remaining = remaining - $1, updated_at = NOW() WHERE id = $2`,
			p.Quantity, pass.ID,
		)
		if err != nil {
			return nil, err
		}
	}

	var redemption SessionRedemption
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO session_redemptions (tenant_id, booking_id, member_id, kind, pass_id, quantity, note, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, tenant_id, booking_id, member_id, kind, pass_id, quantity, note, created_by, created_at`,
		p.TenantID, p.BookingID, p.MemberID, p.Kind, p.PassID, p.Quantity, p.Note, p.CreatedBy,
	).StructScan(&redemption)
	if err != nil {
		if db.IsUniqueViolation(err, redemptionBookingConstraint) {
			return nil, fmt.Errorf("booking %d: %w", *p.BookingID, apperr.ErrDuplicateRedemption)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &redemption, nil
}

func (r *repository) GetActiveSubscription(ctx context.Context, tenantID, memberID int, at time.Time) (*Subscription, error) {
	var sub Subscription
	err := r.db.GetContext(ctx, &sub,
		`SELECT id, tenant_id, member_id, valid_from, valid_to, status, created_at
		 FROM subscriptions
		 WHERE tenant_id = $1 AND member_id = $2
		   AND status = 'active'
		   AND valid_from <= $3 AND valid_to >= $3
		 ORDER BY valid_to DESC
		 LIMIT 1`,
		tenantID, memberID, at,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no active subscription for member %d: %w", memberID, apperr.ErrNotFound)
		}
		return nil, err
	}

	return &sub, nil
}

func (r *repository) ListPassesByMember(ctx context.Context, tenantID, memberID int) ([]EntryPass, error) {
	var passes []EntryPass
	err := r.db.SelectContext(ctx, &passes,
		`SELECT id, tenant_id, member_id, remaining, expires_at, status, created_at, updated_at
		 FROM entry_passes
		 WHERE tenant_id = $1 AND member_id = $2
		 ORDER BY created_at DESC`,
		tenantID, memberID,
	)
	if err != nil {
		return nil, err
	}

	return passes, nil
}

func (r *repository) ListSubscriptionsByMember(ctx context.Context, tenantID, memberID int) ([]Subscription, error) {
	var subs []Subscription
	err := r.db.SelectContext(ctx, &subs,
		`SELECT id, tenant_id, member_id, valid_from, valid_to, status, created_at
		 FROM subscriptions
		 WHERE tenant_id = $1 AND member_id = $2
		 ORDER BY valid_to DESC`,
		tenantID, memberID,
	)
	if err != nil {
		return nil, err
	}

	return subs, nil
}
