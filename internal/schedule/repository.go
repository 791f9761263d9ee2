package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/apperr"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSlot(ctx context.Context, tenantID, coachID int, startAt, endAt time.Time) (*CoachSlot, error) {
	query := `
		INSERT INTO coach_slots (tenant_id, coach_id, start_at, end_at, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING id, tenant_id, coach_id, start_at, end_at, status, created_at
	`

	var slot CoachSlot
	err := r.db.GetContext(ctx, &slot, query, tenantID, coachID, startAt, endAt)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *repository) GetSlotByID(ctx context.Context, tenantID, id int) (*CoachSlot, error) {
	query := `
		SELECT id, tenant_id, coach_id, start_at, end_at, status, created_at
		FROM coach_slots
		WHERE tenant_id = $1 AND id = $2
	`

	var slot CoachSlot
	err := r.db.GetContext(ctx, &slot, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("coach slot %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}

	return &slot, nil
}

func (r *repository) CancelSlot(ctx context.Context, tenantID, id int) error {
	query := `
		UPDATE coach_slots
		SET status = 'cancelled'
		WHERE tenant_id = $1 AND id = $2 AND status = 'active'
	`

	result, err := r.db.ExecContext(ctx, query, tenantID, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("coach slot %d is not active: %w", id, apperr.ErrNotFound)
	}

	return nil
}

// SlotCovers reports whether [startAt, endAt) is fully inside at least one
// active slot for the coach.
func (r *repository) SlotCovers(ctx context.Context, tenantID, coachID int, startAt, endAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM coach_slots
			WHERE tenant_id = $1 AND coach_id = $2 AND status = 'active'
			  AND start_at <= $3 AND end_at >= $4
		)
	`

	var covers bool
	err := r.db.GetContext(ctx, &covers, query, tenantID, coachID, startAt, endAt)
	if err != nil {
		return false, err
	}

	return covers, nil
}

func (r *repository) HasActiveBookingsInSlot(ctx context.Context, tenantID, slotID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings b
			JOIN coach_slots s ON s.tenant_id = b.tenant_id AND s.coach_id = b.coach_id
			WHERE s.tenant_id = $1 AND s.id = $2
			  AND b.status IN ('booked', 'checked_in')
			  AND b.start_at >= s.start_at AND b.end_at <= s.end_at
			  AND b.end_at > NOW()
		)
	`

	var has bool
	err := r.db.GetContext(ctx, &has, query, tenantID, slotID)
	if err != nil {
		return false, err
	}

	return has, nil
}

func (r *repository) ListByCoach(ctx context.Context, tenantID, coachID int, onlyFuture bool) ([]CoachSlot, error) {
	query := `
		SELECT id, tenant_id, coach_id, start_at, end_at, status, created_at
		FROM coach_slots
		WHERE tenant_id = $1 AND coach_id = $2
	`

	if onlyFuture {
		query += " AND end_at > NOW()"
	}

	query += " ORDER BY start_at ASC"

	var slots []CoachSlot
	err := r.db.SelectContext(ctx, &slots, query, tenantID, coachID)
	if err != nil {
		return nil, err
	}

	return slots, nil
}
