package booking

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

const bookingColumns = `id, tenant_id, branch_id, member_id, coach_id, service_name, start_at, end_at, status, note, created_by, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (tenant_id, branch_id, member_id, coach_id, service_name, start_at, end_at, status, note, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'booked', $8, $9)
		RETURNING ` + bookingColumns

	var saved Booking
	err := r.db.GetContext(ctx, &saved, query,
		b.TenantID, b.BranchID, b.MemberID, b.CoachID,
		b.ServiceName, b.StartAt, b.EndAt, b.Note, b.CreatedBy,
	)
	if err != nil {
		// The gist exclusion constraints are the integrity backstop for the
		// advisory overlap check; a violation here means we lost the race.
		if db.IsExclusionViolation(err) {
			return nil, fmt.Errorf("time range already taken: %w", apperr.ErrConflict)
		}
		return nil, err
	}

	return &saved, nil
}

func (r *repository) GetByID(ctx context.Context, tenantID, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tenant_id = $1 AND id = $2`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) UpdateStatus(ctx context.Context, tenantID, id int, from, to string) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, to, tenantID, id, from)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Someone moved the booking out of `from` between our read and this
		// write.
		return fmt.Errorf("booking %d changed concurrently: %w", id, apperr.ErrConflict)
	}

	return nil
}

func (r *repository) HasOverlap(ctx context.Context, tenantID int, subject Subject, subjectID int, startAt, endAt time.Time, excludeID int) (bool, error) {
	return hasOverlap(ctx, r.db, tenantID, subject, subjectID, startAt, endAt, excludeID)
}

// hasOverlap runs against either the pool or an open transaction. Half-open
// semantics: [s, e) conflicts with [s2, e2) iff s2 < e AND e2 > s.
func hasOverlap(ctx context.Context, q sqlx.QueryerContext, tenantID int, subject Subject, subjectID int, startAt, endAt time.Time, excludeID int) (bool, error) {
	column := "member_id"
	if subject == SubjectCoach {
		column = "coach_id"
	}

	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE tenant_id = $1 AND ` + column + ` = $2
			  AND status IN ('booked', 'checked_in')
			  AND start_at < $3 AND end_at > $4
			  AND id <> $5
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, query, tenantID, subjectID, endAt, startAt, excludeID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func slotCoversTx(ctx context.Context, q sqlx.QueryerContext, tenantID, coachID int, startAt, endAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM coach_slots
			WHERE tenant_id = $1 AND coach_id = $2 AND status = 'active'
			  AND start_at <= $3 AND end_at >= $4
		)
	`

	var covers bool
	err := sqlx.GetContext(ctx, q, &covers, query, tenantID, coachID, startAt, endAt)
	if err != nil {
		return false, err
	}

	return covers, nil
}

// MemberModify performs the member-side cancel/reschedule as one
// all-or-nothing unit: the lock-window check, the overlap re-check and the
// write all happen on a single serializable transaction with the booking row
// locked.
func (r *repository) MemberModify(ctx context.Context, p MemberModifyParams) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var b Booking
	err = tx.GetContext(ctx, &b,
		`SELECT `+bookingColumns+` FROM bookings WHERE tenant_id = $1 AND id = $2 AND member_id = $3 FOR UPDATE`,
		p.TenantID, p.BookingID, p.MemberID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %d: %w", p.BookingID, apperr.ErrNotFound)
		}
		return nil, err
	}

	if b.Status != StatusBooked {
		return nil, fmt.Errorf("booking is %s: %w", b.Status, apperr.ErrInvalidTransition)
	}

	if !p.Now.Before(b.StartAt.Add(-p.LockWindow)) {
		return nil, fmt.Errorf("booking starts at %s: %w", b.StartAt.Format(time.RFC3339), apperr.ErrLocked)
	}

	switch p.Action {
	case ModifyActionCancel:
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET status = 'cancelled', note = $1, updated_at = NOW() WHERE id = $2`,
			p.Reason, b.ID,
		)
		if err != nil {
			return nil, err
		}
		b.Status = StatusCancelled
		b.Note = p.Reason

	case ModifyActionReschedule:
		conflict, err := hasOverlap(ctx, tx, p.TenantID, SubjectMember, b.MemberID, p.NewStart, p.NewEnd, b.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, fmt.Errorf("member is double-booked: %w", apperr.ErrConflict)
		}

		if b.CoachID != nil {
			covers, err := slotCoversTx(ctx, tx, p.TenantID, *b.CoachID, p.NewStart, p.NewEnd)
			if err != nil {
				return nil, err
			}
			if !covers {
				return nil, fmt.Errorf("new range outside coach availability: %w", apperr.ErrNoSlot)
			}

			conflict, err := hasOverlap(ctx, tx, p.TenantID, SubjectCoach, *b.CoachID, p.NewStart, p.NewEnd, b.ID)
			if err != nil {
				return nil, err
			}
			if conflict {
				return nil, fmt.Errorf("coach is double-booked: %w", apperr.ErrConflict)
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET start_at = $1, end_at = $2, note = $3, updated_at = NOW() WHERE id = $4`,
			p.NewStart, p.NewEnd, p.Reason, b.ID,
		)
		if err != nil {
			if db.IsExclusionViolation(err) {
				return nil, fmt.Errorf("time range already taken: %w", apperr.ErrConflict)
			}
			return nil, err
		}
		b.StartAt = p.NewStart
		b.EndAt = p.NewEnd
		b.Note = p.Reason

	default:
		return nil, apperr.Validationf("unknown action %q", p.Action)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) ListByMember(ctx context.Context, tenantID, memberID int) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND member_id = $2
		ORDER BY start_at DESC
	`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, tenantID, memberID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) ListByBranchDay(ctx context.Context, tenantID, branchID int, day time.Time) ([]Booking, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND branch_id = $2
		  AND start_at >= $3 AND start_at < $4
		ORDER BY start_at ASC
	`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, tenantID, branchID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
