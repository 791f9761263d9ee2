package booking

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/apperr"
	"gymdesk/internal/audit"
	"gymdesk/internal/auth"
	"gymdesk/internal/metrics"
	"gymdesk/internal/schedule"
)

// DefaultLockWindow is how long before a booking's start members lose the
// ability to self-cancel or reschedule.
const DefaultLockWindow = 120 * time.Minute

// coachTransitions is what a coach may set on their own bookings; other
// staff may additionally set booked and cancelled.
var coachTransitions = map[string]bool{
	StatusCheckedIn: true,
	StatusCompleted: true,
	StatusNoShow:    true,
}

type Service interface {
	Create(ctx context.Context, actor auth.Actor, req CreateBookingRequest) (*Booking, error)
	UpdateStatus(ctx context.Context, actor auth.Actor, bookingID int, req UpdateStatusRequest) (*Booking, error)
	MemberModify(ctx context.Context, actor auth.Actor, bookingID int, req MemberModifyRequest) (*Booking, error)
	ListByMember(ctx context.Context, actor auth.Actor) ([]Booking, error)
	ListByBranchDay(ctx context.Context, actor auth.Actor, day time.Time) ([]Booking, error)
}

type service struct {
	repo         Repository
	scheduleRepo schedule.Repository
	audit        audit.Sink
	scope        auth.ScopePolicy
	lockWindow   time.Duration
	now          func() time.Time
}

func NewService(repo Repository, scheduleRepo schedule.Repository, sink audit.Sink, scope auth.ScopePolicy, lockWindow time.Duration) Service {
	if lockWindow <= 0 {
		lockWindow = DefaultLockWindow
	}
	return &service{
		repo:         repo,
		scheduleRepo: scheduleRepo,
		audit:        sink,
		scope:        scope,
		lockWindow:   lockWindow,
		now:          time.Now,
	}
}

// validateWindow is the advisory overlap/slot check. It is a fast-path
// rejection only: the exclusion constraints on the bookings table are the
// enforcement point for races it cannot see.
func (s *service) validateWindow(ctx context.Context, tenantID, memberID int, coachID *int, startAt, endAt time.Time, excludeID int) error {
	conflict, err := s.repo.HasOverlap(ctx, tenantID, SubjectMember, memberID, startAt, endAt, excludeID)
	if err != nil {
		return err
	}
	if conflict {
		return fmt.Errorf("member is double-booked: %w", apperr.ErrConflict)
	}

	if coachID == nil {
		return nil
	}

	covers, err := s.scheduleRepo.SlotCovers(ctx, tenantID, *coachID, startAt, endAt)
	if err != nil {
		return err
	}
	if !covers {
		return fmt.Errorf("range outside coach availability: %w", apperr.ErrNoSlot)
	}

	conflict, err = s.repo.HasOverlap(ctx, tenantID, SubjectCoach, *coachID, startAt, endAt, excludeID)
	if err != nil {
		return err
	}
	if conflict {
		return fmt.Errorf("coach is double-booked: %w", apperr.ErrConflict)
	}

	return nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, req CreateBookingRequest) (*Booking, error) {
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, apperr.Validationf("invalid start_at")
	}

	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return nil, apperr.Validationf("invalid end_at")
	}

	if !startAt.Before(endAt) {
		return nil, apperr.Validationf("start_at must be before end_at")
	}

	memberID := req.MemberID
	source := "staff"
	if actor.Role == auth.RoleMember {
		// Members book for themselves, and only in the future. Staff may
		// back-date corrections.
		memberID = actor.ID
		source = "member"
		if !startAt.After(s.now()) {
			return nil, apperr.Validationf("start_at must be in the future")
		}
	}
	if memberID == 0 {
		return nil, apperr.Validationf("member_id is required")
	}

	if err := s.validateWindow(ctx, actor.TenantID, memberID, req.CoachID, startAt, endAt, 0); err != nil {
		if apperr.IsExpected(err) {
			metrics.BookingConflictsTotal.Inc()
		}
		return nil, err
	}

	b, err := s.repo.Create(ctx, &Booking{
		TenantID:    actor.TenantID,
		BranchID:    actor.BranchID,
		MemberID:    memberID,
		CoachID:     req.CoachID,
		ServiceName: req.ServiceName,
		StartAt:     startAt,
		EndAt:       endAt,
		Note:        req.Note,
		CreatedBy:   actor.ID,
	})
	if err != nil {
		if apperr.IsExpected(err) {
			metrics.BookingConflictsTotal.Inc()
		}
		return nil, err
	}

	metrics.RecordBooking(source)
	s.audit.Record(ctx, audit.NewEntry(
		actor.TenantID, actor.ID,
		audit.ActionBookingCreated, "booking", b.ID, "",
		map[string]any{"member_id": b.MemberID, "coach_id": b.CoachID, "start_at": b.StartAt, "end_at": b.EndAt},
	))

	return b, nil
}

func (s *service) UpdateStatus(ctx context.Context, actor auth.Actor, bookingID int, req UpdateStatusRequest) (*Booking, error) {
	if req.Reason == "" {
		return nil, apperr.Validationf("reason is required")
	}

	b, err := s.repo.GetByID(ctx, actor.TenantID, bookingID)
	if err != nil {
		return nil, err
	}

	// Scope checks deliberately answer not-found so existence does not leak
	// across branches or coach ownership.
	if !s.scope.BranchAllowed(actor, b.BranchID) {
		return nil, fmt.Errorf("booking %d: %w", bookingID, apperr.ErrNotFound)
	}
	if actor.Role == auth.RoleCoach {
		if b.CoachID == nil || *b.CoachID != actor.ID {
			return nil, fmt.Errorf("booking %d: %w", bookingID, apperr.ErrNotFound)
		}
		if !coachTransitions[req.Status] {
			return nil, fmt.Errorf("coach may not set status %q: %w", req.Status, apperr.ErrForbidden)
		}
	}

	if !CanTransition(b.Status, req.Status) {
		return nil, fmt.Errorf("cannot move %s to %s: %w", b.Status, req.Status, apperr.ErrInvalidTransition)
	}

	if err := s.repo.UpdateStatus(ctx, actor.TenantID, b.ID, b.Status, req.Status); err != nil {
		return nil, err
	}

	previous := b.Status
	b.Status = req.Status

	s.audit.Record(ctx, audit.NewEntry(
		actor.TenantID, actor.ID,
		audit.ActionBookingStatusChanged, "booking", b.ID, req.Reason,
		map[string]any{"from": previous, "to": req.Status},
	))

	return b, nil
}

func (s *service) MemberModify(ctx context.Context, actor auth.Actor, bookingID int, req MemberModifyRequest) (*Booking, error) {
	if req.Reason == "" {
		return nil, apperr.Validationf("reason is required")
	}

	params := MemberModifyParams{
		TenantID:   actor.TenantID,
		MemberID:   actor.ID,
		BookingID:  bookingID,
		Action:     req.Action,
		Reason:     req.Reason,
		LockWindow: s.lockWindow,
		Now:        s.now(),
	}

	if req.Action == ModifyActionReschedule {
		newStart, err := time.Parse(time.RFC3339, req.NewStart)
		if err != nil {
			return nil, apperr.Validationf("invalid new_start")
		}
		newEnd, err := time.Parse(time.RFC3339, req.NewEnd)
		if err != nil {
			return nil, apperr.Validationf("invalid new_end")
		}
		if !newStart.Before(newEnd) {
			return nil, apperr.Validationf("new_start must be before new_end")
		}
		if !newStart.After(params.Now) {
			return nil, apperr.Validationf("new_start must be in the future")
		}
		params.NewStart = newStart
		params.NewEnd = newEnd
	}

	b, err := s.repo.MemberModify(ctx, params)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.NewEntry(
		actor.TenantID, actor.ID,
		audit.ActionBookingMemberModified, "booking", b.ID, req.Reason,
		map[string]any{"action": req.Action, "start_at": b.StartAt, "end_at": b.EndAt},
	))

	return b, nil
}

func (s *service) ListByMember(ctx context.Context, actor auth.Actor) ([]Booking, error) {
	return s.repo.ListByMember(ctx, actor.TenantID, actor.ID)
}

func (s *service) ListByBranchDay(ctx context.Context, actor auth.Actor, day time.Time) ([]Booking, error) {
	return s.repo.ListByBranchDay(ctx, actor.TenantID, actor.BranchID, day)
}
