package schedule

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/apperr"
	"gymdesk/internal/audit"
	"gymdesk/internal/auth"
)

type Service interface {
	CreateSlot(ctx context.Context, actor auth.Actor, req CreateSlotRequest) (*CoachSlot, error)
	CancelSlot(ctx context.Context, actor auth.Actor, slotID int, reason string) error
	ListByCoach(ctx context.Context, actor auth.Actor, coachID int, onlyFuture bool) ([]CoachSlot, error)
}

type service struct {
	repo  Repository
	audit audit.Sink
}

func NewService(repo Repository, sink audit.Sink) Service {
	return &service{repo: repo, audit: sink}
}

func (s *service) CreateSlot(ctx context.Context, actor auth.Actor, req CreateSlotRequest) (*CoachSlot, error) {
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, apperr.Validationf("invalid start_at")
	}

	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return nil, apperr.Validationf("invalid end_at")
	}

	if !endAt.After(startAt) {
		return nil, apperr.Validationf("end_at must be after start_at")
	}

	slot, err := s.repo.CreateSlot(ctx, actor.TenantID, req.CoachID, startAt, endAt)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.NewEntry(
		actor.TenantID, actor.ID,
		audit.ActionCoachSlotCreated, "coach_slot", slot.ID, "",
		map[string]any{"coach_id": slot.CoachID, "start_at": slot.StartAt, "end_at": slot.EndAt},
	))

	return slot, nil
}

func (s *service) CancelSlot(ctx context.Context, actor auth.Actor, slotID int, reason string) error {
	if reason == "" {
		return apperr.Validationf("reason is required")
	}

	if _, err := s.repo.GetSlotByID(ctx, actor.TenantID, slotID); err != nil {
		return err
	}

	// A slot with upcoming active bookings inside it cannot be cancelled;
	// those bookings must be moved or cancelled first.
	busy, err := s.repo.HasActiveBookingsInSlot(ctx, actor.TenantID, slotID)
	if err != nil {
		return err
	}
	if busy {
		return fmt.Errorf("slot has upcoming bookings: %w", apperr.ErrConflict)
	}

	if err := s.repo.CancelSlot(ctx, actor.TenantID, slotID); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.NewEntry(
		actor.TenantID, actor.ID,
		audit.ActionCoachSlotCancelled, "coach_slot", slotID, reason, nil,
	))

	return nil
}

func (s *service) ListByCoach(ctx context.Context, actor auth.Actor, coachID int, onlyFuture bool) ([]CoachSlot, error) {
	return s.repo.ListByCoach(ctx, actor.TenantID, coachID, onlyFuture)
}
