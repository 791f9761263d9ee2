package schedule

import (
	"context"
	"testing"
	"time"

	"gymdesk/internal/apperr"
	"gymdesk/internal/audit"
	"gymdesk/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockScheduleRepo struct{ mock.Mock }

func (m *MockScheduleRepo) CreateSlot(ctx context.Context, tenantID, coachID int, startAt, endAt time.Time) (*CoachSlot, error) {
	args := m.Called(ctx, tenantID, coachID, startAt, endAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CoachSlot), args.Error(1)
}

func (m *MockScheduleRepo) GetSlotByID(ctx context.Context, tenantID, id int) (*CoachSlot, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CoachSlot), args.Error(1)
}

func (m *MockScheduleRepo) CancelSlot(ctx context.Context, tenantID, id int) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockScheduleRepo) SlotCovers(ctx context.Context, tenantID, coachID int, startAt, endAt time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, coachID, startAt, endAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockScheduleRepo) HasActiveBookingsInSlot(ctx context.Context, tenantID, slotID int) (bool, error) {
	args := m.Called(ctx, tenantID, slotID)
	return args.Bool(0), args.Error(1)
}

func (m *MockScheduleRepo) ListByCoach(ctx context.Context, tenantID, coachID int, onlyFuture bool) ([]CoachSlot, error) {
	args := m.Called(ctx, tenantID, coachID, onlyFuture)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CoachSlot), args.Error(1)
}

type sinkStub struct{ entries []audit.Entry }

func (s *sinkStub) Record(_ context.Context, entry audit.Entry) {
	s.entries = append(s.entries, entry)
}

func TestService_CreateSlot(t *testing.T) {
	manager := auth.Actor{ID: 60, Role: auth.RoleManager, TenantID: 1, BranchID: 2}
	start := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	t.Run("valid window", func(t *testing.T) {
		repo := new(MockScheduleRepo)
		sink := &sinkStub{}

		repo.On("CreateSlot", mock.Anything, 1, 7, start, end).
			Return(&CoachSlot{ID: 3, TenantID: 1, CoachID: 7, StartAt: start, EndAt: end, Status: SlotStatusActive}, nil)

		svc := NewService(repo, sink)
		slot, err := svc.CreateSlot(context.Background(), manager, CreateSlotRequest{
			CoachID: 7,
			StartAt: start.Format(time.RFC3339),
			EndAt:   end.Format(time.RFC3339),
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, slot.ID)
		assert.Len(t, sink.entries, 1)
		repo.AssertExpectations(t)
	})

	t.Run("end before start", func(t *testing.T) {
		svc := NewService(new(MockScheduleRepo), &sinkStub{})
		_, err := svc.CreateSlot(context.Background(), manager, CreateSlotRequest{
			CoachID: 7,
			StartAt: end.Format(time.RFC3339),
			EndAt:   start.Format(time.RFC3339),
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("garbage timestamps", func(t *testing.T) {
		svc := NewService(new(MockScheduleRepo), &sinkStub{})
		_, err := svc.CreateSlot(context.Background(), manager, CreateSlotRequest{
			CoachID: 7,
			StartAt: "next tuesday",
			EndAt:   end.Format(time.RFC3339),
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestService_CancelSlot(t *testing.T) {
	manager := auth.Actor{ID: 60, Role: auth.RoleManager, TenantID: 1, BranchID: 2}
	slot := &CoachSlot{ID: 3, TenantID: 1, CoachID: 7, Status: SlotStatusActive}

	t.Run("free slot cancels", func(t *testing.T) {
		repo := new(MockScheduleRepo)
		sink := &sinkStub{}

		repo.On("GetSlotByID", mock.Anything, 1, 3).Return(slot, nil)
		repo.On("HasActiveBookingsInSlot", mock.Anything, 1, 3).Return(false, nil)
		repo.On("CancelSlot", mock.Anything, 1, 3).Return(nil)

		svc := NewService(repo, sink)
		err := svc.CancelSlot(context.Background(), manager, 3, "coach left")

		assert.NoError(t, err)
		assert.Len(t, sink.entries, 1)
		assert.Equal(t, audit.ActionCoachSlotCancelled, sink.entries[0].Action)
		repo.AssertExpectations(t)
	})

	t.Run("busy slot refuses", func(t *testing.T) {
		repo := new(MockScheduleRepo)
		repo.On("GetSlotByID", mock.Anything, 1, 3).Return(slot, nil)
		repo.On("HasActiveBookingsInSlot", mock.Anything, 1, 3).Return(true, nil)

		svc := NewService(repo, &sinkStub{})
		err := svc.CancelSlot(context.Background(), manager, 3, "coach left")

		assert.ErrorIs(t, err, apperr.ErrConflict)
		repo.AssertNotCalled(t, "CancelSlot", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		svc := NewService(new(MockScheduleRepo), &sinkStub{})
		err := svc.CancelSlot(context.Background(), manager, 3, "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("missing slot", func(t *testing.T) {
		repo := new(MockScheduleRepo)
		repo.On("GetSlotByID", mock.Anything, 1, 99).Return(nil, apperr.ErrNotFound)

		svc := NewService(repo, &sinkStub{})
		err := svc.CancelSlot(context.Background(), manager, 99, "coach left")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
