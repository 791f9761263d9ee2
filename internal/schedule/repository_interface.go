package schedule

import (
	"context"
	"time"
)

type Repository interface {
	CreateSlot(ctx context.Context, tenantID, coachID int, startAt, endAt time.Time) (*CoachSlot, error)
	GetSlotByID(ctx context.Context, tenantID, id int) (*CoachSlot, error)
	CancelSlot(ctx context.Context, tenantID, id int) error
	SlotCovers(ctx context.Context, tenantID, coachID int, startAt, endAt time.Time) (bool, error)
	HasActiveBookingsInSlot(ctx context.Context, tenantID, slotID int) (bool, error)
	ListByCoach(ctx context.Context, tenantID, coachID int, onlyFuture bool) ([]CoachSlot, error)
}
