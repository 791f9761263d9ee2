package booking

import (
	"context"
	"time"
)

// MemberModifyParams carries everything the atomic member-side
// cancel/reschedule needs. Now is injected so the lock-window check is
// deterministic under test.
type MemberModifyParams struct {
	TenantID   int
	MemberID   int
	BookingID  int
	Action     string
	Reason     string
	NewStart   time.Time
	NewEnd     time.Time
	LockWindow time.Duration
	Now        time.Time
}

type Repository interface {
	Create(ctx context.Context, b *Booking) (*Booking, error)
	GetByID(ctx context.Context, tenantID, id int) (*Booking, error)
	UpdateStatus(ctx context.Context, tenantID, id int, from, to string) error
	HasOverlap(ctx context.Context, tenantID int, subject Subject, subjectID int, startAt, endAt time.Time, excludeID int) (bool, error)
	MemberModify(ctx context.Context, p MemberModifyParams) (*Booking, error)
	ListByMember(ctx context.Context, tenantID, memberID int) ([]Booking, error)
	ListByBranchDay(ctx context.Context, tenantID, branchID int, day time.Time) ([]Booking, error)
}
