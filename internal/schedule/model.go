package schedule

import "time"

const (
	SlotStatusActive    = "active"
	SlotStatusCancelled = "cancelled"
)

// CoachSlot is an availability window for a coach. Bookings with a coach must
// fall entirely inside an active slot.
type CoachSlot struct {
	ID        int       `db:"id" json:"id"`
	TenantID  int       `db:"tenant_id" json:"tenant_id"`
	CoachID   int       `db:"coach_id" json:"coach_id"`
	StartAt   time.Time `db:"start_at" json:"start_at"`
	EndAt     time.Time `db:"end_at" json:"end_at"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateSlotRequest struct {
	CoachID int    `json:"coach_id" binding:"required"`
	StartAt string `json:"start_at" binding:"required"`
	EndAt   string `json:"end_at" binding:"required"`
}
