package booking

import "time"

const (
	StatusBooked    = "booked"
	StatusCheckedIn = "checked_in"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// transitions is the forward-only booking state machine. Completed,
// cancelled and no_show are terminal.
var transitions = map[string][]string{
	StatusBooked:    {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn: {StatusCompleted, StatusNoShow},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsActiveStatus(status string) bool {
	return status == StatusBooked || status == StatusCheckedIn
}

// Subject is the resource an overlap check runs against.
type Subject string

const (
	SubjectMember Subject = "member"
	SubjectCoach  Subject = "coach"
)

type Booking struct {
	ID          int       `db:"id" json:"id"`
	TenantID    int       `db:"tenant_id" json:"tenant_id"`
	BranchID    int       `db:"branch_id" json:"branch_id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	CoachID     *int      `db:"coach_id" json:"coach_id,omitempty"`
	ServiceName string    `db:"service_name" json:"service_name"`
	StartAt     time.Time `db:"start_at" json:"start_at"`
	EndAt       time.Time `db:"end_at" json:"end_at"`
	Status      string    `db:"status" json:"status"`
	Note        string    `db:"note" json:"note,omitempty"`
	CreatedBy   int       `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type CreateBookingRequest struct {
	MemberID    int    `json:"member_id"`
	CoachID     *int   `json:"coach_id,omitempty"`
	ServiceName string `json:"service_name" binding:"required"`
	StartAt     string `json:"start_at" binding:"required"`
	EndAt       string `json:"end_at" binding:"required"`
	Note        string `json:"note"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

const (
	ModifyActionCancel     = "cancel"
	ModifyActionReschedule = "reschedule"
)

type MemberModifyRequest struct {
	Action   string `json:"action" binding:"required,oneof=cancel reschedule"`
	Reason   string `json:"reason" binding:"required"`
	NewStart string `json:"new_start,omitempty"`
	NewEnd   string `json:"new_end,omitempty"`
}
