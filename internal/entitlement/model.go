package entitlement

import "time"

const (
	KindPass    = "pass"
	KindMonthly = "monthly"
)

const (
	PassStatusActive   = "active"
	PassStatusDisabled = "disabled"

	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
)

// EntryPass is a counted entitlement: remaining sessions, optionally with an
// expiry date.
type EntryPass struct {
	ID        int        `db:"id" json:"id"`
	TenantID  int        `db:"tenant_id" json:"tenant_id"`
	MemberID  int        `db:"member_id" json:"member_id"`
	Remaining int        `db:"remaining" json:"remaining"`
	ExpiresAt *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	Status    string     `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Subscription is a time-boxed entitlement: usable whenever now falls inside
// [valid_from, valid_to], with no counter.
type Subscription struct {
	ID        int       `db:"id" json:"id"`
	TenantID  int       `db:"tenant_id" json:"tenant_id"`
	MemberID  int       `db:"member_id" json:"member_id"`
	ValidFrom time.Time `db:"valid_from" json:"valid_from"`
	ValidTo   time.Time `db:"valid_to" json:"valid_to"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SessionRedemption is the append-only record of one consumption. The partial
// unique index on booking_id makes redemption idempotent per booking.
type SessionRedemption struct {
	ID        int       `db:"id" json:"id"`
	TenantID  int       `db:"tenant_id" json:"tenant_id"`
	BookingID *int      `db:"booking_id" json:"booking_id,omitempty"`
	MemberID  int       `db:"member_id" json:"member_id"`
	Kind      string    `db:"kind" json:"kind"`
	PassID    *int      `db:"pass_id" json:"pass_id,omitempty"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Note      string    `db:"note" json:"note,omitempty"`
	CreatedBy int       `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type RedeemRequest struct {
	MemberID  int    `json:"member_id" binding:"required"`
	Kind      string `json:"kind" binding:"required,oneof=pass monthly"`
	BookingID *int   `json:"booking_id,omitempty"`
	PassID    *int   `json:"pass_id,omitempty"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}
