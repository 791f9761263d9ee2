package approval

import "time"

const (
	ActionOrderVoid     = "order_void"
	ActionPaymentRefund = "payment_refund"

	TargetOrder   = "order"
	TargetPayment = "payment"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Request is a dual-control ticket: created by a non-privileged actor,
// terminated exactly once by a privileged one. At most one pending request
// may exist per (tenant, action, target).
type Request struct {
	ID           int        `db:"id" json:"id"`
	Reference    string     `db:"reference" json:"reference"`
	TenantID     int        `db:"tenant_id" json:"tenant_id"`
	BranchID     int        `db:"branch_id" json:"branch_id"`
	Action       string     `db:"action" json:"action"`
	TargetType   string     `db:"target_type" json:"target_type"`
	TargetID     int        `db:"target_id" json:"target_id"`
	RequestedBy  int        `db:"requested_by" json:"requested_by"`
	Reason       string     `db:"reason" json:"reason"`
	Status       string     `db:"status" json:"status"`
	DecisionNote string     `db:"decision_note" json:"decision_note,omitempty"`
	ResolvedBy   *int       `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt   *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type CreateRequestInput struct {
	Action     string `json:"action" binding:"required,oneof=order_void payment_refund"`
	TargetType string `json:"target_type" binding:"required,oneof=order payment"`
	TargetID   int    `json:"target_id" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

type DecideRequestInput struct {
	Decision     string `json:"decision" binding:"required,oneof=approve reject"`
	DecisionNote string `json:"decision_note"`
}
