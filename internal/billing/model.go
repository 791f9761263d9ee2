package billing

import "time"

const (
	OrderStatusOpen      = "open"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"

	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

type Order struct {
	ID         int       `db:"id" json:"id"`
	TenantID   int       `db:"tenant_id" json:"tenant_id"`
	BranchID   int       `db:"branch_id" json:"branch_id"`
	MemberID   int       `db:"member_id" json:"member_id"`
	TotalCents int64     `db:"total_cents" json:"total_cents"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

func (o *Order) Closed() bool {
	return o.Status == OrderStatusCancelled || o.Status == OrderStatusRefunded
}

type Payment struct {
	ID          int        `db:"id" json:"id"`
	TenantID    int        `db:"tenant_id" json:"tenant_id"`
	OrderID     *int       `db:"order_id" json:"order_id,omitempty"`
	AmountCents int64      `db:"amount_cents" json:"amount_cents"`
	Method      string     `db:"method" json:"method"`
	Status      string     `db:"status" json:"status"`
	PaidAt      time.Time  `db:"paid_at" json:"paid_at"`
	RefundedAt  *time.Time `db:"refunded_at" json:"refunded_at,omitempty"`
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}
