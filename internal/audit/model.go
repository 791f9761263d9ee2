package audit

import (
	"encoding/json"
	"time"
)

// Action names recorded in the ledger.
const (
	ActionBookingCreated        = "booking_created"
	ActionBookingStatusChanged  = "booking_status_changed"
	ActionBookingMemberModified = "booking_member_modified"
	ActionSessionRedeemed       = "session_redeemed"
	ActionHighRiskCreated       = "high_risk_request_created"
	ActionHighRiskApproved      = "high_risk_request_approved"
	ActionHighRiskRejected      = "high_risk_request_rejected"
	ActionOrderVoid             = "order_void"
	ActionPaymentRefund         = "payment_refund"
	ActionCoachSlotCreated      = "coach_slot_created"
	ActionCoachSlotCancelled    = "coach_slot_cancelled"
)

// Entry is one immutable fact in the ledger. Entries are never updated or
// deleted, and nothing in the core reads them back to make decisions.
type Entry struct {
	ID         int             `db:"id" json:"id"`
	TenantID   int             `db:"tenant_id" json:"tenant_id"`
	ActorID    int             `db:"actor_id" json:"actor_id"`
	Action     string          `db:"action" json:"action"`
	TargetType string          `db:"target_type" json:"target_type"`
	TargetID   int             `db:"target_id" json:"target_id"`
	Reason     string          `db:"reason" json:"reason"`
	Payload    json.RawMessage `db:"payload" json:"payload,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// NewEntry builds an entry with the payload marshalled to JSON. A payload
// that cannot be marshalled is dropped rather than failing the record.
func NewEntry(tenantID, actorID int, action, targetType string, targetID int, reason string, payload map[string]any) Entry {
	e := Entry{
		TenantID:   tenantID,
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
	}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			e.Payload = data
		}
	}
	return e
}
