package entitlement

import (
	"context"
	"time"
)

// RedeemParams is the unit of work for one consumption. Now is injected for
// deterministic expiry checks.
type RedeemParams struct {
	TenantID  int
	MemberID  int
	Kind      string
	BookingID *int
	PassID    *int
	Quantity  int
	Note      string
	CreatedBy int
	Now       time.Time
}

type Repository interface {
	Redeem(ctx context.Context, p RedeemParams) (*SessionRedemption, error)
	GetActiveSubscription(ctx context.Context, tenantID, memberID int, at time.Time) (*Subscription, error)
	ListPassesByMember(ctx context.Context, tenantID, memberID int) ([]EntryPass, error)
	ListSubscriptionsByMember(ctx context.Context, tenantID, memberID int) ([]Subscription, error)
}
