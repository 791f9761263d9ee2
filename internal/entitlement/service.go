package entitlement

import (
	"context"
	"errors"
	"time"

	"gymdesk/internal/apperr"
	"gymdesk/internal/audit"
	"gymdesk/internal/auth"
	"gymdesk/internal/metrics"
)

type Service interface {
	Redeem(ctx context.Context, actor auth.Actor, req RedeemRequest) (*SessionRedemption, error)
	ListMyPasses(ctx context.Context, actor auth.Actor) ([]EntryPass, error)
	ListMySubscriptions(ctx context.Context, actor auth.Actor) ([]Subscription, error)
}

type service struct {
	repo  Repository
	audit audit.Sink
	now   func() time.Time
}

func NewService(repo Repository, sink audit.Sink) Service {
	return &service{repo: repo, audit: sink, now: time.Now}
}

func (s *service) Redeem(ctx context.Context, actor auth.Actor, req RedeemRequest) (*SessionRedemption, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, apperr.Validationf("quantity must be positive")
	}

	now := s.now()

	switch req.Kind {
	case KindPass:
		if req.PassID == nil {
			return nil, apperr.Validationf("pass_id is required for kind pass")
		}
	case KindMonthly:
		// Subscription validity is a policy check made here, at call time;
		// the redemption unit itself carries no counter for monthly.
		if _, err := s.repo.GetActiveSubscription(ctx, actor.TenantID, req.MemberID, now); err != nil {
			s.recordFailure(err)
			return nil, err
		}
	default:
		return nil, apperr.Validationf("unknown kind %q", req.Kind)
	}

	redemption, err := s.repo.Redeem(ctx, RedeemParams{
		TenantID:  actor.TenantID,
		MemberID:  req.MemberID,
		Kind:      req.Kind,
		BookingID: req.BookingID,
		PassID:    req.PassID,
		Quantity:  quantity,
		Note:      req.Note,
		CreatedBy: actor.ID,
		Now:       now,
	})
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	metrics.RecordRedemption(req.Kind)
	s.audit.Record(ctx, audit.NewEntry(
		actor.TenantID, actor.ID,
		audit.ActionSessionRedeemed, "session_redemption", redemption.ID, req.Note,
		map[string]any{
			"member_id":  redemption.MemberID,
			"kind":       redemption.Kind,
			"booking_id": redemption.BookingID,
			"pass_id":    redemption.PassID,
			"quantity":   redemption.Quantity,
		},
	))

	return redemption, nil
}

func (s *service) recordFailure(err error) {
	switch {
	case errors.Is(err, apperr.ErrInsufficientBalance):
		metrics.RecordRedemptionFailure("insufficient_balance")
	case errors.Is(err, apperr.ErrDuplicateRedemption):
		metrics.RecordRedemptionFailure("duplicate_booking")
	case errors.Is(err, apperr.ErrNotFound):
		metrics.RecordRedemptionFailure("not_found")
	}
}

func (s *service) ListMyPasses(ctx context.Context, actor auth.Actor) ([]EntryPass, error) {
	return s.repo.ListPassesByMember(ctx, actor.TenantID, actor.ID)
}

func (s *service) ListMySubscriptions(ctx context.Context, actor auth.Actor) ([]Subscription, error) {
	return s.repo.ListSubscriptionsByMember(ctx, actor.TenantID, actor.ID)
}
