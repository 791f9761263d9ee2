package billing

import (
	"context"
	"fmt"

	"gymdesk/internal/apperr"
	"gymdesk/internal/audit"
	"gymdesk/internal/auth"
	"gymdesk/internal/metrics"
)

// Service is the direct manager path for order voids and payment refunds.
// The approval path reaches the same repository primitives through the
// request transaction instead.
type Service interface {
	VoidOrder(ctx context.Context, actor auth.Actor, orderID int, reason string) (*Order, error)
	RefundPayment(ctx context.Context, actor auth.Actor, paymentID int, reason string) (*Payment, error)
}

type service struct {
	repo  Repository
	audit audit.Sink
	scope auth.ScopePolicy
}

func NewService(repo Repository, sink audit.Sink, scope auth.ScopePolicy) Service {
	return &service{repo: repo, audit: sink, scope: scope}
}

func (s *service) VoidOrder(ctx context.Context, actor auth.Actor, orderID int, reason string) (*Order, error) {
	if reason == "" {
		return nil, apperr.Validationf("reason is required")
	}

	order, err := s.repo.GetOrder(ctx, actor.TenantID, orderID)
	if err != nil {
		return nil, err
	}

	if !s.scope.BranchAllowed(actor, order.BranchID) {
		return nil, fmt.Errorf("order %d belongs to another branch: %w", orderID, apperr.ErrForbidden)
	}

	voided, err := s.repo.VoidOrder(ctx, actor.TenantID, orderID)
	if err != nil {
		return nil, err
	}

	metrics.OrderVoidsTotal.Inc()
	s.audit.Record(ctx, audit.NewEntry(
		actor.TenantID, actor.ID,
		audit.ActionOrderVoid, "order", voided.ID, reason,
		map[string]any{"total_cents": voided.TotalCents},
	))

	return voided, nil
}

func (s *service) RefundPayment(ctx context.Context, actor auth.Actor, paymentID int, reason string) (*Payment, error) {
	if reason == "" {
		return nil, apperr.Validationf("reason is required")
	}

	refunded, err := s.repo.RefundPayment(ctx, actor.TenantID, paymentID)
	if err != nil {
		return nil, err
	}

	metrics.PaymentRefundsTotal.Inc()
	s.audit.Record(ctx, audit.NewEntry(
		actor.TenantID, actor.ID,
		audit.ActionPaymentRefund, "payment", refunded.ID, reason,
		map[string]any{"amount_cents": refunded.AmountCents},
	))

	return refunded, nil
}
