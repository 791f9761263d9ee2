package approval

import (
	"context"
	"fmt"

	"gymdesk/internal/apperr"
	"gymdesk/internal/audit"
	"gymdesk/internal/auth"
	"gymdesk/internal/metrics"
)

var actionTargets = map[string]string{
	ActionOrderVoid:     TargetOrder,
	ActionPaymentRefund: TargetPayment,
}

type Service interface {
	CreateRequest(ctx context.Context, actor auth.Actor, input CreateRequestInput) (*Request, error)
	Decide(ctx context.Context, actor auth.Actor, requestID int, input DecideRequestInput) (*Request, error)
	ListByStatus(ctx context.Context, actor auth.Actor, status string, limit, offset int) ([]Request, error)
}

type service struct {
	repo  Repository
	audit audit.Sink
}

func NewService(repo Repository, sink audit.Sink) Service {
	return &service{repo: repo, audit: sink}
}

func (s *service) CreateRequest(ctx context.Context, actor auth.Actor, input CreateRequestInput) (*Request, error) {
	if actionTargets[input.Action] != input.TargetType {
		return nil, apperr.Validationf("action %s does not apply to target %s", input.Action, input.TargetType)
	}

	req, err := s.repo.Create(ctx, CreateParams{
		TenantID:    actor.TenantID,
		BranchID:    actor.BranchID,
		Action:      input.Action,
		TargetType:  input.TargetType,
		TargetID:    input.TargetID,
		RequestedBy: actor.ID,
		Reason:      input.Reason,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordApprovalRequest(req.Action)
	s.audit.Record(ctx, audit.NewEntry(
		actor.TenantID, actor.ID,
		audit.ActionHighRiskCreated, req.TargetType, req.TargetID, req.Reason,
		map[string]any{"request_id": req.ID, "reference": req.Reference, "action": req.Action},
	))

	return req, nil
}

func (s *service) Decide(ctx context.Context, actor auth.Actor, requestID int, input DecideRequestInput) (*Request, error) {
	existing, err := s.repo.GetByID(ctx, actor.TenantID, requestID)
	if err != nil {
		return nil, err
	}

	// Two-person control: the requester may never resolve their own ticket,
	// whatever their role.
	if existing.RequestedBy == actor.ID {
		return nil, fmt.Errorf("requester cannot decide their own request: %w", apperr.ErrForbidden)
	}

	req, err := s.repo.Decide(ctx, DecideParams{
		TenantID:   actor.TenantID,
		RequestID:  requestID,
		ResolverID: actor.ID,
		Decision:   input.Decision,
		Note:       input.DecisionNote,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordApprovalDecision(input.Decision)

	auditAction := audit.ActionHighRiskRejected
	if req.Status == StatusApproved {
		auditAction = audit.ActionHighRiskApproved
	}
	s.audit.Record(ctx, audit.NewEntry(
		actor.TenantID, actor.ID,
		auditAction, req.TargetType, req.TargetID, input.DecisionNote,
		map[string]any{"request_id": req.ID, "reference": req.Reference, "action": req.Action},
	))

	// The executed effect gets its own ledger entry so the order/payment
	// history is complete without joining request records.
	if req.Status == StatusApproved {
		effectAction := audit.ActionOrderVoid
		if req.Action == ActionPaymentRefund {
			effectAction = audit.ActionPaymentRefund
		}
		s.audit.Record(ctx, audit.NewEntry(
			actor.TenantID, actor.ID,
			effectAction, req.TargetType, req.TargetID, req.Reason,
			map[string]any{"request_id": req.ID, "approved": true},
		))
	}

	return req, nil
}

func (s *service) ListByStatus(ctx context.Context, actor auth.Actor, status string, limit, offset int) ([]Request, error) {
	if status == "" {
		status = StatusPending
	}
	if status != StatusPending && status != StatusApproved && status != StatusRejected {
		return nil, apperr.Validationf("unknown status %q", status)
	}
	return s.repo.ListByStatus(ctx, actor.TenantID, status, limit, offset)
}
