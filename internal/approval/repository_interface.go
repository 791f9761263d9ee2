package approval

import "context"

type CreateParams struct {
	TenantID    int
	BranchID    int
	Action      string
	TargetType  string
	TargetID    int
	RequestedBy int
	Reason      string
}

type DecideParams struct {
	TenantID   int
	RequestID  int
	ResolverID int
	Decision   string
	Note       string
}

type Repository interface {
	Create(ctx context.Context, p CreateParams) (*Request, error)
	GetByID(ctx context.Context, tenantID, id int) (*Request, error)
	// Decide resolves the request and, on approve, executes the underlying
	// void/refund inside the same transaction. If execution fails the
	// transaction rolls back and the request stays pending.
	Decide(ctx context.Context, p DecideParams) (*Request, error)
	ListByStatus(ctx context.Context, tenantID int, status string, limit, offset int) ([]Request, error)
}
