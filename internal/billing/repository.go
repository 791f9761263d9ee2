package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/apperr"
)

const (
	orderColumns   = `id, tenant_id, branch_id, member_id, total_cents, status, created_at, updated_at`
	paymentColumns = `id, tenant_id, order_id, amount_cents, method, status, paid_at, refunded_at`
)

type Repository interface {
	GetOrder(ctx context.Context, tenantID, id int) (*Order, error)
	GetPayment(ctx context.Context, tenantID, id int) (*Payment, error)
	VoidOrder(ctx context.Context, tenantID, orderID int) (*Order, error)
	RefundPayment(ctx context.Context, tenantID, paymentID int) (*Payment, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) GetOrder(ctx context.Context, tenantID, id int) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}

	return &o, nil
}

func (r *repository) GetPayment(ctx context.Context, tenantID, id int) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p,
		`SELECT `+paymentColumns+` FROM payments WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) VoidOrder(ctx context.Context, tenantID, orderID int) (*Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	o, err := VoidOrderIn(ctx, tx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) RefundPayment(ctx context.Context, tenantID, paymentID int) (*Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := RefundPaymentIn(ctx, tx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return p, nil
}

// VoidOrderIn executes the void inside an already open transaction, so the
// approval path can make the decision and the effect one atomic unit.
func VoidOrderIn(ctx context.Context, tx *sqlx.Tx, tenantID, orderID int) (*Order, error) {
	var o Order
	err := tx.GetContext(ctx, &o,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
		tenantID, orderID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
		}
		return nil, err
	}

	if o.Closed() {
		return nil, fmt.Errorf("order %d is %s: %w", o.ID, o.Status, apperr.ErrAlreadyClosed)
	}

	err = tx.GetContext(ctx, &o,
		`UPDATE orders SET status = 'cancelled', updated_at = NOW() WHERE id = $1 RETURNING `+orderColumns,
		o.ID,
	)
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// RefundPaymentIn executes the refund inside an already open transaction.
// The payment flip and the linked order flip commit together or not at all.
func RefundPaymentIn(ctx context.Context, tx *sqlx.Tx, tenantID, paymentID int) (*Payment, error) {
	var p Payment
	err := tx.GetContext(ctx, &p,
		`SELECT `+paymentColumns+` FROM payments WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
		tenantID, paymentID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment %d: %w", paymentID, apperr.ErrNotFound)
		}
		return nil, err
	}

	if p.Status != PaymentStatusPaid {
		return nil, fmt.Errorf("payment %d is %s: %w", p.ID, p.Status, apperr.ErrNotRefundable)
	}

	err = tx.GetContext(ctx, &p,
		`UPDATE payments SET status = 'refunded', refunded_at = NOW() WHERE id = $1 RETURNING `+paymentColumns,
		p.ID,
	)
	if err != nil {
		return nil, err
	}

	if p.OrderID != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE orders SET status = 'refunded', updated_at = NOW() WHERE tenant_id = $1 AND id = $2`,
			tenantID, *p.OrderID,
		)
		if err != nil {
			return nil, err
		}
	}

	return &p, nil
}
