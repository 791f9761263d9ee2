package billing

import (
	"context"
	"regexp"
	"testing"
	"time"

	"gymdesk/internal/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func orderRow(id int, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "branch_id", "member_id", "total_cents", "status", "created_at", "updated_at",
	}).AddRow(id, 1, 2, 9, int64(5000), status, now, now)
}

func paymentRow(id int, orderID *int, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "order_id", "amount_cents", "method", "status", "paid_at", "refunded_at",
	}).AddRow(id, 1, orderID, int64(5000), "card", status, time.Now(), nil)
}

func TestRepository_VoidOrder(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE tenant_id = $1 AND id = $2 FOR UPDATE")).
		WithArgs(1, 4).
		WillReturnRows(orderRow(4, OrderStatusOpen))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE orders SET status = 'cancelled'")).
		WithArgs(4).
		WillReturnRows(orderRow(4, OrderStatusCancelled))
	mock.ExpectCommit()

	o, err := repo.VoidOrder(context.Background(), 1, 4)
	require.NoError(t, err)
	require.Equal(t, OrderStatusCancelled, o.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_VoidOrder_AlreadyClosed(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(1, 4).
		WillReturnRows(orderRow(4, OrderStatusRefunded))
	mock.ExpectRollback()

	_, err := repo.VoidOrder(context.Background(), 1, 4)
	require.ErrorIs(t, err, apperr.ErrAlreadyClosed)
}

func TestRepository_VoidOrder_NotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(1, 99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.VoidOrder(context.Background(), 1, 99)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRepository_RefundPayment(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	orderID := 4

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE tenant_id = $1 AND id = $2 FOR UPDATE")).
		WithArgs(1, 6).
		WillReturnRows(paymentRow(6, &orderID, PaymentStatusPaid))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE payments SET status = 'refunded'")).
		WithArgs(6).
		WillReturnRows(paymentRow(6, &orderID, PaymentStatusRefunded))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = 'refunded'")).
		WithArgs(1, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := repo.RefundPayment(context.Background(), 1, 6)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusRefunded, p.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RefundPayment_NotRefundable(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(1, 6).
		WillReturnRows(paymentRow(6, nil, PaymentStatusRefunded))
	mock.ExpectRollback()

	_, err := repo.RefundPayment(context.Background(), 1, 6)
	require.ErrorIs(t, err, apperr.ErrNotRefundable)
}
