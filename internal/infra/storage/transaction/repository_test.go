package transaction

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions (booking_id,amount,method,status,notes) VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at")).
		WithArgs(int64(3), "200", "upi", "success", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	tx, err := NewRepository(db).Create(context.Background(), &domain.Transaction{
		BookingID: 3,
		Amount:    decimal.NewFromInt(200),
		Method:    domain.MethodUPI,
		Status:    domain.TransactionSuccess,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), tx.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE booking_id = $1 ORDER BY created_at ASC, id ASC")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "amount", "method", "status", "notes", "created_at"}).
			AddRow(int64(1), int64(3), "200.00", "upi", "success", nil, now).
			AddRow(int64(2), int64(3), "300.00", "cash", "pending", "front desk", now))

	txs, err := NewRepository(db).ListByBooking(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.True(t, txs[1].Amount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, domain.TransactionPending, txs[1].Status)
	require.NotNil(t, txs[1].Notes)
	assert.Equal(t, "front desk", *txs[1].Notes)
}
