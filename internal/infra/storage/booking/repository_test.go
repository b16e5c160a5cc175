package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock, db
}

func bookingRows(id int64, status domain.BookingStatus) *sqlmock.Rows {
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	appointment := time.Date(2026, 10, 20, 4, 30, 0, 0, time.UTC)
	created := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

	return sqlmock.NewRows(bookingColumns).AddRow(
		id, "GRM-20261020-ABCDEF12", int64(7), nil, int64(3), int64(4), int64(5), int64(6), "small",
		date, []byte("{1,2}"), appointment, string(status), "start-hash", "end-hash",
		nil, nil, 0, nil, "Full groom", "500.00", "90.00", "590.00",
		nil, nil, nil, created, created, nil,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_slots (booking_id,booking_date,slot_id) VALUES ($1,$2,$3),($4,$5,$6)")).
		WithArgs(int64(11), "2026-10-20", int64(1), int64(11), "2026-10-20", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	b := &domain.Booking{
		OrderID:     "GRM-20261020-ABCDEF12",
		BookingDate: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		SlotIDs:     []int64{1, 2},
		Status:      domain.StatusScheduled,
		Amount:      decimal.NewFromInt(500),
	}

	created, err := repo.Create(context.Background(), b)

	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_SlotTaken(t *testing.T) {
	repo, mock, _ := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_slots")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: activeSlotsConstraint})

	_, err := repo.Create(context.Background(), &domain.Booking{
		BookingDate: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		SlotIDs:     []int64{1},
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE deleted_at IS NULL AND id = $1")).
		WithArgs(int64(11)).
		WillReturnRows(bookingRows(11, domain.StatusScheduled))

	b, err := repo.GetByID(context.Background(), 11)

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, b.SlotIDs)
	assert.Equal(t, domain.StatusScheduled, b.Status)
	assert.Nil(t, b.GroomerID)
	assert.True(t, b.Total.Equal(decimal.RequireFromString("590")))
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_GetOccupiedSlots_LocksInTransaction(t *testing.T) {
	repo, mock, db := newMock(t)
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_slots WHERE booking_date = $1 AND released_at IS NULL ORDER BY slot_id ASC FOR UPDATE")).
		WithArgs("2026-10-20").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "booking_date", "slot_id"}).
			AddRow(int64(1), date, int64(3)))

	tx, err := db.Begin()
	require.NoError(t, err)

	occupied, err := repo.GetOccupiedSlots(dbmetrics.WithTx(context.Background(), tx), date)

	require.NoError(t, err)
	require.Len(t, occupied, 1)
	assert.Equal(t, int64(3), occupied[0].SlotID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_TransitionStatus(t *testing.T) {
	repo, mock, _ := newMock(t)
	at := time.Now()

	t.Run("applied", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.TransitionStatus(context.Background(), 1, domain.StatusScheduled, domain.StatusInProgress, at)
		assert.NoError(t, err)
	})

	t.Run("status changed concurrently", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.TransitionStatus(context.Background(), 1, domain.StatusScheduled, domain.StatusInProgress, at)
		assert.ErrorIs(t, err, ErrStatusConflict)
	})
}

func TestRepository_RegisterOTPFailure(t *testing.T) {
	repo, mock, _ := newMock(t)
	until := time.Now().Add(15 * time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("RETURNING otp_failed_attempts, otp_locked_until")).
		WillReturnRows(sqlmock.NewRows([]string{"otp_failed_attempts", "otp_locked_until"}).AddRow(0, until))

	attempts, lockedUntil, err := repo.RegisterOTPFailure(context.Background(), 1, 5, until)

	require.NoError(t, err)
	assert.Equal(t, 0, attempts)
	require.NotNil(t, lockedUntil)
	assert.WithinDuration(t, until, *lockedUntil, time.Second)
}

func TestRepository_Cancel_ReleasesSlots(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE booking_slots SET released_at = NOW() WHERE booking_id = $1 AND released_at IS NULL")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.Cancel(context.Background(), 1, nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SoftDelete_NotFound(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET deleted_at = NOW()")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), 1)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}
