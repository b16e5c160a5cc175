package slot

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, label, start_time, end_time FROM slots WHERE is_active = $1 ORDER BY start_time ASC")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "start_time", "end_time"}).
			AddRow(int64(1), "09:00–10:00", []byte("09:00:00"), []byte("10:00:00")).
			AddRow(int64(2), "10:00–11:00", []byte("10:00:00"), []byte("11:00:00")))

	slots, err := NewRepository(db).GetAll(context.Background())

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].Start.String())
	assert.Equal(t, 60, slots[1].DurationMinutes())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM slots WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err = NewRepository(db).GetByID(context.Background(), 42)

	assert.ErrorIs(t, err, ErrSlotNotFound)
}
