package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetOccupiedSlots(ctx context.Context, date time.Time) ([]domain.OccupiedSlot, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OccupiedSlot), args.Error(1)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testCatalog() *domain.SlotCatalog {
	return domain.NewSlotCatalog([]domain.Slot{
		{ID: 1, Start: types.MustTimeString("09:00"), End: types.MustTimeString("10:00")},
		{ID: 2, Start: types.MustTimeString("10:00"), End: types.MustTimeString("11:00")},
		{ID: 3, Start: types.MustTimeString("11:00"), End: types.MustTimeString("12:00")},
	})
}

func newUseCase(repo BookingRepository, now time.Time) *UseCase {
	uc := NewUseCase(repo, testCatalog(), ist, nopLogger{})
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func TestExecute_TodayMarksPastAndBookedSlots(t *testing.T) {
	repo := &mockBookingRepo{}
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, ist)
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, ist)

	repo.On("GetOccupiedSlots", mock.Anything, mock.MatchedBy(func(d time.Time) bool { return d.Equal(date) })).
		Return([]domain.OccupiedSlot{{BookingID: 5, BookingDate: date, SlotID: 3}}, nil)

	resp, err := newUseCase(repo, now).Execute(context.Background(), &Request{Date: "2026-10-15"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	// 09:00 уже начался
	assert.False(t, resp.Slots[0].IsBooked)
	assert.False(t, resp.Slots[0].IsAvailable)

	assert.False(t, resp.Slots[1].IsBooked)
	assert.True(t, resp.Slots[1].IsAvailable)

	assert.True(t, resp.Slots[2].IsBooked)
	assert.False(t, resp.Slots[2].IsAvailable)
}

func TestExecute_FutureDateAllFree(t *testing.T) {
	repo := &mockBookingRepo{}
	now := time.Date(2026, 10, 15, 23, 0, 0, 0, ist)

	repo.On("GetOccupiedSlots", mock.Anything, mock.Anything).Return([]domain.OccupiedSlot{}, nil)

	resp, err := newUseCase(repo, now).Execute(context.Background(), &Request{Date: "2026-10-16"})
	require.NoError(t, err)

	for _, s := range resp.Slots {
		assert.True(t, s.IsAvailable)
	}
}

func TestExecute_Validation(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, ist)

	tests := []struct {
		name    string
		date    string
		wantErr error
	}{
		{"malformed", "15-10-2026", ErrInvalidInput},
		{"empty", "", ErrInvalidInput},
		{"past", "2026-10-14", ErrInvalidDate},
		{"too far", "2027-06-01", ErrDateTooFarInFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepo{}
			_, err := newUseCase(repo, now).Execute(context.Background(), &Request{Date: tt.date})
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "GetOccupiedSlots", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &mockBookingRepo{}
	repo.On("GetOccupiedSlots", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := newUseCase(repo, time.Date(2026, 10, 15, 9, 0, 0, 0, ist)).
		Execute(context.Background(), &Request{Date: "2026-10-16"})

	assert.ErrorIs(t, err, ErrInternal)
}
