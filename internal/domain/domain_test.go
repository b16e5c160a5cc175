package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

func TestBooking_TransitionGuards(t *testing.T) {
	tests := []struct {
		status                              BookingStatus
		start, complete, cancel, assign, rs bool
	}{
		{StatusScheduled, true, false, true, true, true},
		{StatusInProgress, false, true, true, true, false},
		{StatusCompleted, false, false, false, false, false},
		{StatusCancelled, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := &Booking{Status: tt.status}
			assert.Equal(t, tt.start, b.CanStart())
			assert.Equal(t, tt.complete, b.CanComplete())
			assert.Equal(t, tt.cancel, b.CanBeCancelled())
			assert.Equal(t, tt.assign, b.CanAssignGroomer())
			assert.Equal(t, tt.rs, b.CanBeRescheduled())
		})
	}
}

func TestBooking_IsOTPLocked(t *testing.T) {
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	until := now.Add(time.Minute)

	assert.False(t, (&Booking{}).IsOTPLocked(now))
	assert.True(t, (&Booking{OTPLockedUntil: &until}).IsOTPLocked(now))
	assert.False(t, (&Booking{OTPLockedUntil: &until}).IsOTPLocked(until))
}

func TestSlotCatalog_Resolve(t *testing.T) {
	catalog := NewSlotCatalog([]Slot{
		{ID: 2, Start: types.MustTimeString("10:00"), End: types.MustTimeString("11:00")},
		{ID: 1, Start: types.MustTimeString("09:00"), End: types.MustTimeString("10:00")},
	})

	all := catalog.All()
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, 60, all[0].DurationMinutes())

	slots, ok := catalog.Resolve([]int64{2, 1})
	assert.True(t, ok)
	assert.Equal(t, int64(1), slots[0].ID)

	_, ok = catalog.Resolve([]int64{1, 99})
	assert.False(t, ok)
}

func TestNewBalance(t *testing.T) {
	txs := []*Transaction{
		{Amount: decimal.NewFromInt(200), Status: TransactionSuccess},
		{Amount: decimal.NewFromInt(300), Status: TransactionPending},
		{Amount: decimal.NewFromInt(1000), Status: TransactionFailed},
	}

	b := NewBalance(1, decimal.NewFromInt(600), txs)

	assert.True(t, b.Paid.Equal(decimal.NewFromInt(500)))
	assert.True(t, b.Balance.Equal(decimal.NewFromInt(100)))
}

func TestNewBalance_Overpaid(t *testing.T) {
	txs := []*Transaction{{Amount: decimal.NewFromInt(700), Status: TransactionSuccess}}

	b := NewBalance(1, decimal.NewFromInt(600), txs)

	assert.True(t, b.Balance.Equal(decimal.NewFromInt(-100)))
}

func TestActor_Permissions(t *testing.T) {
	groomer := int64(9)
	b := &Booking{CustomerID: 7, GroomerID: &groomer}

	owner := Actor{ID: 7, Role: ActorCustomer}
	stranger := Actor{ID: 8, Role: ActorCustomer}
	assigned := Actor{ID: 9, Role: ActorGroomer}
	otherGroomer := Actor{ID: 10, Role: ActorGroomer}
	admin := Actor{ID: 1, Role: ActorAdmin}

	assert.True(t, owner.CanView(b))
	assert.True(t, owner.CanManageAsCustomer(b))
	assert.False(t, owner.CanService(b))

	assert.False(t, stranger.CanView(b))
	assert.False(t, stranger.CanManageAsCustomer(b))

	assert.True(t, assigned.CanView(b))
	assert.True(t, assigned.CanService(b))
	assert.False(t, assigned.CanManageAsCustomer(b))

	assert.False(t, otherGroomer.CanService(b))

	assert.True(t, admin.CanView(b))
	assert.True(t, admin.CanService(b))
	assert.True(t, admin.CanManageAsCustomer(b))
}

func TestCalendar(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	// 20:00 UTC is already the next day in Kolkata
	now := time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC)
	today := DateOf(now, loc)
	assert.Equal(t, 16, today.Day())

	d, err := ParseDate("2026-10-26", loc)
	require.NoError(t, err)
	assert.Equal(t, 10, DaysBetween(today, d))

	_, err = ParseDate("26/10/2026", loc)
	assert.Error(t, err)
}
