package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/events"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockRepo) GetOccupiedSlots(ctx context.Context, date time.Time) ([]domain.OccupiedSlot, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.OccupiedSlot), args.Error(1)
}

func (m *mockRepo) Reschedule(ctx context.Context, id int64, date time.Time, slotIDs []int64, appointmentAt time.Time) error {
	return m.Called(ctx, id, date, slotIDs, appointmentAt).Error(0)
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, events.Event) error { return nil }

type nopMetrics struct{}

func (nopMetrics) BookingTransition(string, string) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newUseCase(repo BookingRepository) *UseCase {
	catalog := domain.NewSlotCatalog([]domain.Slot{
		{ID: 1, Start: types.MustTimeString("09:00"), End: types.MustTimeString("10:00")},
		{ID: 2, Start: types.MustTimeString("10:00"), End: types.MustTimeString("11:00")},
		{ID: 3, Start: types.MustTimeString("11:00"), End: types.MustTimeString("12:00")},
	})
	uc := NewUseCase(repo, passthroughTx{}, nopPublisher{}, nopMetrics{}, catalog, ist, nopLogger{})
	uc.timeProvider = fixedTime{t: time.Date(2026, 10, 15, 8, 0, 0, 0, ist)}
	return uc
}

func scheduledBooking() *domain.Booking {
	return &domain.Booking{
		ID:           10,
		CustomerID:   7,
		BookingDate:  time.Date(2026, 10, 16, 0, 0, 0, 0, ist),
		SlotIDs:      []int64{1},
		Status:       domain.StatusScheduled,
		StartOTPHash: "start-hash",
		EndOTPHash:   "end-hash",
	}
}

var owner = domain.Actor{ID: 7, Role: domain.ActorCustomer}

func TestExecute_Success_OwnSlotsIgnored(t *testing.T) {
	repo := &mockRepo{}
	b := scheduledBooking()
	newDate := time.Date(2026, 10, 16, 0, 0, 0, 0, ist)

	repo.On("GetByIDForUpdate", mock.Anything, int64(10)).Return(b, nil)
	repo.On("GetOccupiedSlots", mock.Anything, mock.Anything).
		Return([]domain.OccupiedSlot{{BookingID: 10, BookingDate: newDate, SlotID: 1}}, nil)
	repo.On("Reschedule", mock.Anything, int64(10), mock.Anything, []int64{1, 2}, mock.Anything).Return(nil)

	resp, err := newUseCase(repo).Execute(context.Background(), &Request{
		BookingID: 10,
		Actor:     owner,
		Date:      "2026-10-16",
		SlotIDs:   []int64{2, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, resp.Booking.SlotIDs)
	assert.True(t, resp.Booking.AppointmentAt.Equal(time.Date(2026, 10, 16, 9, 0, 0, 0, ist)))
	assert.Equal(t, "start-hash", resp.Booking.StartOTPHash)
	assert.Equal(t, "end-hash", resp.Booking.EndOTPHash)
	repo.AssertExpectations(t)
}

func TestExecute_ConflictWithOtherBooking(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByIDForUpdate", mock.Anything, int64(10)).Return(scheduledBooking(), nil)
	repo.On("GetOccupiedSlots", mock.Anything, mock.Anything).
		Return([]domain.OccupiedSlot{{BookingID: 11, SlotID: 3}}, nil)

	_, err := newUseCase(repo).Execute(context.Background(), &Request{
		BookingID: 10, Actor: owner, Date: "2026-10-17", SlotIDs: []int64{3},
	})

	assert.ErrorIs(t, err, ErrSlotConflict)
	repo.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_Rejections(t *testing.T) {
	inProgress := scheduledBooking()
	inProgress.Status = domain.StatusInProgress

	tests := []struct {
		name    string
		booking *domain.Booking
		findErr error
		actor   domain.Actor
		wantErr error
	}{
		{"not found", nil, bookingRepo.ErrBookingNotFound, owner, ErrBookingNotFound},
		{"other customer", scheduledBooking(), nil, domain.Actor{ID: 8, Role: domain.ActorCustomer}, ErrAccessDenied},
		{"groomer", scheduledBooking(), nil, domain.Actor{ID: 9, Role: domain.ActorGroomer}, ErrAccessDenied},
		{"in progress", inProgress, nil, owner, ErrInvalidStateTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			if tt.booking != nil {
				repo.On("GetByIDForUpdate", mock.Anything, int64(10)).Return(tt.booking, nil)
			} else {
				repo.On("GetByIDForUpdate", mock.Anything, int64(10)).Return(nil, tt.findErr)
			}

			_, err := newUseCase(repo).Execute(context.Background(), &Request{
				BookingID: 10, Actor: tt.actor, Date: "2026-10-17", SlotIDs: []int64{2},
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_LostStatusRace(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByIDForUpdate", mock.Anything, int64(10)).Return(scheduledBooking(), nil)
	repo.On("GetOccupiedSlots", mock.Anything, mock.Anything).Return([]domain.OccupiedSlot{}, nil)
	repo.On("Reschedule", mock.Anything, int64(10), mock.Anything, mock.Anything, mock.Anything).
		Return(bookingRepo.ErrStatusConflict)

	_, err := newUseCase(repo).Execute(context.Background(), &Request{
		BookingID: 10, Actor: domain.Actor{ID: 1, Role: domain.ActorAdmin}, Date: "2026-10-17", SlotIDs: []int64{2},
	})

	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestExecute_InvalidInput(t *testing.T) {
	repo := &mockRepo{}

	_, err := newUseCase(repo).Execute(context.Background(), &Request{BookingID: 10, Actor: owner, Date: "2026-10-17"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = newUseCase(repo).Execute(context.Background(), &Request{BookingID: 10, Actor: owner, Date: "2026-10-17", SlotIDs: []int64{99}})
	assert.ErrorIs(t, err, ErrUnknownSlot)

	_, err = newUseCase(repo).Execute(context.Background(), &Request{BookingID: 10, Actor: owner, Date: "2026-10-01", SlotIDs: []int64{1}})
	assert.ErrorIs(t, err, ErrInvalidDate)

	repo.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
}
