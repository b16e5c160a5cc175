package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	createBooking "github.com/m04kA/SMC-GroomingService/internal/usecase/create_booking"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const body = `{"customerId":99,"petId":3,"addressId":4,"serviceId":5,"pricingId":6,"bookingDate":"2026-10-20","slotIds":[2,1]}`

func newRequest(actor domain.Actor) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	return req.WithContext(middleware.WithActor(req.Context(), actor))
}

func TestHandle_CustomerBooksForThemselves(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.CustomerID == 7 && req.Date == "2026-10-20" && len(req.SlotIDs) == 2
	})).Return(&createBooking.Response{
		Booking: &domain.Booking{
			ID:            1,
			OrderID:       "GRM-1",
			CustomerID:    7,
			Status:        domain.StatusScheduled,
			Total:         decimal.NewFromInt(600),
			AppointmentAt: time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC),
		},
		StartOTP: "111111",
		EndOTP:   "222222",
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, newRequest(domain.Actor{ID: 7, Role: domain.ActorCustomer}))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CreateBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "111111", resp.StartOTP)
	assert.Equal(t, "222222", resp.EndOTP)
	assert.Equal(t, int64(7), resp.Booking.CustomerID)
	uc.AssertExpectations(t)
}

func TestHandle_AdminBooksOnBehalf(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.CustomerID == 99
	})).Return(nil, createBooking.ErrCustomerNotFound)

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, newRequest(domain.Actor{ID: 1, Role: domain.ActorAdmin}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	uc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{createBooking.ErrSlotConflict, http.StatusConflict},
		{createBooking.ErrUnknownSlot, http.StatusBadRequest},
		{createBooking.ErrSlotInPast, http.StatusBadRequest},
		{createBooking.ErrInvalidDate, http.StatusBadRequest},
		{createBooking.ErrDateTooFarInFuture, http.StatusBadRequest},
		{createBooking.ErrPricingNotFound, http.StatusNotFound},
		{createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, newRequest(domain.Actor{ID: 7, Role: domain.ActorCustomer}))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
