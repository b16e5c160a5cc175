package transition_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Start(ctx context.Context, id int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*models.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockService) Complete(ctx context.Context, id int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*models.BookingResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var groomer = domain.Actor{ID: 9, Role: domain.ActorGroomer}

func newRequest(bookingID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/start", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	return req.WithContext(middleware.WithActor(req.Context(), groomer))
}

func TestHandle_Start(t *testing.T) {
	svc := &mockService{}
	svc.On("Start", mock.Anything, int64(10), &models.TransitionRequest{Actor: groomer, OTP: "123456"}).
		Return(&models.BookingResponse{ID: 10, Status: "in_progress"}, nil)

	rec := httptest.NewRecorder()
	NewStartHandler(svc, nopLogger{}).Handle(rec, newRequest("10", `{"otp":"123456"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "in_progress", body.Status)
	svc.AssertExpectations(t)
}

func TestHandle_CompleteErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"wrong code", bookings.ErrInvalidOTP, http.StatusUnprocessableEntity},
		{"locked", bookings.ErrOTPLocked, http.StatusTooManyRequests},
		{"not started", bookings.ErrInvalidStateTransition, http.StatusConflict},
		{"not assigned", bookings.ErrAccessDenied, http.StatusForbidden},
		{"missing", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"empty code", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"internal", fmt.Errorf("%w: boom", bookings.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Complete", mock.Anything, int64(10), mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewCompleteHandler(svc, nopLogger{}).Handle(rec, newRequest("10", `{"otp":"000000"}`))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Code)
		})
	}
}

func TestHandle_BadRequest(t *testing.T) {
	svc := &mockService{}
	h := NewStartHandler(svc, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("abc", `{"otp":"1"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, newRequest("10", `{"code":"1"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
}
