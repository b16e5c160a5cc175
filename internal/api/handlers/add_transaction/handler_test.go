package add_transaction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/ledger"
	"github.com/m04kA/SMC-GroomingService/internal/service/ledger/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) AddTransaction(ctx context.Context, bookingID int64, req *models.AddTransactionRequest) (*models.TransactionResponse, error) {
	args := m.Called(ctx, bookingID, req)
	resp, _ := args.Get(0).(*models.TransactionResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var admin = domain.Actor{ID: 1, Role: domain.ActorAdmin}

func newRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/10/transactions", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": "10"})
	return req.WithContext(middleware.WithActor(req.Context(), admin))
}

func TestHandle_AmountAsNumberOrString(t *testing.T) {
	for _, body := range []string{
		`{"amount":250.50,"method":"upi"}`,
		`{"amount":"250.50","method":"upi"}`,
	} {
		svc := &mockService{}
		svc.On("AddTransaction", mock.Anything, int64(10), &models.AddTransactionRequest{
			Actor: admin, Amount: "250.50", Method: "upi",
		}).Return(&models.TransactionResponse{ID: 1, BookingID: 10, Amount: "250.50"}, nil)

		rec := httptest.NewRecorder()
		NewHandler(svc, nopLogger{}).Handle(rec, newRequest(body))

		assert.Equal(t, http.StatusCreated, rec.Code, body)
		svc.AssertExpectations(t)
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"overpayment", ledger.ErrOverpayment, http.StatusUnprocessableEntity},
		{"concurrent", ledger.ErrConcurrentUpdate, http.StatusConflict},
		{"amount", ledger.ErrInvalidAmount, http.StatusBadRequest},
		{"method", ledger.ErrInvalidMethod, http.StatusBadRequest},
		{"not admin", ledger.ErrAccessDenied, http.StatusForbidden},
		{"missing", ledger.ErrBookingNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("AddTransaction", mock.Anything, int64(10), mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).Handle(rec, newRequest(`{"amount":"10","method":"cash"}`))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
