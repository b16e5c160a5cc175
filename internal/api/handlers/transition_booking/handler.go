package transition_booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgMissingOTP         = "код подтверждения обязателен"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "недопустимый переход статуса бронирования"
	msgInvalidOTP         = "неверный код подтверждения"
	msgOTPLocked          = "ввод кода временно заблокирован, попробуйте позже"
)

type applyFunc func(ctx context.Context, id int64, req *models.TransitionRequest) (*models.BookingResponse, error)

// Handler переводит бронирование по одноразовому коду (start или complete)
type Handler struct {
	apply  applyFunc
	route  string
	logger Logger
}

// NewStartHandler PATCH /api/v1/bookings/{bookingId}/start
func NewStartHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		apply:  service.Start,
		route:  "PATCH /bookings/{id}/start",
		logger: logger,
	}
}

// NewCompleteHandler PATCH /api/v1/bookings/{bookingId}/complete
func NewCompleteHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		apply:  service.Complete,
		route:  "PATCH /bookings/{id}/complete",
		logger: logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", h.route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", h.route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", h.route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.apply(r.Context(), bookingID, req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%d", h.route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: booking_id=%d, user_id=%d", h.route, bookingID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidStateTransition):
			h.logger.Warn("%s - Invalid transition: booking_id=%d", h.route, bookingID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, bookings.ErrOTPLocked):
			h.logger.Warn("%s - OTP locked: booking_id=%d", h.route, bookingID)
			handlers.RespondError(w, http.StatusTooManyRequests, msgOTPLocked)

		case errors.Is(err, bookings.ErrInvalidOTP):
			h.logger.Warn("%s - Invalid OTP: booking_id=%d, user_id=%d", h.route, bookingID, actor.ID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidOTP)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingOTP)

		default:
			h.logger.Error("%s - Failed to update booking: booking_id=%d, error=%v", h.route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Booking updated: booking_id=%d, status=%s", h.route, bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
