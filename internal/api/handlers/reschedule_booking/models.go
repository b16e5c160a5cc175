package reschedule_booking

import (
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	rescheduleBooking "github.com/m04kA/SMC-GroomingService/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	BookingDate string  `json:"bookingDate"` // "2026-10-16"
	SlotIDs     []int64 `json:"slotIds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID int64, actor domain.Actor) *rescheduleBooking.Request {
	return &rescheduleBooking.Request{
		BookingID: bookingID,
		Actor:     actor,
		Date:      r.BookingDate,
		SlotIDs:   r.SlotIDs,
	}
}
