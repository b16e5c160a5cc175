package create_booking

import (
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-GroomingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerID  int64   `json:"customerId,omitempty"` // только для администратора
	PetID       int64   `json:"petId"`
	AddressID   int64   `json:"addressId"`
	ServiceID   int64   `json:"serviceId"`
	PricingID   int64   `json:"pricingId"`
	PetSize     string  `json:"petSize,omitempty"`
	BookingDate string  `json:"bookingDate"` // "2026-10-15"
	SlotIDs     []int64 `json:"slotIds"`
	Notes       *string `json:"notes,omitempty"`
}

// CreateBookingResponse HTTP response model: бронирование и одноразовые коды
type CreateBookingResponse struct {
	Booking  *models.BookingResponse `json:"booking"`
	StartOTP string                  `json:"startOtp"`
	EndOTP   string                  `json:"endOtp"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Клиент всегда бронирует на себя.
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) *createBooking.Request {
	customerID := r.CustomerID
	if actor.Role == domain.ActorCustomer {
		customerID = actor.ID
	}

	return &createBooking.Request{
		CustomerID: customerID,
		PetID:      r.PetID,
		AddressID:  r.AddressID,
		ServiceID:  r.ServiceID,
		PricingID:  r.PricingID,
		PetSize:    r.PetSize,
		Date:       r.BookingDate,
		SlotIDs:    r.SlotIDs,
		Notes:      r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:  models.FromDomainBooking(resp.Booking),
		StartOTP: resp.StartOTP,
		EndOTP:   resp.EndOTP,
	}
}
