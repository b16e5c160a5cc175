package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidDate возвращается при некорректной дате фильтра
	ErrInvalidDate = errors.New("invalid date")
)

// Request модели

// TransitionRequest запрос на переход статуса по одноразовому коду
type TransitionRequest struct {
	Actor domain.Actor
	OTP   string
}

// AssignGroomerRequest запрос на назначение грумера
type AssignGroomerRequest struct {
	Actor     domain.Actor
	GroomerID int64
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor              domain.Actor
	CancellationReason *string
}

// ListBookingsRequest запрос на получение списка бронирований
type ListBookingsRequest struct {
	Actor           domain.Actor
	Date            *string // YYYY-MM-DD (опционально)
	Status          *string // Фильтр по статусу (опционально)
	CustomerID      *int64  // Фильтр по клиенту (только для администратора)
	GroomerID       *int64  // Фильтр по грумеру (только для администратора)
	IncludeInactive bool    // Включить отмененные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр.
// Клиент видит только свои бронирования, грумер только назначенные ему.
func (r *ListBookingsRequest) ToDomainFilter(loc *time.Location) (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		CustomerID:      r.CustomerID,
		GroomerID:       r.GroomerID,
		IncludeInactive: r.IncludeInactive,
	}

	switch r.Actor.Role {
	case domain.ActorCustomer:
		id := r.Actor.ID
		filter.CustomerID = &id
		filter.GroomerID = nil
	case domain.ActorGroomer:
		id := r.Actor.ID
		filter.GroomerID = &id
		filter.CustomerID = nil
	}

	if r.Date != nil {
		date, err := domain.ParseDate(*r.Date, loc)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		filter.Date = &date
	}

	if r.Status != nil {
		status, ok := domain.ParseBookingStatus(*r.Status)
		if !ok {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	OrderID       string  `json:"orderId"`
	CustomerID    int64   `json:"customerId"`
	GroomerID     *int64  `json:"groomerId,omitempty"`
	PetID         int64   `json:"petId"`
	AddressID     int64   `json:"addressId"`
	ServiceID     int64   `json:"serviceId"`
	PricingID     int64   `json:"pricingId"`
	PetSize       string  `json:"petSize,omitempty"`
	BookingDate   string  `json:"bookingDate"` // "2026-10-15"
	SlotIDs       []int64 `json:"slotIds"`
	AppointmentAt string  `json:"appointmentAt"` // ISO 8601
	Status        string  `json:"status"`
	StartTime     *string `json:"startTime,omitempty"`
	EndTime       *string `json:"endTime,omitempty"`

	// Денормализованные данные
	ServiceName string  `json:"serviceName"`
	Amount      string  `json:"amount"`
	Tax         string  `json:"tax"`
	Total       string  `json:"total"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	slotIDs := b.SlotIDs
	if slotIDs == nil {
		slotIDs = []int64{}
	}

	return &BookingResponse{
		ID:                 b.ID,
		OrderID:            b.OrderID,
		CustomerID:         b.CustomerID,
		GroomerID:          b.GroomerID,
		PetID:              b.PetID,
		AddressID:          b.AddressID,
		ServiceID:          b.ServiceID,
		PricingID:          b.PricingID,
		PetSize:            b.PetSize,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		SlotIDs:            slotIDs,
		AppointmentAt:      b.AppointmentAt.Format(time.RFC3339),
		Status:             string(b.Status),
		StartTime:          formatTime(b.StartTime),
		EndTime:            formatTime(b.EndTime),
		ServiceName:        b.ServiceName,
		Amount:             b.Amount.StringFixed(2),
		Tax:                b.Tax.StringFixed(2),
		Total:              b.Total.StringFixed(2),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        formatTime(b.CancelledAt),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// formatTime конвертирует время в строку ISO 8601
func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
