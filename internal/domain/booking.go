package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusScheduled  BookingStatus = "scheduled"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// Booking represents a grooming appointment
type Booking struct {
	ID      int64
	OrderID string // человекочитаемый номер заказа (GRM-YYYYMMDD-XXXXXXXX)

	CustomerID int64
	GroomerID  *int64 // NULL до назначения грумера
	PetID      int64
	AddressID  int64

	ServiceID     int64
	PricingID     int64
	PetSize       string
	BookingDate   time.Time // календарная дата (без времени)
	SlotIDs       []int64   // занятые слоты, по возрастанию времени начала
	AppointmentAt time.Time // дата + начало первого слота в рабочем часовом поясе

	Status       BookingStatus
	StartOTPHash string
	EndOTPHash   string
	StartTime    *time.Time
	EndTime      *time.Time

	OTPFailedAttempts int
	OTPLockedUntil    *time.Time

	// Denormalized pricing (не пересчитывается после создания)
	ServiceName string
	Amount      decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsActive returns true if the booking still occupies its slots
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.DeletedAt == nil
}

// IsTerminal returns true if no further transitions are allowed
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// CanStart returns true if the booking may move to in_progress
func (b *Booking) CanStart() bool {
	return b.Status == StatusScheduled
}

// CanComplete returns true if the booking may move to completed
func (b *Booking) CanComplete() bool {
	return b.Status == StatusInProgress
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusScheduled || b.Status == StatusInProgress
}

// CanBeRescheduled returns true if the booking's slots may be replaced
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusScheduled
}

// CanAssignGroomer returns true if a groomer may be (re)assigned
func (b *Booking) CanAssignGroomer() bool {
	return !b.IsTerminal()
}

// IsOTPLocked returns true if OTP verification is temporarily blocked
func (b *Booking) IsOTPLocked(now time.Time) bool {
	return b.OTPLockedUntil != nil && now.Before(*b.OTPLockedUntil)
}

// HasSlot returns true if the booking occupies the given slot
func (b *Booking) HasSlot(slotID int64) bool {
	for _, id := range b.SlotIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	Date            *time.Time     // Конкретная дата (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	CustomerID      *int64         // Фильтр по клиенту (опционально)
	GroomerID       *int64         // Фильтр по грумеру (опционально)
	IncludeInactive bool           // Включать отмененные бронирования
}

// OccupiedSlot занятая пара (дата, слот) и бронирование-владелец
type OccupiedSlot struct {
	BookingID   int64
	BookingDate time.Time
	SlotID      int64
}
