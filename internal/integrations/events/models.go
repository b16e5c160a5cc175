package events

import "time"

// Type тип события жизненного цикла бронирования (ключ маршрутизации)
type Type string

const (
	BookingCreated         Type = "booking.created"
	BookingRescheduled     Type = "booking.rescheduled"
	BookingGroomerAssigned Type = "booking.groomer_assigned"
	BookingStarted         Type = "booking.started"
	BookingCompleted       Type = "booking.completed"
	BookingCancelled       Type = "booking.cancelled"
	BookingDeleted         Type = "booking.deleted"
	TransactionAdded       Type = "ledger.transaction_added"
)

// Event сообщение о событии бронирования
type Event struct {
	Type       Type                   `json:"type"`
	BookingID  int64                  `json:"booking_id"`
	OrderID    string                 `json:"order_id,omitempty"`
	Status     string                 `json:"status,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}
