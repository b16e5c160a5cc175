package domain

import "time"

// RecipientRole роль получателя напоминания
type RecipientRole string

const (
	RoleCustomer RecipientRole = "customer"
	RoleGroomer  RecipientRole = "groomer"
)

// Channel канал доставки напоминания
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// ReminderRecord one row per (booking, recipient, role, channel, day) already notified
type ReminderRecord struct {
	ID            int64
	BookingID     int64
	RecipientID   int64
	RecipientRole RecipientRole
	Channel       Channel
	Horizon       int       // за сколько дней до визита сработало напоминание
	SentOn        time.Time // календарный день отправки в рабочем часовом поясе
	Destination   string
	CreatedAt     time.Time
}

// ReminderKey dedup key of a reminder record
type ReminderKey struct {
	BookingID     int64
	RecipientID   int64
	RecipientRole RecipientRole
	Channel       Channel
	SentOn        time.Time
}

// Key returns the dedup key of the record
func (r *ReminderRecord) Key() ReminderKey {
	return ReminderKey{
		BookingID:     r.BookingID,
		RecipientID:   r.RecipientID,
		RecipientRole: r.RecipientRole,
		Channel:       r.Channel,
		SentOn:        r.SentOn,
	}
}

// Recipient участник бронирования, которому можно отправить напоминание
type Recipient struct {
	ID    int64
	Role  RecipientRole
	Name  string
	Phone string
}
