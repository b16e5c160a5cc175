package domain

// Default configuration values
const (
	DefaultTimezone             = "Asia/Kolkata"
	DefaultOTPLength            = 6
	DefaultOTPMaxAttempts       = 5
	DefaultOTPLockoutMinutes    = 15
	DefaultCustomerWindowHours  = 4
	DefaultGroomerWindowHours   = 2
	DefaultReminderIntervalMins = 60
)

// DefaultReminderHorizons горизонты напоминаний (дней до визита), по убыванию
var DefaultReminderHorizons = []int{10, 5, 3, 2, 1, 0}

// Business validation constants
const (
	MaxSlotsPerBooking          = 4
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxTransactionNotesLength   = 500
	MaxAdvanceBookingDays       = 90
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, при которых бронирование занимает слот
var ActiveStatuses = []BookingStatus{
	StatusScheduled,
	StatusInProgress,
	StatusCompleted,
}

// NonTerminalStatuses статусы, из которых возможны переходы
var NonTerminalStatuses = []BookingStatus{
	StatusScheduled,
	StatusInProgress,
}

// PaymentMethods допустимые способы оплаты
var PaymentMethods = []PaymentMethod{MethodCash, MethodUPI, MethodCard, MethodOther}

// ParseBookingStatus конвертирует строку в BookingStatus с валидацией
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return BookingStatus(s), true
	}
	return "", false
}

// ParsePaymentMethod конвертирует строку в PaymentMethod с валидацией
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// ParseTransactionStatus конвертирует строку в TransactionStatus; пустая строка = success
func ParseTransactionStatus(s string) (TransactionStatus, bool) {
	switch TransactionStatus(s) {
	case "":
		return TransactionSuccess, true
	case TransactionSuccess, TransactionPending, TransactionFailed:
		return TransactionStatus(s), true
	}
	return "", false
}
