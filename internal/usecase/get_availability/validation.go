package get_availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// parseAndValidateDate разбирает дату и проверяет, что она не в прошлом
// и не дальше горизонта бронирования
func parseAndValidateDate(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date, err := domain.ParseDate(raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD: %v", ErrInvalidInput, err)
	}

	today := domain.DateOf(now, loc)
	if date.Before(today) {
		return time.Time{}, ErrInvalidDate
	}

	if domain.DaysBetween(today, date) > domain.MaxAdvanceBookingDays {
		return time.Time{}, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, domain.MaxAdvanceBookingDays)
	}

	return date, nil
}
