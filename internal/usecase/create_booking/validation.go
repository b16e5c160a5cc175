package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.PetID <= 0 {
		return fmt.Errorf("%w: petID must be positive", ErrInvalidInput)
	}

	if req.AddressID <= 0 {
		return fmt.Errorf("%w: addressID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.PricingID <= 0 {
		return fmt.Errorf("%w: pricingID must be positive", ErrInvalidInput)
	}

	if err := validateSlotIDs(req.SlotIDs); err != nil {
		return err
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateSlotIDs проверяет, что список слотов не пуст, без повторов и в пределах лимита
func validateSlotIDs(ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one slot is required", ErrInvalidInput)
	}

	if len(ids) > domain.MaxSlotsPerBooking {
		return fmt.Errorf("%w: at most %d slots per booking", ErrInvalidInput, domain.MaxSlotsPerBooking)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate slot id=%d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// parseAndValidateDate разбирает дату и проверяет горизонт бронирования
func parseAndValidateDate(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	date, err := domain.ParseDate(strings.TrimSpace(raw), loc)
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

// resolveSlots находит слоты в каталоге и проверяет, что ни один еще не начался.
// Возвращает слоты по времени начала и момент визита (начало первого слота).
func resolveSlots(catalog *domain.SlotCatalog, ids []int64, date, now time.Time, loc *time.Location) ([]domain.Slot, time.Time, error) {
	slots, ok := catalog.Resolve(ids)
	if !ok {
		return nil, time.Time{}, ErrUnknownSlot
	}

	for _, s := range slots {
		if !s.StartsAt(date, loc).After(now) {
			return nil, time.Time{}, fmt.Errorf("%w: slot id=%d starts at %s", ErrSlotInPast, s.ID, s.Start)
		}
	}

	return slots, slots[0].StartsAt(date, loc), nil
}

// findConflict возвращает ID первого запрошенного слота, уже занятого другим бронированием
func findConflict(requested []int64, occupied []domain.OccupiedSlot, ownBookingID int64) (int64, bool) {
	taken := make(map[int64]struct{}, len(occupied))
	for _, o := range occupied {
		if o.BookingID == ownBookingID {
			continue
		}
		taken[o.SlotID] = struct{}{}
	}

	for _, id := range requested {
		if _, ok := taken[id]; ok {
			return id, true
		}
	}

	return 0, false
}
