package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается, когда дата бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrUnknownSlot возвращается, когда слот отсутствует в каталоге
	ErrUnknownSlot = errors.New("create_booking: unknown slot")

	// ErrSlotInPast возвращается, когда начало слота уже наступило
	ErrSlotInPast = errors.New("create_booking: slot has already started")

	// ErrCustomerNotFound возвращается, когда клиент не найден в реестре
	ErrCustomerNotFound = errors.New("create_booking: customer not found")

	// ErrPricingNotFound возвращается, когда тариф не найден
	ErrPricingNotFound = errors.New("create_booking: pricing not found")

	// ErrSlotConflict возвращается, когда хотя бы один слот уже занят
	ErrSlotConflict = errors.New("create_booking: slot already taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
