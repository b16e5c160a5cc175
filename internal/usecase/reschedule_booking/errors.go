package reschedule_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInvalidDate возвращается, когда новая дата в прошлом
	ErrInvalidDate = errors.New("reschedule_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("reschedule_booking: date is too far in the future")

	// ErrUnknownSlot возвращается, когда слот отсутствует в каталоге
	ErrUnknownSlot = errors.New("reschedule_booking: unknown slot")

	// ErrSlotInPast возвращается, когда начало слота уже наступило
	ErrSlotInPast = errors.New("reschedule_booking: slot has already started")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь не может переносить это бронирование
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrInvalidStateTransition возвращается, когда бронирование уже не в статусе scheduled
	ErrInvalidStateTransition = errors.New("reschedule_booking: booking can only be rescheduled while scheduled")

	// ErrSlotConflict возвращается, когда хотя бы один новый слот занят
	ErrSlotConflict = errors.New("reschedule_booking: slot already taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
