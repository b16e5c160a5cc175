package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrGroomerNotFound возвращается, когда грумер не найден или неактивен
	ErrGroomerNotFound = errors.New("groomer not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidStateTransition возвращается при недопустимом переходе статуса
	// (в том числе при проигранной конкурентной гонке)
	ErrInvalidStateTransition = errors.New("invalid booking state transition")

	// ErrInvalidOTP возвращается при неверном одноразовом коде
	ErrInvalidOTP = errors.New("invalid OTP")

	// ErrOTPLocked возвращается, когда ввод кода временно заблокирован
	ErrOTPLocked = errors.New("OTP verification temporarily locked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
