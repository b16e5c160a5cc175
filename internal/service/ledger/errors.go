package ledger

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidAmount возвращается при нулевой, отрицательной или дробной сверх копеек сумме
	ErrInvalidAmount = errors.New("amount must be a positive value with at most 2 decimals")

	// ErrInvalidMethod возвращается при неизвестном способе оплаты
	ErrInvalidMethod = errors.New("unknown payment method")

	// ErrOverpayment возвращается, когда оплаченная сумма превысила бы итог бронирования
	ErrOverpayment = errors.New("payment exceeds booking total")

	// ErrConcurrentUpdate возвращается, когда параллельная запись помешала фиксации
	ErrConcurrentUpdate = errors.New("concurrent ledger update, retry")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("ledger: internal error")
)
