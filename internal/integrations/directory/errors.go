package directory

import "errors"

var (
	// ErrCustomerNotFound возвращается, когда клиент не найден в реестре
	ErrCustomerNotFound = errors.New("directory client: customer not found")

	// ErrGroomerNotFound возвращается, когда грумер не найден в реестре
	ErrGroomerNotFound = errors.New("directory client: groomer not found")

	// ErrPricingNotFound возвращается, когда тариф не найден
	ErrPricingNotFound = errors.New("directory client: pricing not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("directory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("directory client: invalid response")
)
