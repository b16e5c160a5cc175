package reminders

import "errors"

var (
	// ErrGatewayUnavailable возвращается, когда не удалось получить токен шлюза; запуск прерывается
	ErrGatewayUnavailable = errors.New("reminders: notification gateway unavailable")

	// ErrAlreadyRunning возвращается, когда запуск уже выполняет другой экземпляр
	ErrAlreadyRunning = errors.New("reminders: run already in progress")
)
