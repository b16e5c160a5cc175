package smsgateway

import "errors"

var (
	// ErrUnavailable возвращается, когда шлюз недоступен или не выдал токен
	ErrUnavailable = errors.New("smsgateway client: gateway unavailable")

	// ErrUnauthorized возвращается, когда шлюз отклонил учетные данные или токен
	ErrUnauthorized = errors.New("smsgateway client: unauthorized")

	// ErrSendFailed возвращается, когда шлюз отклонил сообщение
	ErrSendFailed = errors.New("smsgateway client: send failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("smsgateway client: internal error")
)
