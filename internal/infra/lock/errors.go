package lock

import "errors"

var (
	// ErrNotAcquired возвращается, когда блокировка удерживается другим владельцем
	ErrNotAcquired = errors.New("lock: not acquired")

	// ErrRedis возвращается при ошибках обращения к Redis
	ErrRedis = errors.New("lock: redis error")
)
