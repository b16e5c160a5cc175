package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ, только если им владеет вызывающий
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisLock распределенная блокировка запуска на SET NX с TTL.
// Используется только как оптимизация: корректность обеспечивают ограничения БД.
type RedisLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	owner  func() string
}

// NewRedisLock создает блокировку на ключ key
func NewRedisLock(client *redis.Client, key string, ttl time.Duration) *RedisLock {
	return &RedisLock{
		client: client,
		key:    key,
		ttl:    ttl,
		owner:  func() string { return uuid.NewString() },
	}
}

// Acquire пытается захватить блокировку. Возвращает функцию освобождения
// или ErrNotAcquired, если блокировка занята.
func (l *RedisLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := l.owner()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: Acquire - setnx %s: %v", ErrRedis, l.key, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	release := func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("%w: Release - eval %s: %v", ErrRedis, l.key, err)
		}
		return nil
	}

	return release, nil
}

// NoopLock всегда захватывается; используется, когда Redis не настроен
type NoopLock struct{}

func (NoopLock) Acquire(context.Context) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
