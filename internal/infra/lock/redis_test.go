package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T) (*RedisLock, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	l := NewRedisLock(client, "reminders:run", time.Minute)
	l.owner = func() string { return "owner-1" }
	return l, mock
}

func TestRedisLock_AcquireAndRelease(t *testing.T) {
	l, mock := newTestLock(t)

	mock.ExpectSetNX("reminders:run", "owner-1", time.Minute).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"reminders:run"}, "owner-1").SetVal(int64(1))

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, release(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLock_Held(t *testing.T) {
	l, mock := newTestLock(t)

	mock.ExpectSetNX("reminders:run", "owner-1", time.Minute).SetVal(false)

	_, err := l.Acquire(context.Background())

	assert.ErrorIs(t, err, ErrNotAcquired)
}

func TestRedisLock_RedisDown(t *testing.T) {
	l, mock := newTestLock(t)

	mock.ExpectSetNX("reminders:run", "owner-1", time.Minute).SetErr(errors.New("connection refused"))

	_, err := l.Acquire(context.Background())

	assert.ErrorIs(t, err, ErrRedis)
}

func TestNoopLock(t *testing.T) {
	release, err := NoopLock{}.Acquire(context.Background())
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
}
