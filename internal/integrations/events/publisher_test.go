package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, exchange: "grooming.events"}
	at := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), Event{Type: BookingStarted, BookingID: 4, Status: "in_progress", OccurredAt: at})
	require.NoError(t, err)

	assert.Equal(t, "grooming.events", ch.exchange)
	assert.Equal(t, "booking.started", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var decoded Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, int64(4), decoded.BookingID)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_Publish_Error(t *testing.T) {
	p := &Publisher{ch: &fakeChannel{err: errors.New("channel closed")}, exchange: "x"}

	err := p.Publish(context.Background(), Event{Type: BookingCreated})

	assert.ErrorIs(t, err, ErrPublish)
}
