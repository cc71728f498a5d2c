package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hotel-reservations/internal/ports/notifications"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	closed   bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublish_WrapsEventInEnvelope(t *testing.T) {
	ch := &fakeChannel{}
	p := newWithChannel(ch, "reservations.events")

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), notifications.Event{
		Type:       notifications.EventReservationConfirmed,
		Key:        "AUT-1",
		OccurredAt: at,
		Payload:    map[string]string{"hotel": "Ilar 74"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if ch.exchange != "reservations.events" || ch.key != "reservation.confirmed" {
		t.Fatalf("unexpected routing %s / %s", ch.exchange, ch.key)
	}
	if ch.msg.ContentType != "application/json" || ch.msg.DeliveryMode != amqp.Persistent {
		t.Fatalf("unexpected publishing %#v", ch.msg)
	}

	var env Envelope
	if err := json.Unmarshal(ch.msg.Body, &env); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if env.Key != "AUT-1" || env.Source != source || !env.Timestamp.Equal(at) {
		t.Fatalf("unexpected envelope %#v", env)
	}

	if err := p.Close(); err != nil || !ch.closed {
		t.Fatalf("Close: %v", err)
	}
}
