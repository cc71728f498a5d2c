package notifications

import (
	"context"
	"time"
)

const EventReservationConfirmed = "reservation.confirmed"

// Event es un hecho de dominio publicado hacia otros sistemas.
type Event struct {
	Type       string
	Key        string
	OccurredAt time.Time
	Payload    any
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
