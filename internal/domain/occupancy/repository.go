package occupancy

import (
	"context"

	"hotel-reservations/internal/platform/dates"
)

type Repository interface {
	Upsert(ctx context.Context, ps []Projection) error
	// Lookup resuelve todas las llaves en una sola consulta; las que no existen no aparecen.
	Lookup(ctx context.Context, keys []Key) (map[Key]Projection, error)
	ListRange(ctx context.Context, hotel string, from, to dates.Date) ([]Projection, error)
}
