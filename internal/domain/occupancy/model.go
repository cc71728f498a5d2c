package occupancy

import (
	"time"

	"hotel-reservations/internal/platform/dates"
)

// Key identifica una proyección: hotel normalizado + fecha.
type Key struct {
	Hotel string
	Date  dates.Date
}

// Projection es la disponibilidad proyectada de un hotel para un día.
type Projection struct {
	Hotel        string     `json:"hotel"`
	Date         dates.Date `json:"fecha"`
	Available    int        `json:"disponibles"`
	AvailablePct float64    `json:"disponible_pct"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (p Projection) Key() Key {
	return Key{Hotel: p.Hotel, Date: p.Date}
}

// HasAvailability: sin cupos o con porcentaje en cero no hay disponibilidad.
func (p Projection) HasAvailability() bool {
	return p.Available > 0 && p.AvailablePct > 0
}
