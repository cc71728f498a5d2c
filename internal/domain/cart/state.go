package cart

import (
	"time"

	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/domain/reservations"
)

// Item es un borrador del formulario de reserva con su cotización.
type Item struct {
	ID      string               `json:"id"`
	Details reservations.Details `json:"reserva"`
	Quote   pricing.Quote        `json:"cotizacion"`
	AddedAt time.Time            `json:"added_at"`

	// LastError guarda el motivo del último checkout fallido; editar el item lo limpia.
	LastError string `json:"last_error,omitempty"`
}

// State es el carrito de un usuario. Los reducers no modifican el estado recibido.
type State struct {
	Items []Item `json:"items"`
}

func (s State) Find(id string) (Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// AddItem agrega al final.
func AddItem(s State, it Item) State {
	items := make([]Item, 0, len(s.Items)+1)
	items = append(items, s.Items...)
	items = append(items, it)
	return State{Items: items}
}

// RemoveItem quita el item; si no existe devuelve una copia igual.
func RemoveItem(s State, id string) State {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.ID != id {
			items = append(items, it)
		}
	}
	return State{Items: items}
}

// UpdateItem reemplaza el item con el mismo ID conservando la posición.
func UpdateItem(s State, it Item) State {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	for i := range items {
		if items[i].ID == it.ID {
			items[i] = it
		}
	}
	return State{Items: items}
}

func Clear() State {
	return State{Items: []Item{}}
}

// Total suma las cotizaciones.
func Total(s State) int64 {
	var total int64
	for _, it := range s.Items {
		total += it.Quote.Total
	}
	return total
}
