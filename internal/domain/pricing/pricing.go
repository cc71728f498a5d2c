package pricing

import (
	"errors"
	"strings"
	"unicode"

	"hotel-reservations/internal/platform/dates"
	"hotel-reservations/internal/platform/textnorm"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownHotel = errors.New("unknown hotel")
)

// MaxNights es el máximo de noches cotizable; fuera de (0, MaxNights] se cobra 1 noche.
const MaxNights = 30

// Hotel es una entrada de la tabla de tarifas (tarifa base por noche, 1 ocupante).
type Hotel struct {
	Key  string `yaml:"key" json:"key"`
	Name string `yaml:"name" json:"name"`
	City string `yaml:"city" json:"city"`
	Rate int64  `yaml:"rate" json:"rate"`
}

func DefaultHotels() []Hotel {
	return []Hotel{
		{Key: "ilar-74", Name: "Ilar 74", City: "Bogotá", Rate: 133256},
		{Key: "santa-monica", Name: "Hotel Santa Mónica", City: "Cali", Rate: 118500},
		{Key: "estelar-medellin", Name: "Hotel Estelar Medellín", City: "Medellín", Rate: 149900},
	}
}

// Table es la única fuente de tarifas; booking, carrito, voucher y detalle la consultan.
type Table struct {
	hotels []Hotel
}

// NewTable usa DefaultHotels si hotels viene vacío.
func NewTable(hotels []Hotel) *Table {
	if len(hotels) == 0 {
		hotels = DefaultHotels()
	}
	cp := make([]Hotel, len(hotels))
	copy(cp, hotels)
	return &Table{hotels: cp}
}

func (t *Table) Hotels() []Hotel {
	out := make([]Hotel, len(t.hotels))
	copy(out, t.hotels)
	return out
}

// Resolve identifica el hotel por key o nombre, sin distinguir mayúsculas ni tildes.
// Primero igualdad exacta; luego el texto contiene el nombre completo (gana el más largo);
// por último el texto es una secuencia de palabras del nombre y solo un hotel la tiene.
func (t *Table) Resolve(hotel string) (Hotel, bool) {
	q := textnorm.Fold(hotel)
	if q == "" {
		return Hotel{}, false
	}

	for _, h := range t.hotels {
		if q == textnorm.Fold(h.Key) || q == textnorm.Fold(h.Name) {
			return h, true
		}
	}

	qw := words(q)
	var best Hotel
	bestLen := 0
	for _, h := range t.hotels {
		name := textnorm.Fold(h.Name)
		if containsWords(qw, words(name)) && len(name) > bestLen {
			best = h
			bestLen = len(name)
		}
	}
	if bestLen > 0 {
		return best, true
	}

	var found []Hotel
	for _, h := range t.hotels {
		if containsWords(words(textnorm.Fold(h.Name)), qw) {
			found = append(found, h)
		}
	}
	if len(found) != 1 {
		return Hotel{}, false
	}
	return found[0], true
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsWords reporta si needle aparece como secuencia contigua de palabras en hay.
func containsWords(hay, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(hay) {
		return false
	}
	for start := 0; start+len(needle) <= len(hay); start++ {
		ok := true
		for j, w := range needle {
			if hay[start+j] != w {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Occupants: huésped principal + acompañante si lo hay.
func Occupants(hasCompanion bool) int {
	if hasCompanion {
		return 2
	}
	return 1
}

// Multiplier aplica el escalón por ocupantes: 1 => x1, 2 => x1.5, 3 o más => x2.
func Multiplier(occupants int) decimal.Decimal {
	switch {
	case occupants >= 3:
		return decimal.NewFromInt(2)
	case occupants == 2:
		return decimal.NewFromFloat(1.5)
	default:
		return decimal.NewFromInt(1)
	}
}

// Nights calcula las noches entre ingreso y salida. Fechas vacías, invertidas
// o estadías de más de MaxNights noches cuentan como 1 noche.
func Nights(checkIn, checkOut dates.Date) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 1
	}
	n := checkIn.DaysUntil(checkOut)
	if n < 1 || n > MaxNights {
		return 1
	}
	return n
}

// NightlyRate es la tarifa por noche ya multiplicada, redondeada al entero más cercano.
func NightlyRate(rate int64, occupants int) int64 {
	return decimal.NewFromInt(rate).Mul(Multiplier(occupants)).Round(0).IntPart()
}

// Price = tarifa por noche (con multiplicador) x noches.
func Price(rate int64, occupants, nights int) int64 {
	if nights < 1 {
		nights = 1
	}
	return NightlyRate(rate, occupants) * int64(nights)
}

type Quote struct {
	Hotel       Hotel `json:"hotel"`
	Occupants   int   `json:"occupants"`
	Nights      int   `json:"nights"`
	NightlyRate int64 `json:"nightly_rate"`
	Total       int64 `json:"total"`
}

func (t *Table) Quote(hotel string, occupants int, checkIn, checkOut dates.Date) (Quote, error) {
	h, ok := t.Resolve(hotel)
	if !ok {
		return Quote{}, ErrUnknownHotel
	}
	if occupants < 1 {
		occupants = 1
	}
	nights := Nights(checkIn, checkOut)
	return Quote{
		Hotel:       h,
		Occupants:   occupants,
		Nights:      nights,
		NightlyRate: NightlyRate(h.Rate, occupants),
		Total:       Price(h.Rate, occupants, nights),
	}, nil
}
