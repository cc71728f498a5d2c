package dates

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	isoLayout     = "2006-01-02"
	displayLayout = "02/01/2006"
)

// Date es una fecha de calendario sin hora ni zona horaria.
// Se guarda y se muestra como el mismo día: no hay ajustes de ±1 día entre DB y pantalla.
// El valor cero significa "sin fecha".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New construye una fecha validando que exista en el calendario (31/02 => false).
func New(year, month, day int) (Date, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, true
}

// FromTime toma el día de calendario de t (en su propia zona).
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Parse detecta el formato de s y devuelve la fecha.
//
// Formatos aceptados:
//   - YYYY-MM-DD, YYYY/MM/DD (también con sufijo de hora: 2024-03-01T00:00:00Z)
//   - DD/MM/YYYY, DD-MM-YYYY
//   - MM/DD/YYYY solo cuando el segundo componente no puede ser mes (> 12).
//     Ante la ambigüedad (01/02/2024) se asume día primero.
func Parse(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	if i := strings.IndexAny(s, "T "); i > 0 {
		s = s[:i]
	}

	var sep string
	switch {
	case strings.Contains(s, "-"):
		sep = "-"
	case strings.Contains(s, "/"):
		sep = "/"
	default:
		return Date{}, false
	}

	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return Date{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		if p == "" || !allDigits(p) {
			return Date{}, false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, false
		}
		nums[i] = n
	}

	// 4 dígitos al inicio => año primero
	if len(parts[0]) == 4 {
		return New(nums[0], nums[1], nums[2])
	}

	if len(parts[2]) != 4 {
		return Date{}, false
	}
	day, month := nums[0], nums[1]
	if month > 12 && day <= 12 {
		day, month = month, day
	}
	return New(nums[2], month, day)
}

// MustParse es para tests y tablas fijas.
func MustParse(s string) Date {
	d, ok := Parse(s)
	if !ok {
		panic(fmt.Sprintf("dates: invalid date %q", s))
	}
	return d
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time devuelve la medianoche UTC del día.
func (d Date) Time() time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// ISO formatea YYYY-MM-DD (formato de escritura en DB y API).
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(isoLayout)
}

// Display formatea DD/MM/YYYY (formato de pantalla y PDF).
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(displayLayout)
}

func (d Date) String() string {
	return d.ISO()
}

// DaysUntil devuelve los días de calendario entre d y other (other - d).
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.ISO())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("dates: expected string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, ok := Parse(s)
	if !ok {
		return fmt.Errorf("dates: invalid date %q", s)
	}
	*d = parsed
	return nil
}

// Scan implementa sql.Scanner (columnas DATE).
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = FromTime(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("dates: cannot scan %T", src)
	}
}

func (d *Date) scanString(s string) error {
	parsed, ok := Parse(s)
	if !ok {
		return fmt.Errorf("dates: invalid date %q", s)
	}
	*d = parsed
	return nil
}

// Value implementa driver.Valuer; la fecha cero se guarda como NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time(), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
