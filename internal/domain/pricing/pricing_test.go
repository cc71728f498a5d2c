package pricing

import (
	"testing"

	"hotel-reservations/internal/platform/dates"
)

func TestPrice_Ilar74(t *testing.T) {
	cases := []struct {
		occupants int
		nights    int
		want      int64
	}{
		{1, 1, 133256},
		{2, 1, 199884},
		{3, 2, 533024},
		{5, 1, 266512},
		{0, 1, 133256},
	}
	for _, c := range cases {
		if got := Price(133256, c.occupants, c.nights); got != c.want {
			t.Fatalf("Price(133256, %d, %d) = %d, want %d", c.occupants, c.nights, got, c.want)
		}
	}
}

func TestNightlyRate_RoundsHalfUp(t *testing.T) {
	// 118501 * 1.5 = 177751.5
	if got := NightlyRate(118501, 2); got != 177752 {
		t.Fatalf("got %d", got)
	}
}

func TestNights(t *testing.T) {
	d := dates.MustParse
	cases := []struct {
		in, out dates.Date
		want    int
	}{
		{d("2024-03-01"), d("2024-03-04"), 3},
		{d("2024-03-01"), d("2024-03-31"), 30},
		{d("2024-03-01"), d("2024-04-01"), 1}, // 31 noches: fuera de rango
		{d("2024-03-04"), d("2024-03-01"), 1},
		{d("2024-03-01"), d("2024-03-01"), 1},
		{dates.Date{}, d("2024-03-01"), 1},
	}
	for _, c := range cases {
		if got := Nights(c.in, c.out); got != c.want {
			t.Fatalf("Nights(%v, %v) = %d, want %d", c.in, c.out, got, c.want)
		}
	}
}

func TestTable_Resolve(t *testing.T) {
	tbl := NewTable(nil)

	for _, in := range []string{"Ilar 74", "ilar 74", "HOTEL ILAR 74 BOGOTA", "ilar-74"} {
		h, ok := tbl.Resolve(in)
		if !ok || h.Key != "ilar-74" {
			t.Fatalf("Resolve(%q) = %+v, %v", in, h, ok)
		}
	}

	h, ok := tbl.Resolve("hotel santa monica")
	if !ok || h.Key != "santa-monica" {
		t.Fatalf("accent-insensitive resolve failed: %+v", h)
	}

	if _, ok := tbl.Resolve("Hilton"); ok {
		t.Fatalf("expected unknown hotel")
	}
	if _, ok := tbl.Resolve("   "); ok {
		t.Fatalf("blank must not resolve")
	}
}

func TestTable_ResolvePartialNames(t *testing.T) {
	tbl := NewTable(nil)

	for in, want := range map[string]string{
		"ilar":         "ilar-74",
		"Santa Mónica": "santa-monica",
		"estelar":      "estelar-medellin",
	} {
		h, ok := tbl.Resolve(in)
		if !ok || h.Key != want {
			t.Fatalf("Resolve(%q) = %+v, %v, want %s", in, h, ok, want)
		}
	}

	// Letras sueltas, fragmentos de palabra y palabras que comparten varios hoteles.
	for _, in := range []string{"a", "o", "Hotel", "tel", "Monic", "Santa Marta"} {
		if h, ok := tbl.Resolve(in); ok {
			t.Fatalf("Resolve(%q) = %+v, want unknown", in, h)
		}
	}
}

func TestTable_Quote(t *testing.T) {
	tbl := NewTable(nil)

	q, err := tbl.Quote("Ilar 74", 3, dates.MustParse("2024-05-10"), dates.MustParse("2024-05-12"))
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Nights != 2 || q.NightlyRate != 266512 || q.Total != 533024 {
		t.Fatalf("unexpected quote %+v", q)
	}

	if _, err := tbl.Quote("nope", 1, dates.Date{}, dates.Date{}); err != ErrUnknownHotel {
		t.Fatalf("expected ErrUnknownHotel, got %v", err)
	}
}
