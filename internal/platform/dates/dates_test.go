package dates

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse_SameCalendarDateAcrossFormats(t *testing.T) {
	want := Date{Year: 2024, Month: time.March, Day: 25}

	inputs := []string{
		"2024-03-25",
		"2024/03/25",
		"2024-03-25T00:00:00Z",
		"25/03/2024",
		"25-03-2024",
		"03/25/2024", // MM/DD: el segundo componente no puede ser mes
		" 25/03/2024 ",
	}
	for _, in := range inputs {
		got, ok := Parse(in)
		if !ok {
			t.Fatalf("Parse(%q) failed", in)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParse_AmbiguousIsDayFirst(t *testing.T) {
	got, ok := Parse("01/02/2024")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Day != 1 || got.Month != time.February {
		t.Fatalf("expected 1 Feb, got %v", got)
	}
}

func TestParse_RejectsImpossibleDates(t *testing.T) {
	for _, in := range []string{
		"31/02/2024",
		"31/04/2024",
		"2023-02-29",
		"00/01/2024",
		"15/13/2024",
		"32/01/2024",
		"2024-13-01",
		"abc",
		"2024",
		"12/05/24",
		"",
		"12.05.2024",
	} {
		if d, ok := Parse(in); ok {
			t.Fatalf("Parse(%q) = %v, expected invalid", in, d)
		}
	}
}

func TestParse_LeapDay(t *testing.T) {
	if _, ok := Parse("29/02/2024"); !ok {
		t.Fatalf("expected 29/02/2024 to be valid")
	}
}

func TestDate_Formats(t *testing.T) {
	d := MustParse("2024-07-04")
	if d.ISO() != "2024-07-04" {
		t.Fatalf("ISO = %s", d.ISO())
	}
	if d.Display() != "04/07/2024" {
		t.Fatalf("Display = %s", d.Display())
	}
	if (Date{}).ISO() != "" || (Date{}).Display() != "" {
		t.Fatalf("zero date must format empty")
	}
}

func TestDate_DaysUntil(t *testing.T) {
	in := MustParse("2024-02-27")
	out := MustParse("2024-03-02")
	if n := in.DaysUntil(out); n != 4 {
		t.Fatalf("expected 4 days, got %d", n)
	}
	if n := out.DaysUntil(in); n != -4 {
		t.Fatalf("expected -4 days, got %d", n)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}
	b, err := json.Marshal(wrapper{D: MustParse("10/11/2025")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"d":"2025-11-10"}` {
		t.Fatalf("unexpected json %s", string(b))
	}

	var w wrapper
	if err := json.Unmarshal(b, &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.D != MustParse("2025-11-10") {
		t.Fatalf("round trip changed the date: %v", w.D)
	}

	if err := json.Unmarshal([]byte(`{"d":null}`), &w); err != nil || !w.D.IsZero() {
		t.Fatalf("null must decode to zero date")
	}
	if err := json.Unmarshal([]byte(`{"d":"31/02/2024"}`), &w); err == nil {
		t.Fatalf("expected error for impossible date")
	}
}

func TestDate_ScanValue(t *testing.T) {
	d := MustParse("2025-01-31")
	v, err := d.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var back Date
	if err := back.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if back != d {
		t.Fatalf("expected %v, got %v", d, back)
	}

	if v, _ := (Date{}).Value(); v != nil {
		t.Fatalf("zero date must be NULL")
	}
	if err := back.Scan("2025-02-01"); err != nil || back.Day != 1 {
		t.Fatalf("Scan string: %v %v", err, back)
	}
}
