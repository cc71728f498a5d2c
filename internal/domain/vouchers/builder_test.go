package vouchers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/platform/dates"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png: %v", err)
	}
	return buf.Bytes()
}

func sampleReservation() reservations.Reservation {
	total := int64(266512)
	return reservations.Reservation{
		Details: reservations.Details{
			AuthorizationNumber: "AUT-77",
			PatientName:         "José Núñez",
			DocumentType:        "CC",
			Hotel:               "Ilar 74",
			CheckIn:             dates.MustParse("2025-04-01"),
			CheckOut:            dates.MustParse("2025-04-03"),
			Observations:        "Llega en la noche",
		},
		TotalPrice: &total,
	}
}

func TestBuild_WithLocalAndRemoteLogos(t *testing.T) {
	logo := tinyPNG(t)

	dir := t.TempDir()
	local := filepath.Join(dir, "left.png")
	if err := os.WriteFile(local, logo, 0o600); err != nil {
		t.Fatalf("write logo: %v", err)
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(logo)
	}))
	defer ts.Close()

	b := NewBuilder(Config{LogoLeft: local, LogoRight: ts.URL + "/right.png"}, nil, nil)
	out, err := b.Build(context.Background(), sampleReservation())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected a pdf document")
	}
}

func TestBuild_MissingLogosStillRenders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	b := NewBuilder(Config{LogoLeft: "/does/not/exist.png", LogoRight: ts.URL}, nil, nil)
	out, err := b.Build(context.Background(), sampleReservation())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected a pdf document")
	}
}

func TestBuild_RequiresAuthorization(t *testing.T) {
	b := NewBuilder(Config{}, nil, nil)
	if _, err := b.Build(context.Background(), reservations.Reservation{}); err != ErrMissingAuthorization {
		t.Fatalf("expected ErrMissingAuthorization, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(" AUT-77 "); got != "confirmacion-reserva-AUT-77.pdf" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestRoomTypeAndFormat(t *testing.T) {
	if RoomType(1) != "Sencilla" || RoomType(2) != "Doble" || RoomType(5) != "Triple" {
		t.Fatalf("unexpected room types")
	}
	if got := FormatCOP(266512); got != "$ 266.512" {
		t.Fatalf("unexpected %q", got)
	}
}
