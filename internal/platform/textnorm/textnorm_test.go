package textnorm

import "testing"

func TestFold_AccentsCaseWhitespace(t *testing.T) {
	want := "NUMERO DE AUTORIZACION"
	for _, in := range []string{
		"Número de Autorización",
		"  NUMERO   DE AUTORIZACION ",
		"numero de autorizacion",
		"NÚMERO\tDE AUTORIZACIÓN",
		"NÃºmero de AutorizaciÃ³n",
	} {
		if got := Fold(in); got != want {
			t.Fatalf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFold_Enye(t *testing.T) {
	if got := Fold("Acompañante"); got != "ACOMPANANTE" {
		t.Fatalf("got %q", got)
	}
	if got := Fold("ACOMPAÃ‘ANTE"); got != "ACOMPANANTE" {
		t.Fatalf("mojibake Ñ: got %q", got)
	}
}

func TestRepairMojibake_LeavesCleanText(t *testing.T) {
	if got := RepairMojibake("Bogotá"); got != "Bogotá" {
		t.Fatalf("got %q", got)
	}
}
