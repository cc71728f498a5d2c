package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normaliza texto para comparar: repara mojibake, quita tildes (Á->A, Ñ->N),
// pasa a mayúsculas y colapsa espacios internos.
func Fold(s string) string {
	s = RepairMojibake(strings.TrimSpace(s))
	folded, _, err := transform.String(stripAccents, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(folded)), " ")
}

// RepairMojibake intenta revertir UTF-8 leído como Windows-1252 ("NÃºMERO" -> "NúMERO").
// Si el resultado no es UTF-8 válido devuelve s tal cual.
func RepairMojibake(s string) string {
	if !strings.ContainsAny(s, "ÃÂ") {
		return s
	}
	raw, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil || !utf8.ValidString(raw) {
		return s
	}
	return raw
}
