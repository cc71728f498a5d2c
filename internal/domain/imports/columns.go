package imports

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"hotel-reservations/internal/platform/textnorm"
)

// Field es el nombre canónico de una columna de la tabla informs.
type Field string

const (
	FieldNombreCompleto             Field = "nombre_completo"
	FieldTipoDocumento              Field = "tipo_documento"
	FieldNumeroDocumento            Field = "numero_documento"
	FieldEdad                       Field = "edad"
	FieldRegimen                    Field = "regimen"
	FieldDescripcionServicio        Field = "descripcion_servicio"
	FieldDestino                    Field = "destino"
	FieldCiudadOrigen               Field = "ciudad_origen"
	FieldNumeroAutorizacion         Field = "numero_autorizacion"
	FieldCantidadServicios          Field = "cantidad_servicios"
	FieldCorreo                     Field = "correo"
	FieldNumeroContacto             Field = "numero_contacto"
	FieldRequiereAcompanante        Field = "requiere_acompanante"
	FieldNombreAcompanante          Field = "nombre_acompanante"
	FieldTipoDocumentoAcompanante   Field = "tipo_documento_acompanante"
	FieldNumeroDocumentoAcompanante Field = "numero_documento_acompanante"
	FieldParentescoAcompanante      Field = "parentesco_acompanante"
	FieldFechaCita                  Field = "fecha_cita"
	FieldHoraCita                   Field = "hora_cita"
	FieldFechaUltimaCita            Field = "fecha_ultima_cita"
	FieldFechaIngreso               Field = "fecha_ingreso"
	FieldFechaSalida                Field = "fecha_salida"
	FieldHotel                      Field = "hotel"
	FieldPOS                        Field = "pos"
	FieldObservaciones              Field = "observaciones"
	FieldValorTotal                 Field = "valor_total"
)

type mapping struct {
	key   string
	field Field
}

// columnMappings: header normalizado -> campo. El orden decide los empates.
var columnMappings = []mapping{
	{"NOMBRE COMPLETO", FieldNombreCompleto},
	{"NOMBRE DEL PACIENTE", FieldNombreCompleto},
	{"NOMBRES Y APELLIDOS", FieldNombreCompleto},
	{"PACIENTE", FieldNombreCompleto},
	{"TIPO DE DOCUMENTO", FieldTipoDocumento},
	{"TIPO DOCUMENTO", FieldTipoDocumento},
	{"NUMERO DE DOCUMENTO", FieldNumeroDocumento},
	{"NUMERO DOCUMENTO", FieldNumeroDocumento},
	{"CEDULA", FieldNumeroDocumento},
	{"DOCUMENTO", FieldNumeroDocumento},
	{"EDAD", FieldEdad},
	{"REGIMEN", FieldRegimen},
	{"DESCRIPCION DEL SERVICIO", FieldDescripcionServicio},
	{"DESCRIPCION SERVICIO", FieldDescripcionServicio},
	{"DESTINO", FieldDestino},
	{"CIUDAD DE ORIGEN", FieldCiudadOrigen},
	{"CIUDAD ORIGEN", FieldCiudadOrigen},
	{"NUMERO DE AUTORIZACION", FieldNumeroAutorizacion},
	{"NUMERO AUTORIZACION", FieldNumeroAutorizacion},
	{"NO AUTORIZACION", FieldNumeroAutorizacion},
	{"AUTORIZACION", FieldNumeroAutorizacion},
	{"CANTIDAD DE SERVICIOS AUTORIZADOS", FieldCantidadServicios},
	{"CANTIDAD DE SERVICIOS", FieldCantidadServicios},
	{"CANTIDAD SERVICIOS", FieldCantidadServicios},
	{"CORREO ELECTRONICO", FieldCorreo},
	{"CORREO", FieldCorreo},
	{"EMAIL", FieldCorreo},
	{"NUMERO DE CONTACTO", FieldNumeroContacto},
	{"NUMERO CONTACTO", FieldNumeroContacto},
	{"TELEFONO", FieldNumeroContacto},
	{"CELULAR", FieldNumeroContacto},
	{"REQUIERE ACOMPANANTE", FieldRequiereAcompanante},
	{"NOMBRE DEL ACOMPANANTE", FieldNombreAcompanante},
	{"NOMBRE ACOMPANANTE", FieldNombreAcompanante},
	{"ACOMPANANTE", FieldNombreAcompanante},
	{"TIPO DE DOCUMENTO DEL ACOMPANANTE", FieldTipoDocumentoAcompanante},
	{"TIPO DOCUMENTO ACOMPANANTE", FieldTipoDocumentoAcompanante},
	{"NUMERO DE DOCUMENTO DEL ACOMPANANTE", FieldNumeroDocumentoAcompanante},
	{"NUMERO DOCUMENTO ACOMPANANTE", FieldNumeroDocumentoAcompanante},
	{"PARENTESCO DEL ACOMPANANTE", FieldParentescoAcompanante},
	{"PARENTESCO", FieldParentescoAcompanante},
	{"FECHA DE LA CITA", FieldFechaCita},
	{"FECHA CITA", FieldFechaCita},
	{"HORA DE LA CITA", FieldHoraCita},
	{"HORA CITA", FieldHoraCita},
	{"FECHA DE ULTIMA CITA", FieldFechaUltimaCita},
	{"FECHA ULTIMA CITA", FieldFechaUltimaCita},
	{"FECHA DE INGRESO", FieldFechaIngreso},
	{"FECHA INGRESO", FieldFechaIngreso},
	{"CHECK IN", FieldFechaIngreso},
	{"FECHA DE SALIDA", FieldFechaSalida},
	{"FECHA SALIDA", FieldFechaSalida},
	{"CHECK OUT", FieldFechaSalida},
	{"HOTEL", FieldHotel},
	{"HOTEL ASIGNADO", FieldHotel},
	{"POS", FieldPOS},
	{"OBSERVACIONES", FieldObservaciones},
	{"OBSERVACION", FieldObservaciones},
	{"VALOR TOTAL", FieldValorTotal},
}

// minFuzzyRunes: headers más cortos solo se aceptan por igualdad.
const minFuzzyRunes = 3

const wildcard = utf8.RuneError

// NormalizeHeader produce la llave de comparación: repara mojibake, quita tildes,
// mayúsculas, puntuación a espacio y espacios colapsados. U+FFFD se conserva como comodín.
func NormalizeHeader(h string) string {
	folded := textnorm.Fold(h)
	cleaned := strings.Map(func(r rune) rune {
		if r == wildcard || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)
	return strings.Join(strings.Fields(cleaned), " ")
}

type Status string

const (
	StatusMapped  Status = "mapped"
	StatusDropped Status = "dropped"
)

type MatchKind string

const (
	MatchExact    MatchKind = "exact"
	MatchWildcard MatchKind = "wildcard"
	MatchContains MatchKind = "contains"
)

// ColumnOutcome cuenta qué pasó con cada columna del archivo.
type ColumnOutcome struct {
	Index  int       `json:"index"`
	Header string    `json:"header"`
	Field  Field     `json:"field,omitempty"`
	Status Status    `json:"status"`
	Match  MatchKind `json:"match,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

type Columns struct {
	Outcomes []ColumnOutcome
	byField  map[Field]int
}

// Index devuelve la posición de la columna asignada al campo.
func (c Columns) Index(f Field) (int, bool) {
	i, ok := c.byField[f]
	return i, ok
}

func (c Columns) Dropped() []ColumnOutcome {
	out := make([]ColumnOutcome, 0)
	for _, o := range c.Outcomes {
		if o.Status == StatusDropped {
			out = append(out, o)
		}
	}
	return out
}

// ResolveColumns asigna cada header a un campo. Si dos columnas caen en el mismo
// campo gana la primera; la otra queda dropped.
func ResolveColumns(headers []string) Columns {
	cols := Columns{
		Outcomes: make([]ColumnOutcome, 0, len(headers)),
		byField:  make(map[Field]int, len(headers)),
	}

	for i, h := range headers {
		out := ColumnOutcome{Index: i, Header: h}

		field, kind, ok := MatchHeader(h)
		switch {
		case !ok:
			out.Status = StatusDropped
			out.Reason = "no matching column"
		default:
			if prev, taken := cols.byField[field]; taken {
				out.Status = StatusDropped
				out.Field = field
				out.Reason = fmt.Sprintf("%s already mapped from column %d", field, prev+1)
			} else {
				out.Status = StatusMapped
				out.Field = field
				out.Match = kind
				cols.byField[field] = i
			}
		}
		cols.Outcomes = append(cols.Outcomes, out)
	}
	return cols
}

// MatchHeader: igualdad exacta; luego igualdad con comodín U+FFFD; luego contención por
// palabras completas. Si el header contiene llaves gana la más larga. Si el header está
// contenido en llaves, todas deben apuntar al mismo campo; si no, es ambiguo y no se asigna.
// Las llaves con ACOMPANANTE solo cuentan cuando el header también lo dice.
func MatchHeader(h string) (Field, MatchKind, bool) {
	key := NormalizeHeader(h)
	if key == "" {
		return "", "", false
	}

	for _, m := range columnMappings {
		if key == m.key {
			return m.field, MatchExact, true
		}
	}

	hr := []rune(key)
	hasWildcard := strings.ContainsRune(key, wildcard)
	if hasWildcard {
		for _, m := range columnMappings {
			kr := []rune(m.key)
			if len(kr) == len(hr) && containsWild(hr, kr) {
				return m.field, MatchWildcard, true
			}
		}
	}

	if len(hr) < minFuzzyRunes {
		return "", "", false
	}

	words := strings.Fields(key)
	if hasWord(words, companionWord) {
		if f, ok := matchCompanion(words); ok {
			return f, MatchContains, true
		}
		return "", "", false
	}
	if f, ok := matchWords(words, false); ok {
		return f, MatchContains, true
	}
	return "", "", false
}

const companionWord = "ACOMPANANTE"

// companionOf: campo del paciente -> mismo dato del acompañante.
var companionOf = map[Field]Field{
	FieldNombreCompleto:        FieldNombreAcompanante,
	FieldTipoDocumento:         FieldTipoDocumentoAcompanante,
	FieldNumeroDocumento:       FieldNumeroDocumentoAcompanante,
	FieldParentescoAcompanante: FieldParentescoAcompanante,
}

// connectors se quitan del resto del header al sacar ACOMPANANTE.
var connectors = map[string]bool{"DE": true, "DEL": true, "LA": true, "EL": true, "AL": true, "CON": true}

func matchCompanion(words []string) (Field, bool) {
	if f, ok := matchWords(words, true); ok {
		return f, true
	}

	rest := make([]string, 0, len(words))
	for _, w := range words {
		if !wildEqual(w, companionWord) {
			rest = append(rest, w)
		}
	}
	for len(rest) > 0 && connectors[rest[len(rest)-1]] {
		rest = rest[:len(rest)-1]
	}
	for len(rest) > 0 && connectors[rest[0]] {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return FieldNombreAcompanante, true
	}

	f, ok := matchWords(rest, false)
	if !ok {
		return "", false
	}
	cf, ok := companionOf[f]
	return cf, ok
}

// matchWords busca entre las llaves del grupo pedido (acompañante o no). La llave
// ACOMPANANTE sola no participa: es demasiado genérica para contención.
func matchWords(words []string, companion bool) (Field, bool) {
	var (
		best    mapping
		bestLen int
	)
	for _, m := range columnMappings {
		kw := strings.Fields(m.key)
		if !eligible(kw, companion) {
			continue
		}
		if n := utf8.RuneCountInString(m.key); containsWords(words, kw) && n > bestLen {
			best = m
			bestLen = n
		}
	}
	if bestLen > 0 {
		return best.field, true
	}

	var found Field
	for _, m := range columnMappings {
		kw := strings.Fields(m.key)
		if !eligible(kw, companion) || !containsWords(kw, words) {
			continue
		}
		if found != "" && found != m.field {
			return "", false
		}
		found = m.field
	}
	return found, found != ""
}

func eligible(keyWords []string, companion bool) bool {
	if len(keyWords) == 1 && keyWords[0] == companionWord {
		return false
	}
	return hasWord(keyWords, companionWord) == companion
}

func hasWord(words []string, w string) bool {
	for _, x := range words {
		if wildEqual(x, w) {
			return true
		}
	}
	return false
}

// containsWords reporta si needle aparece como secuencia contigua de palabras en hay.
func containsWords(hay, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(hay) {
		return false
	}
	for start := 0; start+len(needle) <= len(hay); start++ {
		ok := true
		for j, w := range needle {
			if !wildEqual(hay[start+j], w) {
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

// wildEqual compara dos palabras runa a runa; U+FFFD vale por cualquier runa.
func wildEqual(a, b string) bool {
	ar, br := []rune(a), []rune(b)
	return len(ar) == len(br) && containsWild(ar, br)
}

// containsWild reporta si needle aparece en hay; U+FFFD en cualquiera de los dos vale por una runa.
func containsWild(hay, needle []rune) bool {
	if len(needle) == 0 || len(needle) > len(hay) {
		return false
	}
	for start := 0; start+len(needle) <= len(hay); start++ {
		ok := true
		for j, r := range needle {
			h := hay[start+j]
			if h != r && h != wildcard && r != wildcard {
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
