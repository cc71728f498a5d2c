package imports

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/platform/dates"
	"hotel-reservations/internal/platform/textnorm"

	"github.com/xuri/excelize/v2"
)

const ReasonMissingAuthorization = "missing numero_autorizacion"

// FieldError: celda que no se pudo convertir; el campo queda en null.
type FieldError struct {
	Field  Field  `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s %q", e.Field, e.Reason, e.Value)
}

// Record es una fila ya tipada, lista para validar.
type Record struct {
	// Row es la línea del archivo (el header es la línea 1).
	Row int `json:"row"`

	reservations.Details

	TotalPrice *int64 `json:"valor_total"`
	CreatedBy  string `json:"creado_por"`

	FieldErrors []FieldError `json:"field_errors,omitempty"`
}

// Reservation arma la reserva que se entrega a CreateBatch.
func (r Record) Reservation() reservations.Reservation {
	return reservations.Reservation{
		Details:    r.Details,
		TotalPrice: r.TotalPrice,
	}
}

// Transform convierte una fila. ok=false si la fila no trae numero_autorizacion
// (se descarta, no es un error de validación).
func Transform(row Row, cols Columns, userID string) (Record, bool) {
	rec := Record{Row: row.Line, CreatedBy: userID}

	cell := func(f Field) string {
		i, ok := cols.Index(f)
		if !ok || i >= len(row.Cells) {
			return ""
		}
		return strings.TrimSpace(row.Cells[i])
	}
	date := func(f Field) dates.Date {
		raw := cell(f)
		if raw == "" {
			return dates.Date{}
		}
		d, ok := parseDateCell(raw)
		if !ok {
			rec.FieldErrors = append(rec.FieldErrors, FieldError{Field: f, Value: raw, Reason: "invalid date"})
		}
		return d
	}

	d := &rec.Details
	d.AuthorizationNumber = cell(FieldNumeroAutorizacion)
	d.PatientName = cell(FieldNombreCompleto)
	d.DocumentType = cell(FieldTipoDocumento)
	d.DocumentNumber = parseInt64(cell(FieldNumeroDocumento))
	d.Age = parseInt(cell(FieldEdad))
	d.Regimen = cell(FieldRegimen)
	d.ServiceDescription = cell(FieldDescripcionServicio)
	d.Destination = cell(FieldDestino)
	d.OriginCity = cell(FieldCiudadOrigen)
	d.AuthorizedServices = parseInt(cell(FieldCantidadServicios))
	d.Email = cell(FieldCorreo)
	d.ContactNumber = parseInt64(cell(FieldNumeroContacto))
	d.RequiresCompanion = parseBool(cell(FieldRequiereAcompanante))
	d.CompanionName = cell(FieldNombreAcompanante)
	d.CompanionDocumentType = cell(FieldTipoDocumentoAcompanante)
	d.CompanionDocumentNumber = cell(FieldNumeroDocumentoAcompanante)
	d.CompanionRelationship = cell(FieldParentescoAcompanante)
	d.AppointmentDate = date(FieldFechaCita)
	d.AppointmentTime = parseTimeCell(cell(FieldHoraCita))
	d.LastAppointmentDate = date(FieldFechaUltimaCita)
	d.CheckIn = date(FieldFechaIngreso)
	d.CheckOut = date(FieldFechaSalida)
	d.Hotel = cell(FieldHotel)
	d.POS = parseBool(cell(FieldPOS))
	d.Observations = cell(FieldObservaciones)
	rec.TotalPrice = parseInt64(cell(FieldValorTotal))

	if d.AuthorizationNumber == "" {
		return Record{}, false
	}
	return rec, true
}

// TransformAll devuelve los registros y el outcome de las filas descartadas.
func TransformAll(t Table, cols Columns, userID string) ([]Record, []RowOutcome) {
	records := make([]Record, 0, len(t.Rows))
	dropped := make([]RowOutcome, 0)
	for _, row := range t.Rows {
		rec, ok := Transform(row, cols, userID)
		if !ok {
			dropped = append(dropped, RowOutcome{
				Row:     row.Line,
				Status:  RowDropped,
				Reasons: []string{ReasonMissingAuthorization},
			})
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

// parseInt64 acepta enteros y números enteros escritos como decimal ("25.0" de hojas de cálculo).
func parseInt64(s string) *int64 {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return nil
	}
	n := int64(f)
	return &n
}

func parseInt(s string) *int {
	n := parseInt64(s)
	if n == nil || *n > math.MaxInt32 || *n < math.MinInt32 {
		return nil
	}
	v := int(*n)
	return &v
}

// parseBool: true solo para si/sí/yes/1; cualquier otro valor no vacío es false.
func parseBool(s string) *bool {
	if s == "" {
		return nil
	}
	var v bool
	switch textnorm.Fold(s) {
	case "SI", "YES", "1":
		v = true
	}
	return &v
}

// Seriales de Excel entre 1954 y 2119; fuera de ese rango se tratan como texto.
const (
	minExcelSerial = 20000
	maxExcelSerial = 80000
)

// parseDateCell acepta los formatos de texto de dates.Parse y seriales de Excel
// (las celdas XLSX se leen sin formato).
func parseDateCell(s string) (dates.Date, bool) {
	if d, ok := dates.Parse(s); ok {
		return d, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < minExcelSerial || f > maxExcelSerial {
		return dates.Date{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return dates.Date{}, false
	}
	return dates.FromTime(t), true
}

// parseTimeCell convierte fracciones de día de Excel (0.375) a HH:MM; el resto pasa igual.
func parseTimeCell(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || f >= 1 || !strings.Contains(s, ".") {
		return s
	}
	mins := int(math.Round(f * 24 * 60))
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
