package reservations

import (
	"time"

	"hotel-reservations/internal/platform/dates"
)

// Details son los datos que llena el formulario de reserva o una fila del cargue masivo.
// Los strings vacíos y los punteros nil se guardan como NULL.
type Details struct {
	// NumeroAutorizacion es la llave natural: no vacía y única en la tabla.
	AuthorizationNumber string `json:"numero_autorizacion"`

	PatientName        string `json:"nombre_completo"`
	DocumentType       string `json:"tipo_documento"`
	DocumentNumber     *int64 `json:"numero_documento"`
	Age                *int   `json:"edad"`
	Regimen            string `json:"regimen"`
	ServiceDescription string `json:"descripcion_servicio"`
	Destination        string `json:"destino"`
	OriginCity         string `json:"ciudad_origen"`
	AuthorizedServices *int   `json:"cantidad_servicios"`
	Email              string `json:"correo"`
	ContactNumber      *int64 `json:"numero_contacto"`

	RequiresCompanion       *bool  `json:"requiere_acompanante"`
	CompanionName           string `json:"nombre_acompanante"`
	CompanionDocumentType   string `json:"tipo_documento_acompanante"`
	CompanionDocumentNumber string `json:"numero_documento_acompanante"`
	CompanionRelationship   string `json:"parentesco_acompanante"`

	AppointmentDate     dates.Date `json:"fecha_cita"`
	AppointmentTime     string     `json:"hora_cita"`
	LastAppointmentDate dates.Date `json:"fecha_ultima_cita"`
	CheckIn             dates.Date `json:"fecha_ingreso"`
	CheckOut            dates.Date `json:"fecha_salida"`
	Hotel               string     `json:"hotel"`
	POS                 *bool      `json:"pos"`
	Observations        string     `json:"observaciones"`
}

// HasCompanion: el acompañante cuenta como ocupante si tiene nombre.
func (d Details) HasCompanion() bool {
	return d.CompanionName != ""
}

// Reservation es el registro de la tabla informs.
// No se borra: cancelar pone Active=false y registra quién y cuándo.
type Reservation struct {
	ID string `json:"id"`

	Details

	TotalPrice *int64 `json:"valor_total"`

	Active      bool       `json:"activo"`
	CreatedBy   string     `json:"creado_por"`
	CancelledBy string     `json:"cancelado_por,omitempty"`
	CancelledAt *time.Time `json:"fecha_cancelacion,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
