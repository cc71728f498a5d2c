package imports

import (
	"context"
	"regexp"

	"hotel-reservations/internal/domain/occupancy"
	"hotel-reservations/internal/platform/dates"
)

const (
	ReasonDuplicateInBatch   = "duplicate in batch"
	ReasonAlreadyExists      = "already exists"
	ReasonNoAvailability     = "no availability"
	ReasonExistenceCheck     = "existence check failed"
	ReasonAvailabilityCheck  = "availability check failed"
	ReasonMissingName        = "nombre_completo is required"
	ReasonInvalidEmail       = "correo has an invalid format"
	ReasonAgeOutOfRange      = "edad must be between 0 and 120"
	ReasonCheckOutBeforeIn   = "fecha_salida is before fecha_ingreso"
	reasonMissingAuthorizing = "numero_autorizacion is required"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Invalid struct {
	Row                int      `json:"row"`
	NumeroAutorizacion string   `json:"numero_autorizacion,omitempty"`
	Reasons            []string `json:"reasons"`
}

type BasicResult struct {
	Valid   []Record  `json:"valid"`
	Invalid []Invalid `json:"invalid"`
}

// ValidateBasic revisa cada registro por separado; nunca falla.
func ValidateBasic(records []Record) BasicResult {
	res := BasicResult{
		Valid:   make([]Record, 0, len(records)),
		Invalid: make([]Invalid, 0),
	}
	for _, rec := range records {
		reasons := basicReasons(rec)
		if len(reasons) > 0 {
			res.Invalid = append(res.Invalid, Invalid{
				Row:                rec.Row,
				NumeroAutorizacion: rec.AuthorizationNumber,
				Reasons:            reasons,
			})
			continue
		}
		res.Valid = append(res.Valid, rec)
	}
	return res
}

func basicReasons(rec Record) []string {
	var reasons []string
	if rec.AuthorizationNumber == "" {
		reasons = append(reasons, reasonMissingAuthorizing)
	}
	if rec.PatientName == "" {
		reasons = append(reasons, ReasonMissingName)
	}
	if rec.Email != "" && !emailRe.MatchString(rec.Email) {
		reasons = append(reasons, ReasonInvalidEmail)
	}
	if rec.Age != nil && (*rec.Age < 0 || *rec.Age > 120) {
		reasons = append(reasons, ReasonAgeOutOfRange)
	}
	for _, fe := range rec.FieldErrors {
		reasons = append(reasons, fe.String())
	}
	if !rec.CheckIn.IsZero() && !rec.CheckOut.IsZero() && rec.CheckOut.Before(rec.CheckIn) {
		reasons = append(reasons, ReasonCheckOutBeforeIn)
	}
	return reasons
}

// AuthorizationLookup responde qué números ya existen en el store.
type AuthorizationLookup interface {
	ExistingAuthorizations(ctx context.Context, numeros []string) (map[string]bool, error)
}

// AvailabilityLookup consulta la proyección de ocupación por hotel y fecha.
type AvailabilityLookup interface {
	KeyFor(hotel string, date dates.Date) occupancy.Key
	Availability(ctx context.Context, keys []occupancy.Key) (map[occupancy.Key]occupancy.Projection, error)
}

type Rejected struct {
	Row                int      `json:"row"`
	NumeroAutorizacion string   `json:"numero_autorizacion"`
	Reasons            []string `json:"reasons"`
	Record             Record   `json:"record"`
}

type AdvancedResult struct {
	Valid    []Record   `json:"valid"`
	Rejected []Rejected `json:"rejected"`
}

type Validator struct {
	existing     AuthorizationLookup
	availability AvailabilityLookup
}

// NewValidator: availability puede ser nil (sin proyección cargada no se bloquea nada).
func NewValidator(existing AuthorizationLookup, availability AvailabilityLookup) *Validator {
	return &Validator{existing: existing, availability: availability}
}

// ValidateAdvanced cruza el lote consigo mismo y con el backend. Las consultas van en
// lote (una para existencia, una para ocupación). Un fallo del backend no es error:
// queda como motivo de rechazo en las filas afectadas.
func (v *Validator) ValidateAdvanced(ctx context.Context, records []Record) AdvancedResult {
	reasons := make([][]string, len(records))

	counts := make(map[string]int, len(records))
	for _, rec := range records {
		counts[rec.AuthorizationNumber]++
	}
	for i, rec := range records {
		if counts[rec.AuthorizationNumber] > 1 {
			reasons[i] = append(reasons[i], ReasonDuplicateInBatch)
		}
	}

	if v.existing != nil && len(records) > 0 {
		numeros := make([]string, 0, len(counts))
		for n := range counts {
			numeros = append(numeros, n)
		}
		existing, err := v.existing.ExistingAuthorizations(ctx, numeros)
		for i, rec := range records {
			switch {
			case err != nil:
				reasons[i] = append(reasons[i], ReasonExistenceCheck)
			case existing[rec.AuthorizationNumber]:
				reasons[i] = append(reasons[i], ReasonAlreadyExists)
			}
		}
	}

	if v.availability != nil {
		keys := make([]occupancy.Key, len(records))
		batch := make([]occupancy.Key, 0, len(records))
		for i, rec := range records {
			if rec.Hotel == "" || rec.CheckIn.IsZero() {
				continue
			}
			keys[i] = v.availability.KeyFor(rec.Hotel, rec.CheckIn)
			batch = append(batch, keys[i])
		}
		if len(batch) > 0 {
			projections, err := v.availability.Availability(ctx, batch)
			for i := range records {
				if keys[i].Hotel == "" {
					continue
				}
				if err != nil {
					reasons[i] = append(reasons[i], ReasonAvailabilityCheck)
					continue
				}
				// Sin proyección para ese día se asume disponibilidad.
				if p, ok := projections[keys[i]]; ok && !p.HasAvailability() {
					reasons[i] = append(reasons[i], ReasonNoAvailability)
				}
			}
		}
	}

	res := AdvancedResult{
		Valid:    make([]Record, 0, len(records)),
		Rejected: make([]Rejected, 0),
	}
	for i, rec := range records {
		if len(reasons[i]) == 0 {
			res.Valid = append(res.Valid, rec)
			continue
		}
		res.Rejected = append(res.Rejected, Rejected{
			Row:                rec.Row,
			NumeroAutorizacion: rec.AuthorizationNumber,
			Reasons:            reasons[i],
			Record:             rec,
		})
	}
	return res
}
