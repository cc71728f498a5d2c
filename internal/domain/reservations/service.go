package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/platform/dates"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("reservation not found")
	ErrDuplicate    = errors.New("reservation already exists")
	ErrCancelled    = errors.New("reservation is cancelled")
)

type Service struct {
	repo   Repository
	prices *pricing.Table
	now    func() time.Time
}

func NewService(repo Repository, prices *pricing.Table) *Service {
	if prices == nil {
		prices = pricing.NewTable(nil)
	}
	return &Service{
		repo:   repo,
		prices: prices,
		now:    time.Now,
	}
}

func (s *Service) Prices() *pricing.Table {
	return s.prices
}

// Create es el camino del formulario de reserva.
func (s *Service) Create(ctx context.Context, userID string, d Details) (Reservation, error) {
	if strings.TrimSpace(userID) == "" {
		return Reservation{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	d = clean(d)
	if err := checkRequired(d); err != nil {
		return Reservation{}, err
	}
	if d.RequiresCompanion != nil && *d.RequiresCompanion {
		if d.CompanionName == "" || d.CompanionDocumentNumber == "" {
			return Reservation{}, fmt.Errorf("%w: nombre_acompanante and numero_documento_acompanante are required", ErrInvalidInput)
		}
	}
	if err := checkStay(d); err != nil {
		return Reservation{}, err
	}

	r := s.newReservation(userID, d)
	if err := s.repo.Create(ctx, r); err != nil {
		return Reservation{}, err
	}
	return r, nil
}

// CreateBatch es el camino del cargue masivo: los registros ya pasaron la validación
// de filas, aquí solo se completan id, auditoría y precio (si la fila no trae valor_total).
// Inserta todo o nada.
func (s *Service) CreateBatch(ctx context.Context, userID string, items []Reservation) ([]Reservation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	if len(items) == 0 {
		return []Reservation{}, nil
	}

	out := make([]Reservation, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		d := clean(item.Details)
		if err := checkRequired(d); err != nil {
			return nil, err
		}
		if _, ok := seen[d.AuthorizationNumber]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, d.AuthorizationNumber)
		}
		seen[d.AuthorizationNumber] = struct{}{}

		r := s.newReservation(userID, d)
		if item.TotalPrice != nil && *item.TotalPrice >= 0 && r.TotalPrice == nil {
			v := *item.TotalPrice
			r.TotalPrice = &v
		}
		out = append(out, r)
	}

	if err := s.repo.CreateBatch(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, numero string) (Reservation, error) {
	numero = strings.TrimSpace(numero)
	if numero == "" {
		return Reservation{}, ErrNotFound
	}
	return s.repo.GetByAuthorization(ctx, numero)
}

// UpdateInput: nil = no tocar. Fechas vacías limpian el valor.
type UpdateInput struct {
	CheckIn             *dates.Date
	CheckOut            *dates.Date
	AppointmentDate     *dates.Date
	AppointmentTime     *string
	LastAppointmentDate *dates.Date
	Hotel               *string
	Email               *string
	Observations        *string

	CompanionName           *string
	CompanionDocumentType   *string
	CompanionDocumentNumber *string
	CompanionRelationship   *string

	// TotalPrice fija el valor a mano; si es nil se recalcula con la tabla de tarifas.
	TotalPrice *int64
}

// Update es la edición administrativa.
func (s *Service) Update(ctx context.Context, numero string, in UpdateInput) (Reservation, error) {
	r, err := s.Get(ctx, numero)
	if err != nil {
		return Reservation{}, err
	}
	if !r.Active {
		return Reservation{}, ErrCancelled
	}

	d := r.Details
	if in.CheckIn != nil {
		d.CheckIn = *in.CheckIn
	}
	if in.CheckOut != nil {
		d.CheckOut = *in.CheckOut
	}
	if in.AppointmentDate != nil {
		d.AppointmentDate = *in.AppointmentDate
	}
	if in.LastAppointmentDate != nil {
		d.LastAppointmentDate = *in.LastAppointmentDate
	}
	setString(&d.AppointmentTime, in.AppointmentTime)
	setString(&d.Hotel, in.Hotel)
	setString(&d.Email, in.Email)
	setString(&d.Observations, in.Observations)
	setString(&d.CompanionName, in.CompanionName)
	setString(&d.CompanionDocumentType, in.CompanionDocumentType)
	setString(&d.CompanionDocumentNumber, in.CompanionDocumentNumber)
	setString(&d.CompanionRelationship, in.CompanionRelationship)

	if err := checkStay(d); err != nil {
		return Reservation{}, err
	}
	if in.TotalPrice != nil && *in.TotalPrice < 0 {
		return Reservation{}, fmt.Errorf("%w: valor_total must be >= 0", ErrInvalidInput)
	}

	r.Details = d
	if in.TotalPrice != nil {
		v := *in.TotalPrice
		r.TotalPrice = &v
	} else {
		r.TotalPrice = s.price(d)
	}
	r.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, r); err != nil {
		return Reservation{}, err
	}
	return r, nil
}

// Cancel desactiva la reserva. Cancelar dos veces no cambia nada.
func (s *Service) Cancel(ctx context.Context, numero, userID string) (Reservation, error) {
	if strings.TrimSpace(userID) == "" {
		return Reservation{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	r, err := s.Get(ctx, numero)
	if err != nil {
		return Reservation{}, err
	}
	if !r.Active {
		return r, nil
	}

	now := s.now()
	r.Active = false
	r.CancelledBy = userID
	r.CancelledAt = &now
	r.UpdatedAt = now

	if err := s.repo.Update(ctx, r); err != nil {
		return Reservation{}, err
	}
	return r, nil
}

type Page struct {
	Items  []Reservation `json:"items"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func (s *Service) List(ctx context.Context, f ListFilter) (Page, error) {
	f = f.Normalize()
	f.Query = strings.TrimSpace(f.Query)

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []Reservation{}
	}
	return Page{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (s *Service) ExistingAuthorizations(ctx context.Context, numeros []string) (map[string]bool, error) {
	uniq := make([]string, 0, len(numeros))
	seen := make(map[string]struct{}, len(numeros))
	for _, n := range numeros {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		uniq = append(uniq, n)
	}
	if len(uniq) == 0 {
		return map[string]bool{}, nil
	}
	return s.repo.ExistingAuthorizations(ctx, uniq)
}

// Quote cotiza la reserva con la misma tabla que el formulario y el voucher.
func (s *Service) Quote(r Reservation) (pricing.Quote, error) {
	return s.prices.Quote(r.Hotel, pricing.Occupants(r.HasCompanion()), r.CheckIn, r.CheckOut)
}

func (s *Service) newReservation(userID string, d Details) Reservation {
	now := s.now()
	return Reservation{
		ID:         uuid.NewString(),
		Details:    d,
		TotalPrice: s.price(d),
		Active:     true,
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// price devuelve nil si el hotel no está en la tabla.
func (s *Service) price(d Details) *int64 {
	q, err := s.prices.Quote(d.Hotel, pricing.Occupants(d.HasCompanion()), d.CheckIn, d.CheckOut)
	if err != nil {
		return nil
	}
	v := q.Total
	return &v
}

func checkRequired(d Details) error {
	if d.AuthorizationNumber == "" {
		return fmt.Errorf("%w: numero_autorizacion is required", ErrInvalidInput)
	}
	if d.PatientName == "" {
		return fmt.Errorf("%w: nombre_completo is required", ErrInvalidInput)
	}
	return nil
}

func checkStay(d Details) error {
	if !d.CheckIn.IsZero() && !d.CheckOut.IsZero() && d.CheckOut.Before(d.CheckIn) {
		return fmt.Errorf("%w: fecha_salida is before fecha_ingreso", ErrInvalidInput)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func clean(d Details) Details {
	for _, p := range []*string{
		&d.AuthorizationNumber, &d.PatientName, &d.DocumentType, &d.Regimen,
		&d.ServiceDescription, &d.Destination, &d.OriginCity, &d.Email,
		&d.CompanionName, &d.CompanionDocumentType, &d.CompanionDocumentNumber,
		&d.CompanionRelationship, &d.AppointmentTime, &d.Hotel, &d.Observations,
	} {
		*p = strings.TrimSpace(*p)
	}
	return d
}
