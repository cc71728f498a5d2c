package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"hotel-reservations/internal/domain/reservations"
)

type reservationRepo struct {
	mu       sync.RWMutex
	byNumero map[string]reservations.Reservation
}

func NewReservationRepo() reservations.Repository {
	return &reservationRepo{
		byNumero: make(map[string]reservations.Reservation),
	}
}

func (r *reservationRepo) Create(ctx context.Context, res reservations.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(res.AuthorizationNumber) == "" {
		return errors.New("numero_autorizacion required")
	}
	if _, exists := r.byNumero[res.AuthorizationNumber]; exists {
		return reservations.ErrDuplicate
	}
	r.byNumero[res.AuthorizationNumber] = res
	return nil
}

func (r *reservationRepo) CreateBatch(ctx context.Context, rs []reservations.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Se valida todo antes de escribir: todo o nada.
	seen := make(map[string]struct{}, len(rs))
	for _, res := range rs {
		n := res.AuthorizationNumber
		if strings.TrimSpace(n) == "" {
			return errors.New("numero_autorizacion required")
		}
		if _, exists := r.byNumero[n]; exists {
			return reservations.ErrDuplicate
		}
		if _, dup := seen[n]; dup {
			return reservations.ErrDuplicate
		}
		seen[n] = struct{}{}
	}
	for _, res := range rs {
		r.byNumero[res.AuthorizationNumber] = res
	}
	return nil
}

func (r *reservationRepo) Update(ctx context.Context, res reservations.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byNumero[res.AuthorizationNumber]; !exists {
		return reservations.ErrNotFound
	}
	r.byNumero[res.AuthorizationNumber] = res
	return nil
}

func (r *reservationRepo) GetByAuthorization(ctx context.Context, numero string) (reservations.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.byNumero[numero]
	if !ok {
		return reservations.Reservation{}, reservations.ErrNotFound
	}
	return res, nil
}

func (r *reservationRepo) List(ctx context.Context, f reservations.ListFilter) ([]reservations.Reservation, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Misma semántica que ILIKE en postgres: sin distinguir mayúsculas, con tildes.
	q := strings.ToLower(strings.TrimSpace(f.Query))

	matched := make([]reservations.Reservation, 0)
	for _, res := range r.byNumero {
		if !f.IncludeInactive && !res.Active {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(res.PatientName), q) &&
			!strings.Contains(strings.ToLower(res.AuthorizationNumber), q) &&
			!strings.Contains(strings.ToLower(res.CompanionName), q) {
			continue
		}
		matched = append(matched, res)
	}

	// Más recientes primero, como en postgres.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].AuthorizationNumber < matched[j].AuthorizationNumber
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if f.Offset >= total {
		return []reservations.Reservation{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

func (r *reservationRepo) ExistingAuthorizations(ctx context.Context, numeros []string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]bool, len(numeros))
	for _, n := range numeros {
		if _, ok := r.byNumero[n]; ok {
			out[n] = true
		}
	}
	return out, nil
}
