package occupancy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/platform/dates"
	"hotel-reservations/internal/platform/textnorm"
)

var (
	ErrInvalidInput = errors.New("invalid input")
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

// NormalizeHotel lleva el nombre a la key de la tabla de tarifas si la resuelve;
// si no, al texto plegado (mayúsculas, sin tildes).
func (s *Service) NormalizeHotel(hotel string) string {
	if h, ok := s.prices.Resolve(hotel); ok {
		return h.Key
	}
	return textnorm.Fold(hotel)
}

func (s *Service) KeyFor(hotel string, date dates.Date) Key {
	return Key{Hotel: s.NormalizeHotel(hotel), Date: date}
}

// Upsert carga proyecciones en bloque.
func (s *Service) Upsert(ctx context.Context, ps []Projection) ([]Projection, error) {
	now := s.now()
	out := make([]Projection, 0, len(ps))
	for i, p := range ps {
		p.Hotel = s.NormalizeHotel(p.Hotel)
		if p.Hotel == "" {
			return nil, fmt.Errorf("%w: item %d: hotel is required", ErrInvalidInput, i)
		}
		if p.Date.IsZero() {
			return nil, fmt.Errorf("%w: item %d: fecha is required", ErrInvalidInput, i)
		}
		if p.Available < 0 {
			return nil, fmt.Errorf("%w: item %d: disponibles must be >= 0", ErrInvalidInput, i)
		}
		if p.AvailablePct < 0 || p.AvailablePct > 100 {
			return nil, fmt.Errorf("%w: item %d: disponible_pct must be within [0,100]", ErrInvalidInput, i)
		}
		p.UpdatedAt = now
		out = append(out, p)
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := s.repo.Upsert(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Availability consulta un lote de llaves (ya normalizadas con KeyFor).
func (s *Service) Availability(ctx context.Context, keys []Key) (map[Key]Projection, error) {
	uniq := make([]Key, 0, len(keys))
	seen := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		if k.Hotel == "" || k.Date.IsZero() {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	if len(uniq) == 0 {
		return map[Key]Projection{}, nil
	}
	return s.repo.Lookup(ctx, uniq)
}

func (s *Service) List(ctx context.Context, hotel string, from, to dates.Date) ([]Projection, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}
	h := ""
	if hotel != "" {
		h = s.NormalizeHotel(hotel)
	}
	return s.repo.ListRange(ctx, h, from, to)
}
