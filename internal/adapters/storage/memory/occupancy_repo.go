package memory

import (
	"context"
	"sort"
	"sync"

	"hotel-reservations/internal/domain/occupancy"
	"hotel-reservations/internal/platform/dates"
)

type occupancyRepo struct {
	mu    sync.RWMutex
	byKey map[occupancy.Key]occupancy.Projection
}

func NewOccupancyRepo() occupancy.Repository {
	return &occupancyRepo{
		byKey: make(map[occupancy.Key]occupancy.Projection),
	}
}

func (r *occupancyRepo) Upsert(ctx context.Context, ps []occupancy.Projection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range ps {
		r.byKey[p.Key()] = p
	}
	return nil
}

func (r *occupancyRepo) Lookup(ctx context.Context, keys []occupancy.Key) (map[occupancy.Key]occupancy.Projection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[occupancy.Key]occupancy.Projection, len(keys))
	for _, k := range keys {
		if p, ok := r.byKey[k]; ok {
			out[k] = p
		}
	}
	return out, nil
}

func (r *occupancyRepo) ListRange(ctx context.Context, hotel string, from, to dates.Date) ([]occupancy.Projection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]occupancy.Projection, 0)
	for _, p := range r.byKey {
		if hotel != "" && p.Hotel != hotel {
			continue
		}
		if !from.IsZero() && p.Date.Before(from) {
			continue
		}
		if !to.IsZero() && to.Before(p.Date) {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Hotel != out[j].Hotel {
			return out[i].Hotel < out[j].Hotel
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
