package memory

import (
	"context"
	"sync"

	"hotel-reservations/internal/domain/cart"
)

type cartStore struct {
	mu     sync.RWMutex
	byUser map[string]cart.State
}

// NewCartStore guarda los carritos en proceso; se pierden al reiniciar.
func NewCartStore() cart.Store {
	return &cartStore{
		byUser: make(map[string]cart.State),
	}
}

func (s *cartStore) Get(ctx context.Context, userID string) (cart.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byUser[userID]
	if !ok {
		return cart.Clear(), nil
	}
	return copyState(st), nil
}

func (s *cartStore) Update(ctx context.Context, userID string, fn func(cart.State) (cart.State, error)) (cart.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byUser[userID]
	if !ok {
		cur = cart.Clear()
	}
	next, err := fn(copyState(cur))
	if err != nil {
		return copyState(cur), err
	}
	if len(next.Items) == 0 {
		delete(s.byUser, userID)
		return cart.Clear(), nil
	}
	s.byUser[userID] = copyState(next)
	return copyState(next), nil
}

func copyState(st cart.State) cart.State {
	items := make([]cart.Item, len(st.Items))
	copy(items, st.Items)
	return cart.State{Items: items}
}
