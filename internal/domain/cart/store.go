package cart

import "context"

// Store guarda un State por usuario. Update aplica fn de forma atómica.
type Store interface {
	Get(ctx context.Context, userID string) (State, error)
	Update(ctx context.Context, userID string, fn func(State) (State, error)) (State, error)
}
