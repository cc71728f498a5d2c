package reservations

import "context"

type Repository interface {
	Create(ctx context.Context, r Reservation) error
	// CreateBatch inserta todo o nada.
	CreateBatch(ctx context.Context, rs []Reservation) error
	Update(ctx context.Context, r Reservation) error
	GetByAuthorization(ctx context.Context, numero string) (Reservation, error)
	List(ctx context.Context, filter ListFilter) ([]Reservation, int, error)
	// ExistingAuthorizations responde en una sola consulta cuáles números ya existen.
	ExistingAuthorizations(ctx context.Context, numeros []string) (map[string]bool, error)
}

type ListFilter struct {
	// Query: substring (ILIKE) sobre nombre del paciente, número de autorización y acompañante.
	Query           string
	IncludeInactive bool
	Limit           int
	Offset          int
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Normalize aplica los límites de paginación.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
