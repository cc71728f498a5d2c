package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-reservations/internal/domain/confirmations"
	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrItemNotFound  = errors.New("cart item not found")
	ErrDuplicateItem = errors.New("authorization number already in cart")
	ErrEmptyCart     = errors.New("cart is empty")
)

// Confirmer envía la confirmación de cada reserva creada en el checkout.
type Confirmer interface {
	Send(ctx context.Context, r reservations.Reservation, recipient string) (confirmations.Result, error)
}

type Service struct {
	store        Store
	reservations *reservations.Service
	confirmer    Confirmer
	log          logger.Logger
	now          func() time.Time
}

func NewService(store Store, res *reservations.Service, confirmer Confirmer, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:        store,
		reservations: res,
		confirmer:    confirmer,
		log:          log,
		now:          time.Now,
	}
}

func (s *Service) Get(ctx context.Context, userID string) (State, error) {
	if strings.TrimSpace(userID) == "" {
		return State{}, ErrInvalidInput
	}
	return s.store.Get(ctx, userID)
}

// Add cotiza el borrador y lo agrega. El hotel debe estar en la tabla de tarifas.
func (s *Service) Add(ctx context.Context, userID string, d reservations.Details) (State, error) {
	if strings.TrimSpace(userID) == "" {
		return State{}, ErrInvalidInput
	}
	it, err := s.newItem(d)
	if err != nil {
		return State{}, err
	}
	it.ID = uuid.NewString()
	it.AddedAt = s.now()

	return s.store.Update(ctx, userID, func(st State) (State, error) {
		for _, existing := range st.Items {
			if existing.Details.AuthorizationNumber == it.Details.AuthorizationNumber {
				return st, ErrDuplicateItem
			}
		}
		return AddItem(st, it), nil
	})
}

// Update reemplaza el borrador de un item y lo vuelve a cotizar.
func (s *Service) Update(ctx context.Context, userID, itemID string, d reservations.Details) (State, error) {
	if strings.TrimSpace(userID) == "" {
		return State{}, ErrInvalidInput
	}
	next, err := s.newItem(d)
	if err != nil {
		return State{}, err
	}

	return s.store.Update(ctx, userID, func(st State) (State, error) {
		cur, ok := st.Find(itemID)
		if !ok {
			return st, ErrItemNotFound
		}
		for _, other := range st.Items {
			if other.ID != itemID && other.Details.AuthorizationNumber == next.Details.AuthorizationNumber {
				return st, ErrDuplicateItem
			}
		}
		next.ID = cur.ID
		next.AddedAt = cur.AddedAt
		return UpdateItem(st, next), nil
	})
}

func (s *Service) Remove(ctx context.Context, userID, itemID string) (State, error) {
	if strings.TrimSpace(userID) == "" {
		return State{}, ErrInvalidInput
	}
	return s.store.Update(ctx, userID, func(st State) (State, error) {
		if _, ok := st.Find(itemID); !ok {
			return st, ErrItemNotFound
		}
		return RemoveItem(st, itemID), nil
	})
}

func (s *Service) Clear(ctx context.Context, userID string) (State, error) {
	if strings.TrimSpace(userID) == "" {
		return State{}, ErrInvalidInput
	}
	return s.store.Update(ctx, userID, func(State) (State, error) {
		return Clear(), nil
	})
}

type ItemError struct {
	ItemID             string `json:"item_id"`
	NumeroAutorizacion string `json:"numero_autorizacion"`
	Reason             string `json:"reason"`
}

type CheckoutResult struct {
	Created       []reservations.Reservation `json:"created"`
	Failed        []ItemError                `json:"failed"`
	Confirmations []confirmations.Result     `json:"confirmations"`
	Cart          State                      `json:"cart"`
}

// Checkout crea una reserva por item. Los items creados salen del carrito;
// los que fallan se quedan con su motivo. La confirmación por correo es best effort.
func (s *Service) Checkout(ctx context.Context, userID, recipient string) (CheckoutResult, error) {
	st, err := s.Get(ctx, userID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if len(st.Items) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	log := logger.FromContext(ctx, s.log).With(map[string]any{"user_id": userID})
	out := CheckoutResult{
		Created:       []reservations.Reservation{},
		Failed:        []ItemError{},
		Confirmations: []confirmations.Result{},
	}
	done := map[string]struct{}{}
	failed := map[string]string{}

	for _, it := range st.Items {
		res, err := s.reservations.Create(ctx, userID, it.Details)
		if err != nil {
			out.Failed = append(out.Failed, ItemError{
				ItemID:             it.ID,
				NumeroAutorizacion: it.Details.AuthorizationNumber,
				Reason:             err.Error(),
			})
			failed[it.ID] = err.Error()
			continue
		}
		out.Created = append(out.Created, res)
		done[it.ID] = struct{}{}

		if s.confirmer == nil || strings.TrimSpace(recipient) == "" {
			continue
		}
		conf, err := s.confirmer.Send(ctx, res, recipient)
		if err != nil {
			log.Warn("checkout confirmation failed", map[string]any{
				"numero_autorizacion": res.AuthorizationNumber,
				"err":                 err,
			})
			continue
		}
		out.Confirmations = append(out.Confirmations, conf)
	}

	out.Cart, err = s.store.Update(ctx, userID, func(cur State) (State, error) {
		next := cur
		for id := range done {
			next = RemoveItem(next, id)
		}
		for id, reason := range failed {
			if it, ok := next.Find(id); ok {
				it.LastError = reason
				next = UpdateItem(next, it)
			}
		}
		return next, nil
	})
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("update cart: %w", err)
	}

	log.Info("checkout finished", map[string]any{
		"created": len(out.Created),
		"failed":  len(out.Failed),
	})
	return out, nil
}

func (s *Service) newItem(d reservations.Details) (Item, error) {
	d.AuthorizationNumber = strings.TrimSpace(d.AuthorizationNumber)
	d.PatientName = strings.TrimSpace(d.PatientName)
	if d.AuthorizationNumber == "" || d.PatientName == "" {
		return Item{}, fmt.Errorf("%w: numero_autorizacion and nombre_completo are required", ErrInvalidInput)
	}
	if !d.CheckIn.IsZero() && !d.CheckOut.IsZero() && d.CheckOut.Before(d.CheckIn) {
		return Item{}, fmt.Errorf("%w: fecha_salida is before fecha_ingreso", ErrInvalidInput)
	}

	q, err := s.reservations.Prices().Quote(d.Hotel, pricing.Occupants(d.HasCompanion()), d.CheckIn, d.CheckOut)
	if err != nil {
		return Item{}, err
	}
	return Item{Details: d, Quote: q}, nil
}
