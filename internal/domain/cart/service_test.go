package cart_test

import (
	"context"
	"errors"
	"testing"

	"hotel-reservations/internal/adapters/storage/memory"
	"hotel-reservations/internal/domain/cart"
	"hotel-reservations/internal/domain/confirmations"
	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/platform/dates"
)

type fakeConfirmer struct {
	sent []string
	err  error
}

func (f *fakeConfirmer) Send(ctx context.Context, r reservations.Reservation, recipient string) (confirmations.Result, error) {
	if f.err != nil {
		return confirmations.Result{}, f.err
	}
	f.sent = append(f.sent, r.AuthorizationNumber)
	return confirmations.Result{NumeroAutorizacion: r.AuthorizationNumber, Recipient: recipient, Demo: true}, nil
}

func newCart(t *testing.T, confirmer cart.Confirmer) (*cart.Service, *reservations.Service) {
	t.Helper()
	res := reservations.NewService(memory.NewReservationRepo(), pricing.NewTable(nil))
	return cart.NewService(memory.NewCartStore(), res, confirmer, nil), res
}

func draft(numero string) reservations.Details {
	return reservations.Details{
		AuthorizationNumber: numero,
		PatientName:         "Ana Pérez",
		Hotel:               "Ilar 74",
		CheckIn:             dates.MustParse("2024-03-01"),
		CheckOut:            dates.MustParse("2024-03-03"),
	}
}

func TestAdd_QuotesWithPriceTable(t *testing.T) {
	svc, _ := newCart(t, nil)
	ctx := context.Background()

	st, err := svc.Add(ctx, "u1", draft("AUT-1"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(st.Items) != 1 || st.Items[0].ID == "" {
		t.Fatalf("items = %+v", st.Items)
	}
	if got := cart.Total(st); got != 266512 {
		t.Fatalf("total = %d, want 266512", got)
	}

	if _, err := svc.Add(ctx, "u1", draft("AUT-1")); !errors.Is(err, cart.ErrDuplicateItem) {
		t.Fatalf("duplicate err = %v", err)
	}

	unknown := draft("AUT-2")
	unknown.Hotel = "Hotel Inexistente"
	if _, err := svc.Add(ctx, "u1", unknown); !errors.Is(err, pricing.ErrUnknownHotel) {
		t.Fatalf("unknown hotel err = %v", err)
	}

	other, err := svc.Get(ctx, "u2")
	if err != nil || len(other.Items) != 0 {
		t.Fatalf("carrito de otro usuario = %+v, %v", other, err)
	}
}

func TestUpdateAndRemove(t *testing.T) {
	svc, _ := newCart(t, nil)
	ctx := context.Background()

	st, _ := svc.Add(ctx, "u1", draft("AUT-1"))
	id := st.Items[0].ID

	d := draft("AUT-1")
	d.CompanionName = "Luis Pérez"
	st, err := svc.Update(ctx, "u1", id, d)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if st.Items[0].ID != id || st.Items[0].Quote.Occupants != 2 {
		t.Fatalf("item = %+v", st.Items[0])
	}

	if _, err := svc.Update(ctx, "u1", "missing", d); !errors.Is(err, cart.ErrItemNotFound) {
		t.Fatalf("update missing err = %v", err)
	}
	if _, err := svc.Remove(ctx, "u1", "missing"); !errors.Is(err, cart.ErrItemNotFound) {
		t.Fatalf("remove missing err = %v", err)
	}

	st, err = svc.Remove(ctx, "u1", id)
	if err != nil || len(st.Items) != 0 {
		t.Fatalf("Remove = %+v, %v", st, err)
	}
}

func TestCheckout_KeepsFailedItems(t *testing.T) {
	conf := &fakeConfirmer{}
	svc, res := newCart(t, conf)
	ctx := context.Background()

	if _, err := svc.Checkout(ctx, "u1", "ops@example.com"); !errors.Is(err, cart.ErrEmptyCart) {
		t.Fatalf("empty checkout err = %v", err)
	}

	// AUT-2 ya existe: el checkout debe dejarlo en el carrito.
	if _, err := res.Create(ctx, "u0", draft("AUT-2")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Add(ctx, "u1", draft("AUT-1")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, "u1", draft("AUT-2")); err != nil {
		t.Fatal(err)
	}

	out, err := svc.Checkout(ctx, "u1", "ana@example.com")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if len(out.Created) != 1 || out.Created[0].AuthorizationNumber != "AUT-1" {
		t.Fatalf("created = %+v", out.Created)
	}
	if out.Created[0].TotalPrice == nil || *out.Created[0].TotalPrice != 266512 {
		t.Fatalf("total price = %v", out.Created[0].TotalPrice)
	}
	if len(out.Failed) != 1 || out.Failed[0].NumeroAutorizacion != "AUT-2" {
		t.Fatalf("failed = %+v", out.Failed)
	}
	if len(conf.sent) != 1 || conf.sent[0] != "AUT-1" {
		t.Fatalf("confirmaciones = %v", conf.sent)
	}
	if len(out.Cart.Items) != 1 || out.Cart.Items[0].Details.AuthorizationNumber != "AUT-2" {
		t.Fatalf("cart = %+v", out.Cart.Items)
	}

	// El motivo queda guardado en el item hasta que se edite.
	st, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	kept := st.Items[0]
	if kept.LastError == "" || kept.LastError != out.Failed[0].Reason {
		t.Fatalf("last_error = %q, reason = %q", kept.LastError, out.Failed[0].Reason)
	}
	st, err = svc.Update(ctx, "u1", kept.ID, draft("AUT-3"))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if st.Items[0].LastError != "" {
		t.Fatalf("edit must clear last_error: %+v", st.Items[0])
	}
}

func TestCheckout_ConfirmationFailureDoesNotBlock(t *testing.T) {
	svc, _ := newCart(t, &fakeConfirmer{err: errors.New("smtp down")})
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", draft("AUT-9")); err != nil {
		t.Fatal(err)
	}
	out, err := svc.Checkout(ctx, "u1", "ana@example.com")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if len(out.Created) != 1 || len(out.Confirmations) != 0 || len(out.Cart.Items) != 0 {
		t.Fatalf("out = %+v", out)
	}
}
