package cart

import (
	"testing"

	"hotel-reservations/internal/domain/pricing"
)

func TestReducers_DoNotMutateInput(t *testing.T) {
	base := AddItem(Clear(), Item{ID: "a", Quote: pricing.Quote{Total: 100}})
	withB := AddItem(base, Item{ID: "b", Quote: pricing.Quote{Total: 50}})

	if len(base.Items) != 1 {
		t.Fatalf("AddItem mutó el estado original: %d items", len(base.Items))
	}
	if got := Total(withB); got != 150 {
		t.Fatalf("Total = %d, want 150", got)
	}

	updated := UpdateItem(withB, Item{ID: "a", Quote: pricing.Quote{Total: 10}})
	if withB.Items[0].Quote.Total != 100 {
		t.Fatalf("UpdateItem mutó el estado original")
	}
	if updated.Items[0].ID != "a" || Total(updated) != 60 {
		t.Fatalf("UpdateItem = %+v", updated.Items)
	}

	removed := RemoveItem(updated, "a")
	if len(removed.Items) != 1 || removed.Items[0].ID != "b" {
		t.Fatalf("RemoveItem = %+v", removed.Items)
	}
	if len(updated.Items) != 2 {
		t.Fatalf("RemoveItem mutó el estado original")
	}

	if same := RemoveItem(removed, "missing"); len(same.Items) != 1 {
		t.Fatalf("RemoveItem de un id inexistente cambió el estado")
	}
	if Total(Clear()) != 0 {
		t.Fatalf("Clear no quedó vacío")
	}
}
