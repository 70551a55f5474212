package server

import "testing"

func TestEmptyCartTotalsAreZero(t *testing.T) {
	items := NewMemoryItemStore()
	c := Cart{ID: 1}

	qty, err := CartQuantity(c, items)
	if err != nil {
		t.Fatalf("quantity: %v", err)
	}
	if qty != 0 {
		t.Errorf("quantity = %d, want 0", qty)
	}
	price, err := CartPrice(c, items)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if price != 0 {
		t.Errorf("price = %v, want 0", price)
	}
}

func TestCartTotalsAccumulate(t *testing.T) {
	items := NewMemoryItemStore()
	carts := NewMemoryCartStore()

	a, _ := items.Create("a", 10)
	b, _ := items.Create("b", 20)
	id, _ := carts.Create()
	_ = carts.AddItem(id, a.ID)
	_ = carts.AddItem(id, b.ID)
	_ = carts.AddItem(id, a.ID)

	c, _ := carts.Get(id)
	qty, _ := CartQuantity(c, items)
	if qty != 3 {
		t.Errorf("quantity = %d, want 3", qty)
	}
	price, _ := CartPrice(c, items)
	if price != 40 {
		t.Errorf("price = %v, want 40", price)
	}
}

func TestSoftDeleteDropsContributionButKeepsListing(t *testing.T) {
	items := NewMemoryItemStore()
	carts := NewMemoryCartStore()

	a, _ := items.Create("a", 10)
	b, _ := items.Create("b", 20)
	id, _ := carts.Create()
	_ = carts.AddItem(id, a.ID)
	_ = carts.AddItem(id, b.ID)
	_ = carts.AddItem(id, a.ID)

	if err := items.SoftDelete(b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	c, _ := carts.Get(id)
	qty, _ := CartQuantity(c, items)
	if qty != 2 {
		t.Errorf("quantity = %d, want 2 after deleting b", qty)
	}
	price, _ := CartPrice(c, items)
	if price != 20 {
		t.Errorf("price = %v, want 20 after deleting b", price)
	}

	view, err := BuildCartView(c, items)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(view.Items) != 2 {
		t.Fatalf("view lists %d entries, want 2", len(view.Items))
	}
	if view.Items[1].ID != b.ID || view.Items[1].Available {
		t.Errorf("deleted item entry %+v, want available=false", view.Items[1])
	}
	if view.Items[0].ID != a.ID || !view.Items[0].Available || view.Items[0].Quantity != 2 {
		t.Errorf("live item entry %+v", view.Items[0])
	}
	if view.Price != 20 {
		t.Errorf("view price = %v, want 20", view.Price)
	}

	// The cart's own mapping stays intact.
	c2, _ := carts.Get(id)
	if len(c2.Lines) != 2 || c2.Lines[1].Quantity != 1 {
		t.Errorf("stored lines changed: %+v", c2.Lines)
	}
}

func TestViewTracksCurrentPrice(t *testing.T) {
	items := NewMemoryItemStore()
	carts := NewMemoryCartStore()

	a, _ := items.Create("a", 10)
	id, _ := carts.Create()
	_ = carts.AddItem(id, a.ID)

	price := 15.0
	if _, err := items.PartialUpdate(a.ID, ItemPatch{Price: &price}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	c, _ := carts.Get(id)
	got, _ := CartPrice(c, items)
	if got != 15 {
		t.Errorf("price = %v, want the item's current price 15", got)
	}
}

func TestViewToleratesUnresolvableItem(t *testing.T) {
	items := NewMemoryItemStore()
	c := Cart{ID: 1, Lines: []CartLine{{ItemID: 99, Quantity: 3}}}

	view, err := BuildCartView(c, items)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("view lists %d entries, want 1", len(view.Items))
	}
	if view.Items[0].Available {
		t.Error("unresolvable item must be unavailable")
	}
	if view.Price != 0 {
		t.Errorf("price = %v, want 0", view.Price)
	}
	qty, _ := CartQuantity(c, items)
	if qty != 0 {
		t.Errorf("quantity = %d, want 0", qty)
	}
}
