package server

import (
	"fmt"
	"net/url"
	"testing"
)

func TestParseListParamsDefaults(t *testing.T) {
	p, err := parseListParams(url.Values{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Offset != 0 || p.Limit != 10 {
		t.Errorf("defaults offset=%d limit=%d, want 0/10", p.Offset, p.Limit)
	}
	if p.MinPrice != nil || p.MaxPrice != nil || p.MinQuantity != nil || p.MaxQuantity != nil {
		t.Error("range bounds must default to unbounded")
	}
	if p.ShowDeleted {
		t.Error("show_deleted must default to false")
	}
}

func TestParseListParamsRejections(t *testing.T) {
	bad := []url.Values{
		{"offset": {"-1"}},
		{"offset": {"abc"}},
		{"limit": {"0"}},
		{"limit": {"abc"}},
		{"min_price": {"-1"}},
		{"min_price": {"abc"}},
		{"max_price": {"-0.5"}},
		{"min_quantity": {"-2"}},
		{"max_quantity": {"x"}},
		{"show_deleted": {"maybe"}},
	}
	for _, q := range bad {
		if _, err := parseListParams(q); err == nil {
			t.Errorf("expected rejection for %v", q)
		}
	}
}

func TestListItemsPagination(t *testing.T) {
	items := NewMemoryItemStore()
	for i := 0; i < 5; i++ {
		if _, err := items.Create(fmt.Sprintf("item-%d", i), float64(i)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := ListItems(items, ListParams{Offset: 0, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("page = %+v, want items 1 and 2", got)
	}

	got, _ = ListItems(items, ListParams{Offset: 4, Limit: 2})
	if len(got) != 1 || got[0].ID != 5 {
		t.Errorf("tail page = %+v, want item 5", got)
	}

	got, _ = ListItems(items, ListParams{Offset: 10, Limit: 2})
	if len(got) != 0 {
		t.Errorf("past-the-end page = %+v, want empty", got)
	}
}

// The window is cut from the raw collection before price filtering, so a
// page can be empty even though matching items exist beyond it. Deliberate
// behavior, not a bug.
func TestListItemsSlicesBeforeFiltering(t *testing.T) {
	items := NewMemoryItemStore()
	for i := 1; i <= 5; i++ {
		_, _ = items.Create(fmt.Sprintf("item-%d", i), float64(i))
	}

	min := 3.0
	got, err := ListItems(items, ListParams{Offset: 0, Limit: 2, MinPrice: &min})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("window [1,2] filtered by min_price=3 = %+v, want empty", got)
	}

	got, _ = ListItems(items, ListParams{Offset: 2, Limit: 2, MinPrice: &min})
	if len(got) != 2 {
		t.Errorf("window [3,4] filtered by min_price=3 = %+v, want both", got)
	}
}

func TestListItemsShowDeleted(t *testing.T) {
	items := NewMemoryItemStore()
	a, _ := items.Create("a", 1)
	_, _ = items.Create("b", 2)
	_ = items.SoftDelete(a.ID)

	got, err := ListItems(items, ListParams{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Name != "b" {
		t.Errorf("default list = %+v, want only b", got)
	}

	got, _ = ListItems(items, ListParams{Offset: 0, Limit: 10, ShowDeleted: true})
	if len(got) != 2 {
		t.Errorf("show_deleted list = %+v, want both", got)
	}
}

func TestListItemsPriceRangeInclusive(t *testing.T) {
	items := NewMemoryItemStore()
	for _, price := range []float64{5, 10, 15} {
		_, _ = items.Create("x", price)
	}

	min, max := 5.0, 10.0
	got, err := ListItems(items, ListParams{Offset: 0, Limit: 10, MinPrice: &min, MaxPrice: &max})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("inclusive range [5,10] = %+v, want the 5 and 10 items", got)
	}
}

func TestListCartsFilters(t *testing.T) {
	items := NewMemoryItemStore()
	carts := NewMemoryCartStore()

	a, _ := items.Create("a", 10)
	b, _ := items.Create("b", 20)

	// cart 1: 2×a + 1×b = price 40, quantity 3
	c1, _ := carts.Create()
	_ = carts.AddItem(c1, a.ID)
	_ = carts.AddItem(c1, b.ID)
	_ = carts.AddItem(c1, a.ID)
	// cart 2: 1×a = price 10, quantity 1
	c2, _ := carts.Create()
	_ = carts.AddItem(c2, a.ID)
	// cart 3: empty
	_, _ = carts.Create()

	all, err := ListCarts(carts, items, ListParams{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all 3 carts, got %d", len(all))
	}

	min := 20.0
	got, _ := ListCarts(carts, items, ListParams{Offset: 0, Limit: 10, MinPrice: &min})
	if len(got) != 1 || got[0].ID != c1 {
		t.Errorf("min_price=20 = %+v, want only cart %d", got, c1)
	}

	minQ := int64(1)
	maxQ := int64(2)
	got, _ = ListCarts(carts, items, ListParams{Offset: 0, Limit: 10, MinQuantity: &minQ, MaxQuantity: &maxQ})
	if len(got) != 1 || got[0].ID != c2 {
		t.Errorf("quantity in [1,2] = %+v, want only cart %d", got, c2)
	}
}

func TestListCartsSlicesBeforeFiltering(t *testing.T) {
	items := NewMemoryItemStore()
	carts := NewMemoryCartStore()
	a, _ := items.Create("a", 10)

	// Cart 1 is empty; cart 2 has a price of 10.
	_, _ = carts.Create()
	c2, _ := carts.Create()
	_ = carts.AddItem(c2, a.ID)

	min := 5.0
	got, err := ListCarts(carts, items, ListParams{Offset: 0, Limit: 1, MinPrice: &min})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("window holds only the empty cart, got %+v", got)
	}
}
