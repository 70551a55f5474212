package server

import (
	"fmt"
	"net/url"
	"strconv"
)

// ListParams are the query knobs shared by the item and cart listing
// endpoints. Nil range bounds mean "unbounded"; ShowDeleted only applies to
// items.
type ListParams struct {
	Offset      int
	Limit       int
	MinPrice    *float64
	MaxPrice    *float64
	MinQuantity *int64
	MaxQuantity *int64
	ShowDeleted bool
}

func parseListParams(q url.Values) (ListParams, error) {
	p := ListParams{Offset: 0, Limit: 10}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return ListParams{}, fmt.Errorf("invalid offset")
		}
		p.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return ListParams{}, fmt.Errorf("invalid limit")
		}
		p.Limit = n
	}
	for _, name := range []string{"min_price", "max_price"} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return ListParams{}, fmt.Errorf("invalid %s", name)
		}
		if name == "min_price" {
			p.MinPrice = &f
		} else {
			p.MaxPrice = &f
		}
	}
	for _, name := range []string{"min_quantity", "max_quantity"} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return ListParams{}, fmt.Errorf("invalid %s", name)
		}
		if name == "min_quantity" {
			p.MinQuantity = &n
		} else {
			p.MaxQuantity = &n
		}
	}
	if v := q.Get("show_deleted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return ListParams{}, fmt.Errorf("invalid show_deleted")
		}
		p.ShowDeleted = b
	}
	return p, nil
}

func sliceWindow[T any](xs []T, offset, limit int) []T {
	if offset >= len(xs) {
		return nil
	}
	end := offset + limit
	if end > len(xs) {
		end = len(xs)
	}
	return xs[offset:end]
}

// ListItems pages over the raw id-ordered collection first, then applies the
// range filters to the window. A page can therefore come back shorter than
// the limit even when more matching items exist past it; callers page by
// offset, not by result count.
func ListItems(items ItemStore, p ListParams) ([]Item, error) {
	all, err := items.List()
	if err != nil {
		return nil, err
	}
	out := []Item{}
	for _, it := range sliceWindow(all, p.Offset, p.Limit) {
		if p.MinPrice != nil && it.Price < *p.MinPrice {
			continue
		}
		if p.MaxPrice != nil && it.Price > *p.MaxPrice {
			continue
		}
		if it.Deleted && !p.ShowDeleted {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// ListCarts pages the same way as ListItems: window first, filters second.
// Price and quantity bounds compare against the aggregate values computed at
// read time. Carts are never hidden for referencing deleted items.
func ListCarts(carts CartStore, items ItemStore, p ListParams) ([]CartView, error) {
	all, err := carts.List()
	if err != nil {
		return nil, err
	}
	out := []CartView{}
	for _, c := range sliceWindow(all, p.Offset, p.Limit) {
		view, err := BuildCartView(c, items)
		if err != nil {
			return nil, err
		}
		if p.MinPrice != nil && view.Price < *p.MinPrice {
			continue
		}
		if p.MaxPrice != nil && view.Price > *p.MaxPrice {
			continue
		}
		if p.MinQuantity != nil || p.MaxQuantity != nil {
			qty, err := CartQuantity(c, items)
			if err != nil {
				return nil, err
			}
			if p.MinQuantity != nil && qty < *p.MinQuantity {
				continue
			}
			if p.MaxQuantity != nil && qty > *p.MaxQuantity {
				continue
			}
		}
		out = append(out, view)
	}
	return out, nil
}
