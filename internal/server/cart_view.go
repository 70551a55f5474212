package server

import "errors"

type CartItemView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Available bool   `json:"available"`
}

type CartView struct {
	ID    int64          `json:"id"`
	Price float64        `json:"price"`
	Items []CartItemView `json:"items"`
}

// BuildCartView resolves the cart's lines against the item store at read
// time, never from a cached total, because item price/deleted state can
// change after an item was added. Lines whose item is soft-deleted (or gone
// entirely) stay listed, marked unavailable, and contribute nothing to the
// price.
func BuildCartView(c Cart, items ItemStore) (CartView, error) {
	view := CartView{ID: c.ID, Items: make([]CartItemView, 0, len(c.Lines))}
	for _, ln := range c.Lines {
		it, err := items.Get(ln.ItemID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				view.Items = append(view.Items, CartItemView{
					ID:       ln.ItemID,
					Quantity: ln.Quantity,
				})
				continue
			}
			return CartView{}, err
		}
		view.Items = append(view.Items, CartItemView{
			ID:        ln.ItemID,
			Name:      it.Name,
			Quantity:  ln.Quantity,
			Available: !it.Deleted,
		})
		if !it.Deleted {
			view.Price += float64(ln.Quantity) * it.Price
		}
	}
	return view, nil
}

// CartQuantity sums the quantities of lines whose item is currently live.
func CartQuantity(c Cart, items ItemStore) (int64, error) {
	var total int64
	for _, ln := range c.Lines {
		it, err := items.Get(ln.ItemID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return 0, err
		}
		if !it.Deleted {
			total += ln.Quantity
		}
	}
	return total, nil
}

// CartPrice sums quantity times current price over the cart's live items.
func CartPrice(c Cart, items ItemStore) (float64, error) {
	var total float64
	for _, ln := range c.Lines {
		it, err := items.Get(ln.ItemID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return 0, err
		}
		if !it.Deleted {
			total += float64(ln.Quantity) * it.Price
		}
	}
	return total, nil
}
