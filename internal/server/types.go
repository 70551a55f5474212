package server

type Item struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Deleted bool    `json:"deleted"`
}

// CartLine is one entry of a cart's item mapping. Lines keep the order in
// which their item was first added.
type CartLine struct {
	ItemID   int64
	Quantity int64
}

type Cart struct {
	ID    int64
	Lines []CartLine
}

// ItemPatch carries the optional fields of a partial update. A nil field is
// left untouched.
type ItemPatch struct {
	Name  *string
	Price *float64
}
