package models

// CartLine is a transient pending-order item. It lives only in session
// state and is never persisted; checkout turns each line into an Order.
// Lines for the same item are kept separate, never merged.
type CartLine struct {
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// LineTotal returns the contribution of this line to the cart total.
func (c CartLine) LineTotal() float64 {
	return float64(c.Quantity) * c.UnitPrice
}
