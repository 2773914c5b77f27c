package dto

import "github.com/haguru/wakenbake/internal/models"

// CartAddRequestDTO adds one line to the session cart. The unit price is
// resolved server-side from the catalog, never taken from the client.
type CartAddRequestDTO struct {
	ItemName string `json:"item_name" validate:"required,max=255"`
	Quantity int    `json:"quantity" validate:"required,gte=1,lte=10"`
}

type CartAddResponseDTO struct {
	Message string `json:"message"`
	Line    models.CartLine `json:"line"`
}

// CartViewResponseDTO lists the current cart lines with per-line and grand
// totals. Duplicate items stay as separate lines.
type CartViewResponseDTO struct {
	Lines      []CartLineDTO `json:"lines"`
	GrandTotal float64       `json:"grand_total"`
}

type CartLineDTO struct {
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}
