package dto

import "time"

type CheckoutResponseDTO struct {
	Message string     `json:"message"`
	Orders  []OrderDTO `json:"orders"`
}

type OrderListResponseDTO struct {
	Orders []OrderDTO `json:"orders"`
}

type OrderDTO struct {
	ItemName   string    `json:"item_name"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}
