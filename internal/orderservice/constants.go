package orderservice

const (
	// Quantity bounds for a single order line.
	MinQuantity = 1
	MaxQuantity = 10

	// Error messages for order service operations
	ErrFailedToPlaceOrder = "failed to place order"
	ErrFailedToListOrders = "failed to list orders"
)
