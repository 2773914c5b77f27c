package constants

const (
	// OrdersCollection is the table/collection holding the order ledger.
	OrdersCollection = "orders"

	// CreatedAtField orders history listings, newest first.
	CreatedAtField = "created_at"
)
