package models

import "time"

// Order is a single persisted line item. The item name and unit price are
// copied from the catalog at order time; TotalPrice is computed once at
// insertion and never repriced. Orders are immutable and never deleted.
type Order struct {
	ID         string    `bson:"_id,omitempty" mapstructure:"id" db:"id"`
	Username   string    `bson:"username" mapstructure:"username" db:"username"`
	ItemName   string    `bson:"item_name" mapstructure:"item_name" db:"item_name"`
	Quantity   int       `bson:"quantity" mapstructure:"quantity" db:"quantity"`
	UnitPrice  float64   `bson:"unit_price" mapstructure:"unit_price" db:"unit_price"`
	TotalPrice float64   `bson:"total_price" mapstructure:"total_price" db:"total_price"`
	CreatedAt  time.Time `bson:"created_at" mapstructure:"created_at" db:"created_at"`
}

// NewOrder builds an Order with TotalPrice derived from quantity and unit
// price. ID and CreatedAt are left for the repository to populate.
func NewOrder(username, itemName string, quantity int, unitPrice float64) *Order {
	return &Order{
		Username:   username,
		ItemName:   itemName,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: float64(quantity) * unitPrice,
	}
}
