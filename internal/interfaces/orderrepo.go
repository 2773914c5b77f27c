package interfaces

import (
	"context"

	"github.com/haguru/wakenbake/internal/models"
)

// OrderRepository defines the contract for the order ledger. Orders are
// insert-only: rows are never updated or deleted once written.
type OrderRepository interface {
	AddOrder(ctx context.Context, order models.Order) (string, error)
	ListOrdersByUsername(ctx context.Context, username string) ([]models.Order, error)
	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
