package interfaces

import (
	"context"

	"github.com/haguru/wakenbake/internal/models"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, username, itemName string, quantity int, unitPrice float64) (*models.Order, error)
	ListOrders(ctx context.Context, username string) ([]models.Order, error)
}
