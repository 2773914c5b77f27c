// orderservice.go
package orderservice

import (
	"context"
	"fmt"

	"github.com/haguru/wakenbake/internal/interfaces"
	"github.com/haguru/wakenbake/internal/models"
	"github.com/haguru/wakenbake/internal/session"
	"github.com/haguru/wakenbake/pkg/helper"
)

// ErrInvalidQuantity rejects order quantities outside [MinQuantity, MaxQuantity].
var ErrInvalidQuantity = fmt.Errorf("quantity must be between %d and %d", MinQuantity, MaxQuantity)

type OrderService struct {
	OrderRepo interfaces.OrderRepository
	Logger    interfaces.Logger
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(repo interfaces.OrderRepository, logger interfaces.Logger) *OrderService {
	return &OrderService{
		OrderRepo: repo,
		Logger:    logger,
	}
}

// PlaceOrder computes the total and writes one ledger row. There is no
// inventory check and no idempotency key; duplicate submissions create
// duplicate rows.
func (s *OrderService) PlaceOrder(ctx context.Context, username, itemName string, quantity int, unitPrice float64) (*models.Order, error) {
	funcName := helper.GetFuncName()

	if quantity < MinQuantity || quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	order := models.NewOrder(username, itemName, quantity, unitPrice)

	orderID, err := s.OrderRepo.AddOrder(ctx, *order)
	if err != nil {
		s.Logger.Error(ErrFailedToPlaceOrder, "func", funcName, "user", username, "item", itemName, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToPlaceOrder, err)
	}
	order.ID = orderID

	s.Logger.Info("Order placed", "func", funcName, "user", username,
		"item", itemName, "quantity", quantity, "total", order.TotalPrice)
	return order, nil
}

// ListOrders returns a user's order history, newest first. Zero orders is
// an empty slice, not an error.
func (s *OrderService) ListOrders(ctx context.Context, username string) ([]models.Order, error) {
	funcName := helper.GetFuncName()

	orders, err := s.OrderRepo.ListOrdersByUsername(ctx, username)
	if err != nil {
		s.Logger.Error(ErrFailedToListOrders, "func", funcName, "user", username, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToListOrders, err)
	}
	return orders, nil
}

// Checkout turns every cart line of the session into an order, one insert
// per line with no surrounding transaction. On a mid-loop failure the
// already-placed orders stand and the failed line plus everything after it
// goes back into the cart, so a retry re-submits only what is left.
func (s *OrderService) Checkout(ctx context.Context, sess *session.Session) ([]models.Order, error) {
	funcName := helper.GetFuncName()

	lines, err := sess.Drain()
	if err != nil {
		return nil, err
	}

	placed := make([]models.Order, 0, len(lines))
	for i, line := range lines {
		order, err := s.PlaceOrder(ctx, sess.Username, line.ItemName, line.Quantity, line.UnitPrice)
		if err != nil {
			sess.Restore(lines[i:])
			s.Logger.Error("Checkout aborted mid-loop", "func", funcName, "user", sess.Username,
				"placed", len(placed), "remaining", len(lines)-i, "error", err)
			return placed, fmt.Errorf("checkout failed after %d of %d lines: %w", len(placed), len(lines), err)
		}
		placed = append(placed, *order)
	}

	s.Logger.Info("Checkout complete", "func", funcName, "user", sess.Username, "orders", len(placed))
	return placed, nil
}
