package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/haguru/wakenbake/internal/interfaces"
	"github.com/haguru/wakenbake/internal/interfaces/mocks"
	"github.com/haguru/wakenbake/internal/models"
	"github.com/haguru/wakenbake/internal/orderrepo/constants"
)

func TestNewPostgresOrderRepository(t *testing.T) {
	if _, err := NewPostgresOrderRepository(nil); err == nil {
		t.Error("NewPostgresOrderRepository(nil) should return an error")
	}

	repo, err := NewPostgresOrderRepository(mocks.NewMockDBClient(t))
	if err != nil {
		t.Fatalf("NewPostgresOrderRepository() error = %v", err)
	}
	if repo == nil {
		t.Fatal("NewPostgresOrderRepository() returned nil repository")
	}
}

func TestAddOrder(t *testing.T) {
	tests := []struct {
		name      string
		insertID  interface{}
		insertErr error
		wantID    string
		wantErr   bool
	}{
		{
			name:     "successful insert",
			insertID: "order-1",
			wantID:   "order-1",
		},
		{
			name:      "database error",
			insertErr: errors.New("connection refused"),
			wantErr:   true,
		},
		{
			name:     "non-string inserted ID",
			insertID: 42,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc map[string]interface{}

			dbClient := mocks.NewMockDBClient(t)
			dbClient.On("InsertOne", mock.Anything, constants.OrdersCollection, mock.Anything).
				Run(func(args mock.Arguments) {
					doc = args.Get(2).(map[string]interface{})
				}).
				Return(tt.insertID, tt.insertErr)

			repo, err := NewPostgresOrderRepository(dbClient)
			if err != nil {
				t.Fatalf("NewPostgresOrderRepository() error = %v", err)
			}

			gotID, err := repo.AddOrder(context.Background(), models.Order{
				Username:   "alice",
				ItemName:   "Red velvet pastry",
				Quantity:   2,
				UnitPrice:  125,
				TotalPrice: 250,
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("AddOrder() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && gotID != tt.wantID {
				t.Errorf("AddOrder() = %v, want %v", gotID, tt.wantID)
			}

			// The stored total is the one the service computed.
			if doc["total_price"] != 250.0 {
				t.Errorf("stored total_price = %v, want 250", doc["total_price"])
			}
			if _, ok := doc["created_at"].(time.Time); !ok {
				t.Error("created_at not populated on insert")
			}
		})
	}
}

func TestListOrdersByUsername(t *testing.T) {
	now := time.Now().UTC()
	rows := []interfaces.Document{
		map[string]interface{}{
			"id":          "order-2",
			"username":    "alice",
			"item_name":   "Hazelnut Ferrero Cake",
			"quantity":    int64(1),
			"unit_price":  "400.00", // NUMERIC arrives as a string
			"total_price": "400.00",
			"created_at":  now,
		},
		map[string]interface{}{
			"id":          "order-1",
			"username":    "alice",
			"item_name":   "Red velvet pastry",
			"quantity":    int64(2),
			"unit_price":  "125.00",
			"total_price": "250.00",
			"created_at":  now.Add(-time.Hour),
		},
	}

	dbClient := mocks.NewMockDBClient(t)
	dbClient.On("FindMany", mock.Anything, constants.OrdersCollection, mock.Anything,
		&interfaces.FindOptions{SortField: constants.CreatedAtField, SortDesc: true}).
		Return(rows, nil)

	repo, err := NewPostgresOrderRepository(dbClient)
	if err != nil {
		t.Fatalf("NewPostgresOrderRepository() error = %v", err)
	}

	orders, err := repo.ListOrdersByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListOrdersByUsername() error = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}
	if orders[0].ItemName != "Hazelnut Ferrero Cake" || orders[0].TotalPrice != 400 {
		t.Errorf("first order = %+v, want the newest with total 400", orders[0])
	}
	if orders[1].Quantity != 2 || orders[1].UnitPrice != 125 {
		t.Errorf("second order = %+v, want quantity 2 at 125", orders[1])
	}
}

func TestListOrdersByUsernameEmpty(t *testing.T) {
	dbClient := mocks.NewMockDBClient(t)
	dbClient.On("FindMany", mock.Anything, constants.OrdersCollection, mock.Anything, mock.Anything).
		Return([]interfaces.Document{}, nil)

	repo, err := NewPostgresOrderRepository(dbClient)
	if err != nil {
		t.Fatalf("NewPostgresOrderRepository() error = %v", err)
	}

	orders, err := repo.ListOrdersByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListOrdersByUsername() error = %v", err)
	}
	if orders == nil || len(orders) != 0 {
		t.Errorf("ListOrdersByUsername() = %v, want empty non-nil slice", orders)
	}
}

func TestListOrdersByUsernameError(t *testing.T) {
	dbClient := mocks.NewMockDBClient(t)
	dbClient.On("FindMany", mock.Anything, constants.OrdersCollection, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	repo, err := NewPostgresOrderRepository(dbClient)
	if err != nil {
		t.Fatalf("NewPostgresOrderRepository() error = %v", err)
	}

	if _, err := repo.ListOrdersByUsername(context.Background(), "alice"); err == nil {
		t.Error("ListOrdersByUsername() with failing client should return an error")
	}
}
