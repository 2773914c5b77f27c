package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/haguru/wakenbake/internal/interfaces"
	"github.com/haguru/wakenbake/internal/models"
	"github.com/haguru/wakenbake/internal/orderrepo/constants"
)

// ordersTableDDL is idempotent; EnsureIndices runs it on every startup.
// Rows are insert-only: no UPDATE or DELETE path exists anywhere.
const ordersTableDDL = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	username VARCHAR(100) NOT NULL,
	item_name VARCHAR(255) NOT NULL,
	quantity INT NOT NULL,
	unit_price NUMERIC(10,2) NOT NULL,
	total_price NUMERIC(10,2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_orders_username_created_at ON orders(username, created_at DESC);`

// PostgresOrderRepository implements OrderRepository for PostgreSQL databases.
type PostgresOrderRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresOrderRepository creates a new PostgreSQL order ledger instance.
func NewPostgresOrderRepository(dbClient interfaces.DBClient) (interfaces.OrderRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &PostgresOrderRepository{dbClient: dbClient}, nil
}

// AddOrder inserts one order row. The total is stored as given; computing
// it from quantity and unit price is the service layer's job.
func (r *PostgresOrderRepository) AddOrder(ctx context.Context, order models.Order) (string, error) {
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	doc := map[string]interface{}{
		"username":    order.Username,
		"item_name":   order.ItemName,
		"quantity":    order.Quantity,
		"unit_price":  order.UnitPrice,
		"total_price": order.TotalPrice,
		"created_at":  createdAt,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.OrdersCollection, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add order to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

// ListOrdersByUsername returns a user's orders newest first. A user with no
// orders gets an empty slice, not an error.
func (r *PostgresOrderRepository) ListOrdersByUsername(ctx context.Context, username string) ([]models.Order, error) {
	filter := map[string]interface{}{"username": username}
	opts := &interfaces.FindOptions{
		SortField: constants.CreatedAtField,
		SortDesc:  true,
	}

	docs, err := r.dbClient.FindMany(ctx, constants.OrdersCollection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders from PostgreSQL: %w", err)
	}

	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := decodeOrder(doc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// EnsureIndices creates the orders table and its listing index.
func (r *PostgresOrderRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.OrdersCollection, ordersTableDDL)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresOrderRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}

// decodeOrder maps a generic row onto models.Order via mapstructure tags.
// NUMERIC columns arrive as strings from the driver, hence weak typing.
func decodeOrder(doc interfaces.Document) (models.Order, error) {
	var order models.Order
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &order,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to build order decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode order row: %w", err)
	}
	return order, nil
}
