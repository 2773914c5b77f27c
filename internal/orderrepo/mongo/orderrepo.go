package mongo

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/haguru/wakenbake/internal/interfaces"
	"github.com/haguru/wakenbake/internal/models"
	"github.com/haguru/wakenbake/internal/orderrepo/constants"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	mongoClient "github.com/haguru/wakenbake/pkg/databases/mongo"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository implements OrderRepository using the generic DBClient.
type MongoOrderRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoOrderRepository creates a new MongoDB order ledger instance.
// It requires a concrete mongo.MongoDBClient behind the interface.
func NewMongoOrderRepository(dbClient interfaces.DBClient) (interfaces.OrderRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return nil, fmt.Errorf("dbClient must be a MongoDB client")
	}
	return &MongoOrderRepository{dbClient: dbClient}, nil
}

// AddOrder saves one order document to MongoDB via DBClient.
func (r *MongoOrderRepository) AddOrder(ctx context.Context, order models.Order) (string, error) {
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	mongoOrder := struct {
		ID         primitive.ObjectID `bson:"_id,omitempty"`
		Username   string             `bson:"username"`
		ItemName   string             `bson:"item_name"`
		Quantity   int                `bson:"quantity"`
		UnitPrice  float64            `bson:"unit_price"`
		TotalPrice float64            `bson:"total_price"`
		CreatedAt  time.Time          `bson:"created_at"`
	}{
		ID:         primitive.NewObjectID(),
		Username:   order.Username,
		ItemName:   order.ItemName,
		Quantity:   order.Quantity,
		UnitPrice:  order.UnitPrice,
		TotalPrice: order.TotalPrice,
		CreatedAt:  createdAt,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.OrdersCollection, mongoOrder)
	if err != nil {
		return "", fmt.Errorf("failed to add order to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// ListOrdersByUsername returns a user's orders newest first. A user with no
// orders gets an empty slice, not an error.
func (r *MongoOrderRepository) ListOrdersByUsername(ctx context.Context, username string) ([]models.Order, error) {
	filter := bson.M{"username": username}
	opts := &interfaces.FindOptions{
		SortField: constants.CreatedAtField,
		SortDesc:  true,
	}

	docs, err := r.dbClient.FindMany(ctx, constants.OrdersCollection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders from MongoDB: %w", err)
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

// EnsureIndices creates the compound listing index for orders in MongoDB.
func (r *MongoOrderRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys: bson.D{
			{Key: "username", Value: 1},
			{Key: constants.CreatedAtField, Value: -1},
		},
		Options: options.Index(),
	}
	return r.dbClient.EnsureSchema(ctx, constants.OrdersCollection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoOrderRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}

// decodeOrder maps a BSON document onto models.Order via mapstructure tags,
// converting driver-specific primitives along the way.
func decodeOrder(doc interfaces.Document) (models.Order, error) {
	var order models.Order
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &order,
		WeaklyTypedInput: true,
		DecodeHook:       bsonPrimitiveHook,
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to build order decoder: %w", err)
	}

	docMap, ok := doc.(map[string]interface{})
	if !ok {
		return models.Order{}, fmt.Errorf("expected order document to be map[string]interface{}")
	}
	// The model's mapstructure tag for the identifier is "id", not "_id".
	if rawID, exists := docMap["_id"]; exists {
		docMap["id"] = rawID
		delete(docMap, "_id")
	}

	if err := decoder.Decode(docMap); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode order document: %w", err)
	}
	return order, nil
}

// bsonPrimitiveHook converts primitive.DateTime to time.Time and
// primitive.ObjectID to its hex string during mapstructure decoding.
func bsonPrimitiveHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	switch v := data.(type) {
	case primitive.DateTime:
		if to == reflect.TypeOf(time.Time{}) {
			return v.Time(), nil
		}
	case primitive.ObjectID:
		if to.Kind() == reflect.String {
			return v.Hex(), nil
		}
	}
	return data, nil
}
