package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haguru/wakenbake/internal/interfaces"
	"github.com/haguru/wakenbake/internal/models"
	"github.com/haguru/wakenbake/internal/userrepo/constants"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	mongoClient "github.com/haguru/wakenbake/pkg/databases/mongo"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MAXLENGTH_USERNAME = 64 // Maximum length for username
)

// MongoUserRepository implements UserRepository using the generic DBClient.
type MongoUserRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoUserRepository creates a new MongoDB repository instance.
// It requires a concrete mongo.MongoDBClient behind the interface.
func NewMongoUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return nil, fmt.Errorf("dbClient must be a MongoDB client")
	}
	return &MongoUserRepository{dbClient: dbClient}, nil
}

// AddUser saves a new user to MongoDB via DBClient.
func (r *MongoUserRepository) AddUser(ctx context.Context, user models.User) (string, error) {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	mongoUser := struct {
		ID             primitive.ObjectID `bson:"_id,omitempty"`
		Username       string             `bson:"username"`
		HashedPassword string             `bson:"hashed_password"`
		CreatedAt      time.Time          `bson:"created_at"`
	}{
		ID:             primitive.NewObjectID(),
		Username:       user.Username,
		HashedPassword: user.HashedPassword,
		CreatedAt:      createdAt,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, mongoUser)
	if err != nil {
		if strings.Contains(err.Error(), "E11000 duplicate key error") { // MongoDB specific duplicate key error check
			return "", fmt.Errorf("%w: %s", interfaces.ErrDuplicateUsername, user.Username)
		}
		return "", fmt.Errorf("failed to add user to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// GetUserByUsername retrieves a user from MongoDB via DBClient.
// A missing user is (nil, nil), matching the wrong-password path upstream.
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	// Validate the username
	if len(username) == 0 || len(username) > MAXLENGTH_USERNAME {
		return nil, fmt.Errorf("invalid username: must be between 1 and %d characters", MAXLENGTH_USERNAME)
	}

	var mongoUser struct { // Temporary struct to decode MongoDB BSON
		ID             primitive.ObjectID `bson:"_id,omitempty"`
		Username       string             `bson:"username"`
		HashedPassword string             `bson:"hashed_password"`
		CreatedAt      time.Time          `bson:"created_at"`
	}

	filter := bson.M{"username": username}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &mongoUser)
	if err != nil {
		if err == mongosdk.ErrNoDocuments {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to get user by username from MongoDB: %w", err)
	}
	if mongoUser.ID.IsZero() {
		return nil, nil
	}

	return &models.User{
		ID:             mongoUser.ID.Hex(),
		Username:       mongoUser.Username,
		HashedPassword: mongoUser.HashedPassword,
		CreatedAt:      mongoUser.CreatedAt,
	}, nil
}

// EnsureIndices creates a unique index for username in MongoDB.
func (r *MongoUserRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	}
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
