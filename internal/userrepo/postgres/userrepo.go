package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq" // PostgreSQL driver error types

	"github.com/haguru/wakenbake/internal/interfaces"
	"github.com/haguru/wakenbake/internal/models"
	"github.com/haguru/wakenbake/internal/userrepo/constants"
)

// usersTableDDL is idempotent; EnsureIndices runs it on every startup.
const usersTableDDL = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username VARCHAR(100) UNIQUE NOT NULL,
	hashed_password VARCHAR(255) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username);`

// PostgresUserRepository implements UserRepository for PostgreSQL databases.
type PostgresUserRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresUserRepository creates a new PostgreSQL repository instance.
func NewPostgresUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &PostgresUserRepository{dbClient: dbClient}, nil
}

// AddUser saves a new user to PostgreSQL via DBClient.
func (r *PostgresUserRepository) AddUser(ctx context.Context, user models.User) (string, error) {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	doc := map[string]interface{}{
		"username":        user.Username,
		"hashed_password": user.HashedPassword,
		"created_at":      createdAt,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		// 23505 is unique_violation in PostgreSQL
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return "", fmt.Errorf("%w: %s", interfaces.ErrDuplicateUsername, user.Username)
		}
		return "", fmt.Errorf("failed to add user to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

// GetUserByUsername retrieves a user from PostgreSQL via DBClient.
// A missing user is (nil, nil), matching the wrong-password path upstream.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	filter := map[string]interface{}{"username": username}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username from PostgreSQL: %w", err)
	}
	if user.ID == "" { // If ID is empty after FindOne, it means no user was found.
		return nil, nil
	}
	return &user, nil
}

// EnsureIndices creates the users table and unique username index.
func (r *PostgresUserRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, usersTableDDL)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
