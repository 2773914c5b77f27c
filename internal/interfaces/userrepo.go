package interfaces

import (
	"context"
	"errors"

	"github.com/haguru/wakenbake/internal/models"
)

// ErrDuplicateUsername is wrapped by every backend when a signup collides
// with an existing username. The stored row is never overwritten.
var ErrDuplicateUsername = errors.New("username already exists")

// UserRepository defines the contract for storing and retrieving User data.
// This interface remains the same as it's database-agnostic.
type UserRepository interface {
	AddUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
