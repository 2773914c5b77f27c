package models

import "time"

// User represents an internal user model for the application/database.
// Users are created once by signup and never mutated or deleted.
type User struct {
	ID             string    `bson:"_id,omitempty" mapstructure:"id" db:"id"`
	Username       string    `bson:"username" mapstructure:"username" db:"username"`
	HashedPassword string    `bson:"hashed_password" mapstructure:"hashed_password" db:"hashed_password"`
	CreatedAt      time.Time `bson:"created_at" mapstructure:"created_at" db:"created_at"`
}

// NewUser creates a new User instance with the given username and hashed password.
// Note: No validation is performed here.
func NewUser(username string, hashedPassword string) *User {
	return &User{
		Username:       username,
		HashedPassword: hashedPassword,
	}
}
