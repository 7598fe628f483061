package userRepo

import (
	"context"

	"mobilemech/models"
)

// UserRepository is the read side of the customer directory the booking
// core needs: resolving a customer id or email to an account.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID; repository.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address; repository.ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
}
