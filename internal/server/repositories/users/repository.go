// Package users declares the server-side repository contract for durable
// user records.
package users

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

// Repository defines operations over the user table.
type Repository interface {
	// Create inserts a new user. A duplicate email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks up a user by case-folded email. Implementations
	// return common.ErrorNotFound when the user is absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
