// Package tokens declares the server-side repository contract for durable
// token records. Records are soft-deleted, never removed.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

// Repository defines operations over the token record table.
type Repository interface {
	// Create inserts a new token record and fills in its assigned ID and
	// creation time.
	Create(ctx context.Context, record *models.TokenRecord) (*models.TokenRecord, error)

	// FindLatestActive returns the newest non-deleted record of the given
	// type for the user, ordered by creation time then ID. Absence yields
	// common.ErrorNotFound and is the normal case on first signin.
	FindLatestActive(ctx context.Context, userID string, tokenType string) (*models.TokenRecord, error)

	// FindByJTI looks up a record by its opaque handle regardless of its
	// deletion state. Absence yields common.ErrorNotFound.
	FindByJTI(ctx context.Context, jti string) (*models.TokenRecord, error)

	// SoftDelete marks a record as deleted. Soft-deleting an already
	// deleted record is a no-op.
	SoftDelete(ctx context.Context, id int64) error
}
