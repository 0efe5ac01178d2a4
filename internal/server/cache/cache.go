// Package cache defines the fast lookup cache that maps an opaque session
// handle (JTI) to its signed token. The cache is an accelerator over the
// durable token store: a live entry is what makes a session usable, and
// entries expire on their own via the TTL supplied at Set time.
package cache

import (
	"context"
	"time"
)

// Cache is the volatile jti -> signed token mapping. Implementations are
// injected into the lifecycle service, never reached through package state.
type Cache interface {
	// Set stores the signed token under the handle with an explicit TTL.
	// Setting an existing handle overwrites it, so population is idempotent.
	Set(ctx context.Context, jti string, signedToken string, ttl time.Duration) error

	// Get returns the signed token for the handle, or common.ErrorNotFound
	// when the entry is absent or expired.
	Get(ctx context.Context, jti string) (string, error)

	// Delete removes the handle. Deleting an absent handle is a no-op.
	Delete(ctx context.Context, jti string) error

	// Close releases the underlying client.
	Close() error
}
