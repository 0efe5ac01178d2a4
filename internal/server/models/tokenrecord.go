package models

import "time"

// TokenRecord links a user to an issued signed token. Records are never
// mutated after creation except for the soft-delete marker; a record with
// DeletedAt set stays in the table as history.
type TokenRecord struct {
	ID          int64
	UserID      string
	JTI         string
	SignedToken string
	Type        string
	ExpiresAt   *time.Time
	DeletedAt   *time.Time
	CreatedAt   time.Time
}

// Deleted reports whether the record has been soft-deleted.
func (t *TokenRecord) Deleted() bool {
	return t.DeletedAt != nil
}
