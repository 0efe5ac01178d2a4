// Package tokens provides a PostgreSQL-backed repository for the durable
// token records used in the session lifecycle.
package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/dbx"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

// PostgresRepository implements token record operations over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new token record.
func (r *PostgresRepository) Create(ctx context.Context, record *models.TokenRecord) (*models.TokenRecord, error) {
	query := `
		INSERT INTO tokens (user_id, jti, signed_token, token_type, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		record.UserID, record.JTI, record.SignedToken, record.Type, record.ExpiresAt).
		Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

// FindLatestActive returns the newest non-deleted record of the given type
// for the user. Ties on created_at are broken by the highest ID.
func (r *PostgresRepository) FindLatestActive(ctx context.Context, userID string, tokenType string) (*models.TokenRecord, error) {
	query := `
		SELECT id, user_id, jti, signed_token, token_type, expires_at, deleted_at, created_at
		FROM tokens
		WHERE user_id = $1 AND token_type = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, tokenType))
}

// FindByJTI looks up a record by its opaque handle.
func (r *PostgresRepository) FindByJTI(ctx context.Context, jti string) (*models.TokenRecord, error) {
	query := `
		SELECT id, user_id, jti, signed_token, token_type, expires_at, deleted_at, created_at
		FROM tokens
		WHERE jti = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, jti))
}

// SoftDelete sets the deletion marker. The deleted_at guard keeps the call
// idempotent and preserves the original deletion time.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE tokens SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.TokenRecord, error) {
	record := &models.TokenRecord{}
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.JTI,
		&record.SignedToken,
		&record.Type,
		&record.ExpiresAt,
		&record.DeletedAt,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}
