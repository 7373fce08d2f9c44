package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/sessions/internal/database"
	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// PostgreSQLTokenRepository implements token persistence for PostgreSQL.
// Tokens are stored by SHA-256 digest with transaction support via database.GetTx().
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Exists reports whether the token digest is stored.
func (p *PostgreSQLTokenRepository) Exists(ctx context.Context, token string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS(SELECT 1 FROM tokens WHERE token_hash = $1)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, hashToken(token)).Scan(&exists); err != nil {
		return false, wrapStoreError(err, "failed to check token")
	}
	return exists, nil
}

// Save inserts the token unless its digest is already present. ON CONFLICT keeps the
// statement valid inside a transaction, where a unique violation would abort it.
func (p *PostgreSQLTokenRepository) Save(ctx context.Context, token, username string) error {
	querier := database.GetTx(ctx, p.db)
	tokenHash := hashToken(token)

	query := `INSERT INTO tokens (token_hash, username, created_at) 
			  VALUES ($1, $2, $3) 
			  ON CONFLICT (token_hash) DO NOTHING`

	result, err := querier.ExecContext(ctx, query, tokenHash, username, time.Now().UTC())
	if err != nil {
		return wrapStoreError(err, "failed to save token")
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return wrapStoreError(err, "failed to save token")
	}
	if inserted > 0 {
		return nil
	}

	var owner string
	err = querier.QueryRowContext(ctx, `SELECT username FROM tokens WHERE token_hash = $1`, tokenHash).
		Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.Wrap(sessionDomain.ErrNotPersisted, "token removed while saving")
		}
		return wrapStoreError(err, "failed to get token owner")
	}
	if owner != username {
		return sessionDomain.ErrDuplicateToken
	}
	return nil
}

// DeleteAllForUser removes the user's tokens in a single statement.
func (p *PostgreSQLTokenRepository) DeleteAllForUser(ctx context.Context, username string) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM tokens WHERE username = $1`, username)
	if err != nil {
		return 0, wrapStoreError(err, "failed to delete tokens")
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, wrapStoreError(err, "failed to delete tokens")
	}
	return deleted, nil
}
