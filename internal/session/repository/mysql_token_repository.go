package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/allisson/sessions/internal/database"
	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// MySQLTokenRepository implements token persistence for MySQL.
// Tokens are stored by SHA-256 digest with transaction support via database.GetTx().
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// Exists reports whether the token digest is stored.
func (m *MySQLTokenRepository) Exists(ctx context.Context, token string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS(SELECT 1 FROM tokens WHERE token_hash = ?)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, hashToken(token)).Scan(&exists); err != nil {
		return false, wrapStoreError(err, "failed to check token")
	}
	return exists, nil
}

// Save inserts the token. On a duplicate key the stored owner decides between an
// idempotent no-op and ErrDuplicateToken.
func (m *MySQLTokenRepository) Save(ctx context.Context, token, username string) error {
	querier := database.GetTx(ctx, m.db)
	tokenHash := hashToken(token)

	query := `INSERT INTO tokens (token_hash, username, created_at) VALUES (?, ?, ?)`

	_, err := querier.ExecContext(ctx, query, tokenHash, username, time.Now().UTC())
	if err == nil {
		return nil
	}
	if !isMySQLUniqueViolation(err) {
		return wrapStoreError(err, "failed to save token")
	}

	var owner string
	err = querier.QueryRowContext(ctx, `SELECT username FROM tokens WHERE token_hash = ?`, tokenHash).
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
func (m *MySQLTokenRepository) DeleteAllForUser(ctx context.Context, username string) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM tokens WHERE username = ?`, username)
	if err != nil {
		return 0, wrapStoreError(err, "failed to delete tokens")
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, wrapStoreError(err, "failed to delete tokens")
	}
	return deleted, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
