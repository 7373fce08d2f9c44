// Package repository provides the token store and activity log implementations:
// in-memory, PostgreSQL, MySQL and (for tokens) Redis.
package repository

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/allisson/sessions/internal/database"
	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// hashToken returns the hex SHA-256 of a token. Persistent stores key tokens by this
// digest so a leaked table does not leak usable bearer tokens.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// wrapStoreError adds context to a driver error and tags connectivity failures
// with ErrStoreUnavailable.
func wrapStoreError(err error, message string) error {
	if database.IsUnavailable(err) {
		return apperrors.Join(sessionDomain.ErrStoreUnavailable, apperrors.Wrap(err, message))
	}
	return apperrors.Wrap(err, message)
}
