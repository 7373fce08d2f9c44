package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// errConnRefused is used instead of driver.ErrBadConn, which database/sql retries.
var errConnRefused = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestHashToken(t *testing.T) {
	h := hashToken("token")
	assert.Len(t, h, 64)
	assert.Equal(t, h, hashToken("token"))
	assert.NotEqual(t, h, hashToken("token2"))
}

func TestWrapStoreError(t *testing.T) {
	t.Run("Unavailable", func(t *testing.T) {
		err := wrapStoreError(driver.ErrBadConn, "failed to save token")
		assert.ErrorIs(t, err, sessionDomain.ErrStoreUnavailable)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
		assert.ErrorIs(t, err, driver.ErrBadConn)
		assert.Contains(t, err.Error(), "failed to save token")
	})

	t.Run("Other", func(t *testing.T) {
		err := wrapStoreError(errors.New("syntax error"), "failed to save token")
		assert.NotErrorIs(t, err, sessionDomain.ErrStoreUnavailable)
	})
}

func TestPostgreSQLTokenRepository_Exists(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM tokens WHERE token_hash = $1)`)

	t.Run("Success_Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).
			WithArgs(hashToken("t1")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := NewPostgreSQLTokenRepository(db).Exists(context.Background(), "t1")

		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_StoreUnavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).WillReturnError(errConnRefused)

		exists, err := NewPostgreSQLTokenRepository(db).Exists(context.Background(), "t1")

		assert.False(t, exists)
		assert.ErrorIs(t, err, sessionDomain.ErrStoreUnavailable)
	})
}

func TestPostgreSQLTokenRepository_Save(t *testing.T) {
	insert := regexp.QuoteMeta("INSERT INTO tokens")
	owner := regexp.QuoteMeta(`SELECT username FROM tokens WHERE token_hash = $1`)

	t.Run("Success_Inserted", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insert).
			WithArgs(hashToken("t1"), "alice", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgreSQLTokenRepository(db).Save(context.Background(), "t1", "alice")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_SameOwnerIsIdempotent", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(owner).
			WithArgs(hashToken("t1")).
			WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))

		err := NewPostgreSQLTokenRepository(db).Save(context.Background(), "t1", "alice")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateToken", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(owner).WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("bob"))

		err := NewPostgreSQLTokenRepository(db).Save(context.Background(), "t1", "alice")

		assert.ErrorIs(t, err, sessionDomain.ErrDuplicateToken)
	})

	t.Run("Error_StoreUnavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insert).WillReturnError(sql.ErrConnDone)

		err := NewPostgreSQLTokenRepository(db).Save(context.Background(), "t1", "alice")

		assert.ErrorIs(t, err, sessionDomain.ErrStoreUnavailable)
	})

	t.Run("Error_Other", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insert).WillReturnError(errors.New("relation \"tokens\" does not exist"))

		err := NewPostgreSQLTokenRepository(db).Save(context.Background(), "t1", "alice")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, sessionDomain.ErrStoreUnavailable)
		assert.Contains(t, err.Error(), "failed to save token")
	})
}

func TestPostgreSQLTokenRepository_DeleteAllForUser(t *testing.T) {
	query := regexp.QuoteMeta(`DELETE FROM tokens WHERE username = $1`)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(query).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 2))

		deleted, err := NewPostgreSQLTokenRepository(db).DeleteAllForUser(context.Background(), "alice")

		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)
	})

	t.Run("Success_NothingToDelete", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(query).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := NewPostgreSQLTokenRepository(db).DeleteAllForUser(context.Background(), "alice")

		require.NoError(t, err)
		assert.Zero(t, deleted)
	})

	t.Run("Error_StoreUnavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(query).WillReturnError(errConnRefused)

		deleted, err := NewPostgreSQLTokenRepository(db).DeleteAllForUser(context.Background(), "alice")

		assert.Zero(t, deleted)
		assert.ErrorIs(t, err, sessionDomain.ErrStoreUnavailable)
	})
}

func TestMySQLTokenRepository_Save(t *testing.T) {
	insert := regexp.QuoteMeta(`INSERT INTO tokens (token_hash, username, created_at) VALUES (?, ?, ?)`)
	owner := regexp.QuoteMeta(`SELECT username FROM tokens WHERE token_hash = ?`)
	duplicate := errors.New("Error 1062 (23000): Duplicate entry 'abc' for key 'tokens.PRIMARY'")

	t.Run("Success_Inserted", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insert).
			WithArgs(hashToken("t1"), "alice", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewMySQLTokenRepository(db).Save(context.Background(), "t1", "alice")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_SameOwnerIsIdempotent", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insert).WillReturnError(duplicate)
		mock.ExpectQuery(owner).WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))

		err := NewMySQLTokenRepository(db).Save(context.Background(), "t1", "alice")

		assert.NoError(t, err)
	})

	t.Run("Error_DuplicateToken", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insert).WillReturnError(duplicate)
		mock.ExpectQuery(owner).WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("bob"))

		err := NewMySQLTokenRepository(db).Save(context.Background(), "t1", "alice")

		assert.ErrorIs(t, err, sessionDomain.ErrDuplicateToken)
	})

	t.Run("Error_OwnerLookupUnavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insert).WillReturnError(duplicate)
		mock.ExpectQuery(owner).WillReturnError(errConnRefused)

		err := NewMySQLTokenRepository(db).Save(context.Background(), "t1", "alice")

		assert.ErrorIs(t, err, sessionDomain.ErrStoreUnavailable)
	})
}

func TestMySQLTokenRepository_ExistsAndDelete(t *testing.T) {
	t.Run("Success_Exists", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM tokens WHERE token_hash = ?)`)).
			WithArgs(hashToken("t1")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		exists, err := NewMySQLTokenRepository(db).Exists(context.Background(), "t1")

		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Success_DeleteAllForUser", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tokens WHERE username = ?`)).
			WithArgs("alice").
			WillReturnResult(sqlmock.NewResult(0, 3))

		deleted, err := NewMySQLTokenRepository(db).DeleteAllForUser(context.Background(), "alice")

		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
	})
}
