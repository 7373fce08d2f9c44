package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

func TestPostgreSQLActivityLogRepository(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta("INSERT INTO activity_events")
	latest := `SELECT id, username, event_type, occurred_at\s+FROM activity_events\s+WHERE username = \$1\s+ORDER BY occurred_at DESC, id DESC\s+LIMIT 1`

	event := &sessionDomain.ActivityEvent{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  "alice",
		Type:      sessionDomain.EventLogin,
		Timestamp: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}

	t.Run("Success_Append", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insert).
			WithArgs(event.ID, "alice", "login", event.Timestamp).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgreSQLActivityLogRepository(db).Append(ctx, event)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_AppendInvalidType", func(t *testing.T) {
		db, mock := newMockDB(t)
		bad := *event
		bad.Type = "signup"

		err := NewPostgreSQLActivityLogRepository(db).Append(ctx, &bad)

		assert.ErrorIs(t, err, sessionDomain.ErrInvalidEventType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_AppendUnavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(insert).WillReturnError(errConnRefused)

		err := NewPostgreSQLActivityLogRepository(db).Append(ctx, event)

		assert.ErrorIs(t, err, sessionDomain.ErrStoreUnavailable)
	})

	t.Run("Success_MostRecent", func(t *testing.T) {
		db, mock := newMockDB(t)
		rows := sqlmock.NewRows([]string{"id", "username", "event_type", "occurred_at"}).
			AddRow(event.ID.String(), "alice", "logout", event.Timestamp)
		mock.ExpectQuery(latest).WithArgs("alice").WillReturnRows(rows)

		found, err := NewPostgreSQLActivityLogRepository(db).MostRecent(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, event.ID, found.ID)
		assert.Equal(t, sessionDomain.EventLogout, found.Type)
		assert.True(t, found.Timestamp.Equal(event.Timestamp))
	})

	t.Run("Error_NoActivity", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(latest).WithArgs("alice").WillReturnError(sql.ErrNoRows)

		found, err := NewPostgreSQLActivityLogRepository(db).MostRecent(ctx, "alice")

		assert.Nil(t, found)
		assert.ErrorIs(t, err, sessionDomain.ErrNoActivity)
	})

	t.Run("Error_MostRecentUnavailable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(latest).WillReturnError(sql.ErrConnDone)

		found, err := NewPostgreSQLActivityLogRepository(db).MostRecent(ctx, "alice")

		assert.Nil(t, found)
		assert.ErrorIs(t, err, sessionDomain.ErrStoreUnavailable)
	})
}

func TestMySQLActivityLogRepository(t *testing.T) {
	ctx := context.Background()
	latest := `SELECT id, username, event_type, occurred_at\s+FROM activity_events\s+WHERE username = \?\s+ORDER BY occurred_at DESC, id DESC\s+LIMIT 1`

	event := &sessionDomain.ActivityEvent{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  "alice",
		Type:      sessionDomain.EventLogout,
		Timestamp: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	idBytes, err := event.ID.MarshalBinary()
	require.NoError(t, err)

	t.Run("Success_Append", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_events")).
			WithArgs(idBytes, "alice", "logout", event.Timestamp).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewMySQLActivityLogRepository(db).Append(ctx, event)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_MostRecent", func(t *testing.T) {
		db, mock := newMockDB(t)
		rows := sqlmock.NewRows([]string{"id", "username", "event_type", "occurred_at"}).
			AddRow(idBytes, "alice", "logout", event.Timestamp)
		mock.ExpectQuery(latest).WithArgs("alice").WillReturnRows(rows)

		found, err := NewMySQLActivityLogRepository(db).MostRecent(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, event.ID, found.ID)
		assert.Equal(t, sessionDomain.EventLogout, found.Type)
	})

	t.Run("Error_NoActivity", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(latest).WithArgs("alice").WillReturnError(sql.ErrNoRows)

		found, err := NewMySQLActivityLogRepository(db).MostRecent(ctx, "alice")

		assert.Nil(t, found)
		assert.ErrorIs(t, err, sessionDomain.ErrNoActivity)
	})
}
