package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/sessions/internal/database"
	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// MySQLActivityLogRepository implements the append-only activity log for MySQL.
// Uses BINARY(16) for UUIDs.
type MySQLActivityLogRepository struct {
	db *sql.DB
}

// NewMySQLActivityLogRepository creates a new MySQL activity log repository.
func NewMySQLActivityLogRepository(db *sql.DB) *MySQLActivityLogRepository {
	return &MySQLActivityLogRepository{db: db}
}

// Append inserts an event. Uses transaction support via database.GetTx().
func (m *MySQLActivityLogRepository) Append(ctx context.Context, event *sessionDomain.ActivityEvent) error {
	if !event.Type.IsValid() {
		return sessionDomain.ErrInvalidEventType
	}

	querier := database.GetTx(ctx, m.db)

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal activity event id")
	}

	query := `INSERT INTO activity_events (id, username, event_type, occurred_at) 
			  VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, event.Username, string(event.Type), event.Timestamp)
	if err != nil {
		return wrapStoreError(err, "failed to append activity event")
	}
	return nil
}

// MostRecent returns the latest event by (occurred_at, id).
func (m *MySQLActivityLogRepository) MostRecent(
	ctx context.Context,
	username string,
) (*sessionDomain.ActivityEvent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, username, event_type, occurred_at 
			  FROM activity_events 
			  WHERE username = ? 
			  ORDER BY occurred_at DESC, id DESC 
			  LIMIT 1`

	var event sessionDomain.ActivityEvent
	var id []byte
	var eventType string

	err := querier.QueryRowContext(ctx, query, username).Scan(&id, &event.Username, &eventType, &event.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sessionDomain.ErrNoActivity
		}
		return nil, wrapStoreError(err, "failed to get most recent activity event")
	}

	if err := event.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal activity event id")
	}
	event.Type = sessionDomain.EventType(eventType)
	return &event, nil
}
