package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/sessions/internal/database"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// PostgreSQLActivityLogRepository implements the append-only activity log for PostgreSQL.
type PostgreSQLActivityLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLActivityLogRepository creates a new PostgreSQL activity log repository.
func NewPostgreSQLActivityLogRepository(db *sql.DB) *PostgreSQLActivityLogRepository {
	return &PostgreSQLActivityLogRepository{db: db}
}

// Append inserts an event. Uses transaction support via database.GetTx().
func (p *PostgreSQLActivityLogRepository) Append(ctx context.Context, event *sessionDomain.ActivityEvent) error {
	if !event.Type.IsValid() {
		return sessionDomain.ErrInvalidEventType
	}

	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO activity_events (id, username, event_type, occurred_at) 
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.Username,
		string(event.Type),
		event.Timestamp,
	)
	if err != nil {
		return wrapStoreError(err, "failed to append activity event")
	}
	return nil
}

// MostRecent returns the latest event by (occurred_at, id).
func (p *PostgreSQLActivityLogRepository) MostRecent(
	ctx context.Context,
	username string,
) (*sessionDomain.ActivityEvent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, username, event_type, occurred_at 
			  FROM activity_events 
			  WHERE username = $1 
			  ORDER BY occurred_at DESC, id DESC 
			  LIMIT 1`

	var event sessionDomain.ActivityEvent
	var eventType string

	err := querier.QueryRowContext(ctx, query, username).Scan(
		&event.ID,
		&event.Username,
		&eventType,
		&event.Timestamp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sessionDomain.ErrNoActivity
		}
		return nil, wrapStoreError(err, "failed to get most recent activity event")
	}

	event.Type = sessionDomain.EventType(eventType)
	return &event, nil
}
