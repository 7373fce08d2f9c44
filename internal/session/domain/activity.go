package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEvent is an append-only record of a login or logout. Events are never
// updated or deleted; the most recent one per user decides liveness.
type ActivityEvent struct {
	ID        uuid.UUID // UUIDv7, orders events recorded within the same timestamp
	Username  string
	Type      EventType
	Timestamp time.Time
}

// EndsSession reports whether the event closes the user's session.
func (e *ActivityEvent) EndsSession() bool {
	return e.Type == EventLogout
}
