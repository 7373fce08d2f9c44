package repository

import (
	"bytes"
	"context"
	"sync"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// MemoryActivityLogRepository keeps activity events in process memory.
type MemoryActivityLogRepository struct {
	mu     sync.RWMutex
	events map[string][]sessionDomain.ActivityEvent
}

// NewMemoryActivityLogRepository creates an empty MemoryActivityLogRepository.
func NewMemoryActivityLogRepository() *MemoryActivityLogRepository {
	return &MemoryActivityLogRepository{
		events: make(map[string][]sessionDomain.ActivityEvent),
	}
}

func (r *MemoryActivityLogRepository) Append(ctx context.Context, event *sessionDomain.ActivityEvent) error {
	if !event.Type.IsValid() {
		return sessionDomain.ErrInvalidEventType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[event.Username] = append(r.events[event.Username], *event)
	return nil
}

// MostRecent scans the user's events for the greatest (timestamp, id).
func (r *MemoryActivityLogRepository) MostRecent(
	ctx context.Context,
	username string,
) (*sessionDomain.ActivityEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.events[username]
	if len(events) == 0 {
		return nil, sessionDomain.ErrNoActivity
	}

	latest := events[0]
	for _, event := range events[1:] {
		if isAfter(event, latest) {
			latest = event
		}
	}
	return &latest, nil
}

func isAfter(a, b sessionDomain.ActivityEvent) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}
