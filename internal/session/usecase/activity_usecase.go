package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/sessions/internal/database"
	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	userDomain "github.com/allisson/sessions/internal/user/domain"
)

// activityUseCase answers "is this user logged in" from the most recent activity event.
type activityUseCase struct {
	activityRepo ActivityLogRepository
	users        UserDirectory
}

// NewActivityUseCase creates an ActivityUseCase.
func NewActivityUseCase(activityRepo ActivityLogRepository, users UserDirectory) ActivityUseCase {
	return &activityUseCase{
		activityRepo: activityRepo,
		users:        users,
	}
}

func (a *activityUseCase) Record(
	ctx context.Context,
	username string,
	eventType sessionDomain.EventType,
	timestamp time.Time,
) error {
	if !eventType.IsValid() {
		return sessionDomain.ErrInvalidEventType
	}

	if err := a.resolve(ctx, username); err != nil {
		return err
	}

	event := &sessionDomain.ActivityEvent{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  username,
		Type:      eventType,
		Timestamp: timestamp.UTC(),
	}
	return a.activityRepo.Append(ctx, event)
}

func (a *activityUseCase) MostRecentEvent(
	ctx context.Context,
	username string,
) (*sessionDomain.ActivityEvent, error) {
	event, err := a.activityRepo.MostRecent(ctx, username)
	if err != nil {
		if apperrors.Is(err, sessionDomain.ErrNoActivity) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// IsLoggedOut treats a user with no recorded activity as logged out.
func (a *activityUseCase) IsLoggedOut(ctx context.Context, username string) (bool, error) {
	if err := a.resolve(ctx, username); err != nil {
		return false, err
	}

	event, err := a.MostRecentEvent(ctx, username)
	if err != nil {
		return false, err
	}
	if event == nil {
		return true, nil
	}
	return event.EndsSession(), nil
}

// resolve maps directory misses to ErrUnknownUser and outages to ErrStoreUnavailable.
func (a *activityUseCase) resolve(ctx context.Context, username string) error {
	_, err := a.users.Resolve(ctx, username)
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, userDomain.ErrUserNotFound):
		return sessionDomain.ErrUnknownUser
	case database.IsUnavailable(err):
		return apperrors.Join(sessionDomain.ErrStoreUnavailable, err)
	default:
		return apperrors.Wrap(err, "failed to resolve user")
	}
}
