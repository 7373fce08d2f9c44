// Package usecase implements the session layer: the liveness oracle over the
// activity log, the token service over the token store, and the session
// authenticator that validates, issues, rotates and revokes tokens.
package usecase

import (
	"context"
	"time"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	userDomain "github.com/allisson/sessions/internal/user/domain"
)

// TokenRepository persists issued tokens and the username each one is bound to.
// Implementations must support transaction-aware operations via context propagation
// where the backend allows it.
type TokenRepository interface {
	// Exists reports whether the token is currently stored.
	Exists(ctx context.Context, token string) (bool, error)

	// Save binds the token to username. Saving the same pair twice is a no-op; saving a
	// token already bound to a different username returns ErrDuplicateToken.
	Save(ctx context.Context, token, username string) error

	// DeleteAllForUser atomically removes every token bound to username and returns
	// how many were removed.
	DeleteAllForUser(ctx context.Context, username string) (int64, error)
}

// ActivityLogRepository is the append-only store of login and logout events.
type ActivityLogRepository interface {
	// Append records an event. Events are never updated or deleted.
	Append(ctx context.Context, event *sessionDomain.ActivityEvent) error

	// MostRecent returns the latest event for username ordered by (timestamp, id),
	// or ErrNoActivity.
	MostRecent(ctx context.Context, username string) (*sessionDomain.ActivityEvent, error)
}

// UserDirectory resolves usernames to registered users.
type UserDirectory interface {
	// Resolve returns ErrUserNotFound when the username is not registered.
	Resolve(ctx context.Context, username string) (*userDomain.User, error)
}

// CredentialVerifier checks login secrets.
type CredentialVerifier interface {
	// Authenticate returns ErrInvalidCredentials for any mismatch.
	Authenticate(ctx context.Context, username, secret string) error
}

// ActivityUseCase records session activity and answers liveness questions.
type ActivityUseCase interface {
	// Record appends an event of the given type for username at timestamp.
	// Returns ErrUnknownUser if the username does not resolve.
	Record(ctx context.Context, username string, eventType sessionDomain.EventType, timestamp time.Time) error

	// MostRecentEvent returns the user's latest event, or nil when there is none.
	MostRecentEvent(ctx context.Context, username string) (*sessionDomain.ActivityEvent, error)

	// IsLoggedOut reports true when the user has no events or the latest one is a
	// logout. Returns ErrUnknownUser if the username does not resolve.
	IsLoggedOut(ctx context.Context, username string) (bool, error)
}

// TokenUseCase issues and revokes token pairs.
type TokenUseCase interface {
	// IssuePair revokes every token held by username and then mints and stores a
	// fresh access and refresh token.
	IssuePair(
		ctx context.Context,
		username string,
		accessTTL, refreshTTL time.Duration,
	) (*sessionDomain.TokenPair, error)

	// RevokeAll removes every token held by username.
	RevokeAll(ctx context.Context, username string) (int64, error)

	// IsKnownToken reports whether the token is in the store.
	IsKnownToken(ctx context.Context, token string) (bool, error)
}

// SessionUseCase is the entry point used by transports.
type SessionUseCase interface {
	// Validate runs the validation chain and reports the first failing check. The
	// returned error is non-nil only when a store could not be reached.
	Validate(ctx context.Context, token string) (*sessionDomain.ValidationResult, error)

	// Login verifies the credentials, records a login event and issues a new pair.
	Login(ctx context.Context, username, secret string) (*sessionDomain.TokenPair, error)

	// Refresh exchanges a valid refresh token for a new pair. An invalid token yields
	// *InvalidTokenError; an access token yields ErrWrongTokenClass.
	Refresh(ctx context.Context, refreshToken string) (*sessionDomain.TokenPair, error)

	// Logout records a logout event and revokes every token held by username.
	Logout(ctx context.Context, username string) error
}
