package domain

import (
	"github.com/allisson/sessions/internal/errors"
)

// Token validation errors. Each one is terminal for the presented token: the caller
// must log in again or present a different token.
var (
	// ErrMalformedToken indicates a bad signature or an unparseable token.
	ErrMalformedToken = errors.Wrap(errors.ErrUnauthorized, "malformed token")

	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrUnknownSubject indicates the token subject is not a registered user.
	ErrUnknownSubject = errors.Wrap(errors.ErrUnauthorized, "unknown token subject")

	// ErrRevokedBySessionEnd indicates the subject has logged out since the token was issued.
	ErrRevokedBySessionEnd = errors.Wrap(errors.ErrUnauthorized, "session ended")

	// ErrNotPersisted indicates the token was never issued or has been revoked.
	ErrNotPersisted = errors.Wrap(errors.ErrUnauthorized, "token not persisted")

	// ErrWrongTokenClass indicates an access token was presented where a refresh token is required.
	ErrWrongTokenClass = errors.Wrap(errors.ErrForbidden, "wrong token class")
)

// Session errors.
var (
	// ErrInvalidCredentials indicates a failed login. It carries no detail so that
	// unknown usernames and wrong secrets are indistinguishable.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrDuplicateToken indicates a token string is already bound to another username.
	ErrDuplicateToken = errors.Wrap(errors.ErrConflict, "token already bound to another user")

	// ErrUnknownUser indicates the username does not resolve to a registered user.
	ErrUnknownUser = errors.Wrap(errors.ErrNotFound, "unknown user")

	// ErrNoActivity indicates a user has no recorded activity events.
	ErrNoActivity = errors.Wrap(errors.ErrNotFound, "no activity recorded")

	// ErrInvalidEventType indicates an activity event type other than login or logout.
	ErrInvalidEventType = errors.Wrap(errors.ErrInvalidInput, "invalid activity event type")

	// ErrStoreUnavailable indicates a transient store failure. Safe to retry.
	ErrStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "store unavailable")
)
