// Package domain defines the session domain: signed token claims, activity events,
// validation outcomes and the error taxonomy shared by the session use cases.
package domain

// EventType is the kind of an activity event.
type EventType string

const (
	// EventLogin marks the start of a session.
	EventLogin EventType = "login"

	// EventLogout marks the end of a session.
	EventLogout EventType = "logout"
)

// IsValid reports whether the event type is one of the known kinds.
func (e EventType) IsValid() bool {
	return e == EventLogin || e == EventLogout
}

// InvalidReason names the first check a presented token failed.
type InvalidReason string

const (
	// ReasonNone is the zero reason carried by valid results.
	ReasonNone InvalidReason = ""

	// ReasonMalformed means the token failed signature or structural verification.
	ReasonMalformed InvalidReason = "malformed"

	// ReasonExpired means the token is well formed but past its expiry.
	ReasonExpired InvalidReason = "expired"

	// ReasonUnknownSubject means the token subject is not a registered user.
	ReasonUnknownSubject InvalidReason = "unknown_subject"

	// ReasonRevokedBySessionEnd means the subject's latest activity is a logout
	// (or the subject never logged in).
	ReasonRevokedBySessionEnd InvalidReason = "revoked_by_session_end"

	// ReasonNotPersisted means the token was never issued or has been revoked.
	ReasonNotPersisted InvalidReason = "not_persisted"
)

// Err returns the sentinel error matching the reason, or nil for ReasonNone.
func (r InvalidReason) Err() error {
	switch r {
	case ReasonMalformed:
		return ErrMalformedToken
	case ReasonExpired:
		return ErrTokenExpired
	case ReasonUnknownSubject:
		return ErrUnknownSubject
	case ReasonRevokedBySessionEnd:
		return ErrRevokedBySessionEnd
	case ReasonNotPersisted:
		return ErrNotPersisted
	default:
		return nil
	}
}
