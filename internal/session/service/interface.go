// Package service provides the stateless building blocks of the session layer:
// the signing key provider and the token codec.
package service

import (
	"time"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// KeyProvider supplies the symmetric key used to sign and verify tokens.
type KeyProvider interface {
	// SigningKey returns the HMAC key. The slice must not be modified by callers.
	SigningKey() []byte
}

// TokenCodec encodes claims into signed tokens and decodes them back.
//
// Decode only verifies the signature and structure; expiry is left to the caller so
// that an expired but genuine token can be told apart from garbage.
type TokenCodec interface {
	// Mint signs a new token for subject with iat = now and exp = now + ttl.
	// A negative ttl produces a well-formed token that is already expired.
	Mint(subject string, ttl time.Duration, isAccessToken bool) (string, *sessionDomain.Claims, error)

	// Decode verifies the token and returns its claims, or ErrMalformedToken.
	Decode(token string) (*sessionDomain.Claims, error)

	// SubjectOf returns the decoded subject.
	SubjectOf(token string) (string, error)

	// IsAccessToken returns the decoded token class.
	IsAccessToken(token string) (bool, error)

	// ExpiryOf returns the decoded expiry.
	ExpiryOf(token string) (time.Time, error)
}
