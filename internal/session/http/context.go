// Package http provides the session HTTP endpoints and the bearer token middleware.
package http

import (
	"context"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// claimsKey is a context key type for storing validated token claims.
type claimsKey struct{}

// WithClaims stores validated token claims in the context.
// This is called by the authentication middleware after a successful validation.
func WithClaims(ctx context.Context, claims *sessionDomain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims retrieves validated token claims from the context.
// Returns (claims, true) if present, or (nil, false) if the request was not authenticated.
func GetClaims(ctx context.Context) (*sessionDomain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*sessionDomain.Claims)
	return claims, ok
}
