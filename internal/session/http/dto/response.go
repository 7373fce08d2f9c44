package dto

import (
	"time"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// TokenPairResponse contains a freshly issued access and refresh token.
type TokenPairResponse struct {
	AccessToken      string    `json:"access_token"`  //nolint:gosec // issued credential
	RefreshToken     string    `json:"refresh_token"` //nolint:gosec // issued credential
	TokenType        string    `json:"token_type"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// MapTokenPairToResponse converts a domain token pair to an API response.
func MapTokenPairToResponse(pair *sessionDomain.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		TokenType:        "Bearer",
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}

// SessionResponse describes the session behind the presented access token.
type SessionResponse struct {
	Username  string    `json:"username"`
	TokenID   string    `json:"token_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapClaimsToResponse converts validated claims to an API response.
func MapClaimsToResponse(claims *sessionDomain.Claims) SessionResponse {
	return SessionResponse{
		Username:  claims.Subject,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}
}
