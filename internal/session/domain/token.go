package domain

import "time"

// Claims are the decoded contents of a signed token. The token class is a plain
// flag: access tokens authorize ordinary requests, refresh tokens only mint new pairs.
type Claims struct {
	ID            string // jti, unique per minted token
	Subject       string // username
	IssuedAt      time.Time
	ExpiresAt     time.Time
	IsAccessToken bool
}

// IsExpired reports whether the claims are expired at the given instant.
// A token whose expiry equals now is already expired.
func (c *Claims) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
