package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// tokenClaims is the wire form of a session token.
type tokenClaims struct {
	jwt.RegisteredClaims
	IsAccessToken *bool `json:"isAccessToken"`
}

// jwtTokenCodec signs HS256 tokens with the key supplied by a KeyProvider.
type jwtTokenCodec struct {
	keyProvider KeyProvider
	parser      *jwt.Parser
	now         func() time.Time
}

// TokenCodecOption customizes a TokenCodec.
type TokenCodecOption func(*jwtTokenCodec)

// WithClock overrides the time source used for iat and exp.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *jwtTokenCodec) {
		c.now = now
	}
}

// NewTokenCodec creates a TokenCodec backed by HMAC-SHA256 JWTs.
func NewTokenCodec(keyProvider KeyProvider, opts ...TokenCodecOption) TokenCodec {
	c := &jwtTokenCodec{
		keyProvider: keyProvider,
		// Expiry is judged by the session layer, so the parser only checks the signature.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mint signs a new token. Each token carries a UUIDv7 jti because iat and exp only have
// second precision, and two pairs issued within the same second must still differ.
func (c *jwtTokenCodec) Mint(
	subject string,
	ttl time.Duration,
	isAccessToken bool,
) (string, *sessionDomain.Claims, error) {
	if subject == "" {
		return "", nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token subject is required")
	}

	now := c.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		IsAccessToken: &isAccessToken,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.keyProvider.SigningKey())
	if err != nil {
		return "", nil, apperrors.Wrap(err, "failed to sign token")
	}

	return signed, claims.toDomain(), nil
}

// Decode verifies the signature and the presence of the required claims.
func (c *jwtTokenCodec) Decode(token string) (*sessionDomain.Claims, error) {
	if token == "" {
		return nil, sessionDomain.ErrMalformedToken
	}

	claims := &tokenClaims{}
	_, err := c.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.keyProvider.SigningKey(), nil
	})
	if err != nil {
		return nil, apperrors.Join(sessionDomain.ErrMalformedToken, err)
	}

	if claims.Subject == "" || claims.ExpiresAt == nil || claims.IsAccessToken == nil {
		return nil, apperrors.Wrap(sessionDomain.ErrMalformedToken, "missing required claims")
	}

	return claims.toDomain(), nil
}

func (c *jwtTokenCodec) SubjectOf(token string) (string, error) {
	claims, err := c.Decode(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (c *jwtTokenCodec) IsAccessToken(token string) (bool, error) {
	claims, err := c.Decode(token)
	if err != nil {
		return false, err
	}
	return claims.IsAccessToken, nil
}

func (c *jwtTokenCodec) ExpiryOf(token string) (time.Time, error) {
	claims, err := c.Decode(token)
	if err != nil {
		return time.Time{}, err
	}
	return claims.ExpiresAt, nil
}

func (tc *tokenClaims) toDomain() *sessionDomain.Claims {
	claims := &sessionDomain.Claims{
		ID:      tc.ID,
		Subject: tc.Subject,
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	if tc.IsAccessToken != nil {
		claims.IsAccessToken = *tc.IsAccessToken
	}
	return claims
}
