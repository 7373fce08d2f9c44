package usecase

import (
	"context"
	"time"

	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	"github.com/allisson/sessions/internal/session/service"
)

// tokenUseCase mints tokens through the codec and tracks them in the token store.
type tokenUseCase struct {
	tokenRepo TokenRepository
	codec     service.TokenCodec
}

// NewTokenUseCase creates a TokenUseCase.
func NewTokenUseCase(tokenRepo TokenRepository, codec service.TokenCodec) TokenUseCase {
	return &tokenUseCase{
		tokenRepo: tokenRepo,
		codec:     codec,
	}
}

// IssuePair revokes before minting. If a later step fails the user is left with no
// valid tokens, never with a mix of old and new ones.
func (t *tokenUseCase) IssuePair(
	ctx context.Context,
	username string,
	accessTTL, refreshTTL time.Duration,
) (*sessionDomain.TokenPair, error) {
	if _, err := t.tokenRepo.DeleteAllForUser(ctx, username); err != nil {
		return nil, err
	}

	accessToken, accessClaims, err := t.mintAndSave(ctx, username, accessTTL, true)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshClaims, err := t.mintAndSave(ctx, username, refreshTTL, false)
	if err != nil {
		return nil, err
	}

	return &sessionDomain.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessClaims.ExpiresAt,
		RefreshExpiresAt: refreshClaims.ExpiresAt,
	}, nil
}

func (t *tokenUseCase) mintAndSave(
	ctx context.Context,
	username string,
	ttl time.Duration,
	isAccessToken bool,
) (string, *sessionDomain.Claims, error) {
	token, claims, err := t.codec.Mint(username, ttl, isAccessToken)
	if err != nil {
		return "", nil, apperrors.Wrap(err, "failed to mint token")
	}

	if err := t.tokenRepo.Save(ctx, token, username); err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

func (t *tokenUseCase) RevokeAll(ctx context.Context, username string) (int64, error) {
	return t.tokenRepo.DeleteAllForUser(ctx, username)
}

func (t *tokenUseCase) IsKnownToken(ctx context.Context, token string) (bool, error) {
	return t.tokenRepo.Exists(ctx, token)
}
