package usecase

import (
	"context"
	"time"

	"github.com/allisson/sessions/internal/database"
	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	"github.com/allisson/sessions/internal/session/service"
)

// SessionConfig carries the token lifetimes.
type SessionConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// sessionUseCase composes the codec, the liveness oracle and the token service.
type sessionUseCase struct {
	txManager   database.TxManager
	codec       service.TokenCodec
	activity    ActivityUseCase
	tokens      TokenUseCase
	credentials CredentialVerifier
	cfg         SessionConfig
	now         func() time.Time
}

// NewSessionUseCase creates a SessionUseCase. Login, Refresh and Logout run their
// store writes inside txManager, so SQL-backed stores commit or roll back together.
func NewSessionUseCase(
	txManager database.TxManager,
	codec service.TokenCodec,
	activity ActivityUseCase,
	tokens TokenUseCase,
	credentials CredentialVerifier,
	cfg SessionConfig,
) SessionUseCase {
	return &sessionUseCase{
		txManager:   txManager,
		codec:       codec,
		activity:    activity,
		tokens:      tokens,
		credentials: credentials,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Validate checks, in order: signature and structure, expiry, subject liveness, and
// presence in the token store. The first failing check names the reason.
func (s *sessionUseCase) Validate(ctx context.Context, token string) (*sessionDomain.ValidationResult, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return sessionDomain.Invalid(sessionDomain.ReasonMalformed, nil), nil
	}

	if claims.IsExpired(s.now()) {
		return sessionDomain.Invalid(sessionDomain.ReasonExpired, claims), nil
	}

	loggedOut, err := s.activity.IsLoggedOut(ctx, claims.Subject)
	if err != nil {
		if apperrors.Is(err, sessionDomain.ErrUnknownUser) {
			return sessionDomain.Invalid(sessionDomain.ReasonUnknownSubject, claims), nil
		}
		return nil, err
	}
	if loggedOut {
		return sessionDomain.Invalid(sessionDomain.ReasonRevokedBySessionEnd, claims), nil
	}

	known, err := s.tokens.IsKnownToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !known {
		return sessionDomain.Invalid(sessionDomain.ReasonNotPersisted, claims), nil
	}

	return sessionDomain.Valid(claims), nil
}

func (s *sessionUseCase) Login(ctx context.Context, username, secret string) (*sessionDomain.TokenPair, error) {
	if err := s.credentials.Authenticate(ctx, username, secret); err != nil {
		if apperrors.Is(err, apperrors.ErrUnauthorized) || apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, sessionDomain.ErrInvalidCredentials
		}
		if database.IsUnavailable(err) {
			return nil, apperrors.Join(sessionDomain.ErrStoreUnavailable, err)
		}
		return nil, apperrors.Wrap(err, "failed to verify credentials")
	}

	var pair *sessionDomain.TokenPair
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.activity.Record(ctx, username, sessionDomain.EventLogin, s.now()); err != nil {
			return err
		}

		var err error
		pair, err = s.tokens.IssuePair(ctx, username, s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *sessionUseCase) Refresh(ctx context.Context, refreshToken string) (*sessionDomain.TokenPair, error) {
	result, err := s.Validate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, result.Err()
	}
	if result.Claims.IsAccessToken {
		return nil, sessionDomain.ErrWrongTokenClass
	}

	var pair *sessionDomain.TokenPair
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		pair, err = s.tokens.IssuePair(ctx, result.Claims.Subject, s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout records the event before revoking. Once the logout is recorded every token of
// the user fails liveness, even if the revoke step then fails.
func (s *sessionUseCase) Logout(ctx context.Context, username string) error {
	return s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.activity.Record(ctx, username, sessionDomain.EventLogout, s.now()); err != nil {
			return err
		}

		_, err := s.tokens.RevokeAll(ctx, username)
		return err
	})
}
