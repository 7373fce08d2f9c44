package usecase

import (
	"context"
	"time"

	"github.com/allisson/sessions/internal/metrics"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Validate records the operation and the validation outcome.
func (s *sessionUseCaseWithMetrics) Validate(
	ctx context.Context,
	token string,
) (*sessionDomain.ValidationResult, error) {
	start := time.Now()
	result, err := s.next.Validate(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "session", "validate", status)
	s.metrics.RecordDuration(ctx, "session", "validate", time.Since(start), status)
	if result != nil {
		s.metrics.RecordValidation(ctx, validationOutcome(result))
	}

	return result, err
}

// Login records metrics for login operations.
func (s *sessionUseCaseWithMetrics) Login(
	ctx context.Context,
	username, secret string,
) (*sessionDomain.TokenPair, error) {
	start := time.Now()
	pair, err := s.next.Login(ctx, username, secret)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "session", "login", status)
	s.metrics.RecordDuration(ctx, "session", "login", time.Since(start), status)

	return pair, err
}

// Refresh records metrics for refresh operations.
func (s *sessionUseCaseWithMetrics) Refresh(
	ctx context.Context,
	refreshToken string,
) (*sessionDomain.TokenPair, error) {
	start := time.Now()
	pair, err := s.next.Refresh(ctx, refreshToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "session", "refresh", status)
	s.metrics.RecordDuration(ctx, "session", "refresh", time.Since(start), status)

	return pair, err
}

// Logout records metrics for logout operations.
func (s *sessionUseCaseWithMetrics) Logout(ctx context.Context, username string) error {
	start := time.Now()
	err := s.next.Logout(ctx, username)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "session", "logout", status)
	s.metrics.RecordDuration(ctx, "session", "logout", time.Since(start), status)

	return err
}

func validationOutcome(result *sessionDomain.ValidationResult) string {
	if result.Valid {
		return "valid"
	}
	return string(result.Reason)
}
