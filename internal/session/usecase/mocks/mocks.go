// Package mocks provides mock implementations of the session use cases for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// MockSessionUseCase is a mock implementation of SessionUseCase.
type MockSessionUseCase struct {
	mock.Mock
}

// Validate mocks the Validate method of SessionUseCase.
func (m *MockSessionUseCase) Validate(ctx context.Context, token string) (*sessionDomain.ValidationResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.ValidationResult), args.Error(1)
}

// Login mocks the Login method of SessionUseCase.
func (m *MockSessionUseCase) Login(ctx context.Context, username, secret string) (*sessionDomain.TokenPair, error) {
	args := m.Called(ctx, username, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.TokenPair), args.Error(1)
}

// Refresh mocks the Refresh method of SessionUseCase.
func (m *MockSessionUseCase) Refresh(ctx context.Context, refreshToken string) (*sessionDomain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.TokenPair), args.Error(1)
}

// Logout mocks the Logout method of SessionUseCase.
func (m *MockSessionUseCase) Logout(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

// MockTokenRepository is a mock implementation of TokenRepository.
type MockTokenRepository struct {
	mock.Mock
}

// Exists mocks the Exists method of TokenRepository.
func (m *MockTokenRepository) Exists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// Save mocks the Save method of TokenRepository.
func (m *MockTokenRepository) Save(ctx context.Context, token, username string) error {
	args := m.Called(ctx, token, username)
	return args.Error(0)
}

// DeleteAllForUser mocks the DeleteAllForUser method of TokenRepository.
func (m *MockTokenRepository) DeleteAllForUser(ctx context.Context, username string) (int64, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(int64), args.Error(1)
}

// MockActivityLogRepository is a mock implementation of ActivityLogRepository.
type MockActivityLogRepository struct {
	mock.Mock
}

// Append mocks the Append method of ActivityLogRepository.
func (m *MockActivityLogRepository) Append(ctx context.Context, event *sessionDomain.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MostRecent mocks the MostRecent method of ActivityLogRepository.
func (m *MockActivityLogRepository) MostRecent(
	ctx context.Context,
	username string,
) (*sessionDomain.ActivityEvent, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.ActivityEvent), args.Error(1)
}

// MockTxManager is a mock implementation of database.TxManager. Unless an error is
// configured it runs fn with the given context.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method of TxManager.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockBusinessMetrics is a mock implementation of metrics.BusinessMetrics.
type MockBusinessMetrics struct {
	mock.Mock
}

// RecordOperation mocks the RecordOperation method of BusinessMetrics.
func (m *MockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

// RecordDuration mocks the RecordDuration method of BusinessMetrics.
func (m *MockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

// RecordValidation mocks the RecordValidation method of BusinessMetrics.
func (m *MockBusinessMetrics) RecordValidation(ctx context.Context, outcome string) {
	m.Called(ctx, outcome)
}
