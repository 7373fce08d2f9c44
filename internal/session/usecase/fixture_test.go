package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sessions/internal/session/repository"
	"github.com/allisson/sessions/internal/session/service"
	"github.com/allisson/sessions/internal/session/usecase/mocks"
	userDomain "github.com/allisson/sessions/internal/user/domain"
	userRepository "github.com/allisson/sessions/internal/user/repository"
	userUseCase "github.com/allisson/sessions/internal/user/usecase"
)

const (
	testUsername = "alice"
	testPassword = "Password123" //nolint:gosec // test fixture, not a real credential
)

// fakeClock is a settable time source shared by the codec and the session use case.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sessionFixture wires the session layer against in-memory stores and a real codec.
type sessionFixture struct {
	clock        *fakeClock
	codec        service.TokenCodec
	tokenRepo    *repository.MemoryTokenRepository
	activityRepo *repository.MemoryActivityLogRepository
	users        *userUseCase.UserUseCase
	activity     ActivityUseCase
	tokens       TokenUseCase
	session      SessionUseCase
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	txManager := &mocks.MockTxManager{}
	txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)

	users, err := userUseCase.NewUserUseCase(txManager, userRepository.NewMemoryUserRepository())
	require.NoError(t, err)

	_, err = users.Register(context.Background(), userDomain.RegisterUserInput{
		Username: testUsername,
		Email:    "alice@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)

	secret := make([]byte, 32)
	_, err = rand.Read(secret)
	require.NoError(t, err)
	keyProvider, err := service.NewKeyProvider(context.Background(), service.KeyConfig{
		Secret: base64.StdEncoding.EncodeToString(secret),
	})
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
	codec := service.NewTokenCodec(keyProvider, service.WithClock(clock.Now))

	tokenRepo := repository.NewMemoryTokenRepository()
	activityRepo := repository.NewMemoryActivityLogRepository()
	activity := NewActivityUseCase(activityRepo, users)
	tokens := NewTokenUseCase(tokenRepo, codec)

	session := NewSessionUseCase(txManager, codec, activity, tokens, users, SessionConfig{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
	session.(*sessionUseCase).now = clock.Now

	return &sessionFixture{
		clock:        clock,
		codec:        codec,
		tokenRepo:    tokenRepo,
		activityRepo: activityRepo,
		users:        users,
		activity:     activity,
		tokens:       tokens,
		session:      session,
	}
}
