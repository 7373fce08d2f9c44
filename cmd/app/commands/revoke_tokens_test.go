package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	sessionMocks "github.com/allisson/sessions/internal/session/usecase/mocks"
)

func TestRunRevokeTokens(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("Success_TextOutput", func(t *testing.T) {
		sessions := &sessionMocks.MockSessionUseCase{}
		sessions.On("Logout", ctx, "alice").Return(nil)

		var out bytes.Buffer
		err := RunRevokeTokens(ctx, sessions, logger, &out, "alice", "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `Successfully revoked all tokens for user "alice"`)
		sessions.AssertExpectations(t)
	})

	t.Run("Success_JSONOutput", func(t *testing.T) {
		sessions := &sessionMocks.MockSessionUseCase{}
		sessions.On("Logout", ctx, "alice").Return(nil)

		var out bytes.Buffer
		err := RunRevokeTokens(ctx, sessions, logger, &out, "alice", "json")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `"revoked": true`)
		sessions.AssertExpectations(t)
	})

	t.Run("Error_MissingUsername", func(t *testing.T) {
		sessions := &sessionMocks.MockSessionUseCase{}

		err := RunRevokeTokens(ctx, sessions, logger, &bytes.Buffer{}, "", "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "username is required")
		sessions.AssertNotCalled(t, "Logout")
	})

	t.Run("Error_UnknownUser", func(t *testing.T) {
		sessions := &sessionMocks.MockSessionUseCase{}
		sessions.On("Logout", ctx, "ghost").Return(sessionDomain.ErrUnknownUser)

		err := RunRevokeTokens(ctx, sessions, logger, &bytes.Buffer{}, "ghost", "text")

		require.Error(t, err)
		assert.ErrorIs(t, err, sessionDomain.ErrUnknownUser)
	})
}
