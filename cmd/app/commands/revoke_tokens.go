package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	sessionUseCase "github.com/allisson/sessions/internal/session/usecase"
)

// RunRevokeTokens ends the session of username: a logout event is recorded and every
// token the user holds is revoked.
//
// Requirements: Database must be migrated and accessible.
func RunRevokeTokens(
	ctx context.Context,
	sessions sessionUseCase.SessionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	username string,
	format string,
) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}

	logger.Info("revoking tokens", slog.String("username", username))

	if err := sessions.Logout(ctx, username); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"username": username,
			"revoked":  true,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully revoked all tokens for user %q\n", username)
	}

	logger.Info("tokens revoked", slog.String("username", username))
	return nil
}
