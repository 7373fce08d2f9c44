package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	sessionUseCase "github.com/allisson/sessions/internal/session/usecase"
)

// RunInspectToken validates a token and prints the outcome with its claims. An
// invalid token is reported, not returned as an error; only store failures fail
// the command.
func RunInspectToken(
	ctx context.Context,
	sessions sessionUseCase.SessionUseCase,
	writer io.Writer,
	token string,
	format string,
) error {
	result, err := sessions.Validate(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to validate token: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, inspectResult(result))
	}

	if result.Valid {
		_, _ = fmt.Fprintln(writer, "Token is valid")
	} else {
		_, _ = fmt.Fprintf(writer, "Token is invalid: %s\n", result.Reason)
	}

	if claims := result.Claims; claims != nil {
		_, _ = fmt.Fprintf(writer, "Subject:    %s\n", claims.Subject)
		_, _ = fmt.Fprintf(writer, "Class:      %s\n", tokenClass(claims))
		_, _ = fmt.Fprintf(writer, "Token ID:   %s\n", claims.ID)
		_, _ = fmt.Fprintf(writer, "Issued at:  %s\n", claims.IssuedAt.UTC().Format(time.RFC3339))
		_, _ = fmt.Fprintf(writer, "Expires at: %s\n", claims.ExpiresAt.UTC().Format(time.RFC3339))
	}

	return nil
}

func inspectResult(result *sessionDomain.ValidationResult) map[string]any {
	out := map[string]any{
		"valid": result.Valid,
	}
	if !result.Valid {
		out["reason"] = string(result.Reason)
	}
	if claims := result.Claims; claims != nil {
		out["subject"] = claims.Subject
		out["class"] = tokenClass(claims)
		out["jti"] = claims.ID
		out["issued_at"] = claims.IssuedAt.UTC()
		out["expires_at"] = claims.ExpiresAt.UTC()
	}
	return out
}

func tokenClass(claims *sessionDomain.Claims) string {
	if claims.IsAccessToken {
		return "access"
	}
	return "refresh"
}
