package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	userDomain "github.com/allisson/sessions/internal/user/domain"
	userUseCase "github.com/allisson/sessions/internal/user/usecase"
)

// RunCreateUser registers a user. When password is empty it is read from io.Reader,
// so it never has to appear in the shell history. Outputs the new user in text or
// JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	users userUseCase.UseCase,
	logger *slog.Logger,
	io IOTuple,
	username string,
	email string,
	password string,
	format string,
) error {
	logger.Info("creating new user", slog.String("username", username))

	if password == "" {
		var err error
		password, err = promptForPassword(io)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	user, err := users.Register(ctx, userDomain.RegisterUserInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		if err := writeJSON(io.Writer, map[string]any{
			"id":         user.ID.String(),
			"username":   user.Username,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(io.Writer, "User created successfully")
		_, _ = fmt.Fprintf(io.Writer, "ID:       %s\n", user.ID)
		_, _ = fmt.Fprintf(io.Writer, "Username: %s\n", user.Username)
		_, _ = fmt.Fprintf(io.Writer, "Email:    %s\n", user.Email)
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
	)

	return nil
}

func promptForPassword(io IOTuple) (string, error) {
	_, _ = fmt.Fprint(io.Writer, "Enter password: ")

	line, err := bufio.NewReader(io.Reader).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}
