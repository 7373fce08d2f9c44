// Package usecase implements the user business logic: registration, directory
// lookups and credential verification.
package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/go-pwdhash"
	"github.com/google/uuid"

	"github.com/allisson/sessions/internal/database"
	apperrors "github.com/allisson/sessions/internal/errors"
	"github.com/allisson/sessions/internal/user/domain"
	appValidation "github.com/allisson/sessions/internal/validation"
)

// UseCase defines the interface for user business logic operations
type UseCase interface {
	// Register validates the input, hashes the password and stores the user.
	Register(ctx context.Context, input domain.RegisterUserInput) (*domain.User, error)

	// Resolve returns the user registered under username, or ErrUserNotFound.
	Resolve(ctx context.Context, username string) (*domain.User, error)

	// Authenticate checks a username and password pair. Every mismatch, including an
	// unknown username, yields ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) error
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	txManager      database.TxManager
	userRepo       UserRepository
	passwordHasher *pwdhash.PasswordHasher
	// dummyHash is verified against when the username is unknown, so both failure
	// paths cost one Argon2id computation.
	dummyHash string
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(txManager database.TxManager, userRepo UserRepository) (*UserUseCase, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	dummyHash, err := hasher.Hash([]byte(uuid.NewString()))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash dummy password")
	}

	return &UserUseCase{
		txManager:      txManager,
		userRepo:       userRepo,
		passwordHasher: hasher,
		dummyHash:      dummyHash,
	}, nil
}

// validateRegisterUserInput applies the signup rules: username of letters, digits,
// underscores and hyphens; a valid email; and a password of at least 8 characters
// mixing uppercase, lowercase and digits.
func (uc *UserUseCase) validateRegisterUserInput(input domain.RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			validation.Length(1, 50).Error("username must be between 1 and 50 characters"),
			appValidation.Username,
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:     8,
				MaxLength:     128,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register registers a new user
func (uc *UserUseCase) Register(ctx context.Context, input domain.RegisterUserInput) (*domain.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if err := uc.validateRegisterUserInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordHasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  input.Username,
		Email:     input.Email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.ensureAvailable(ctx, user); err != nil {
			return err
		}
		// The unique constraints still guard against a concurrent registration
		return uc.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) ensureAvailable(ctx context.Context, user *domain.User) error {
	if _, err := uc.userRepo.GetByUsername(ctx, user.Username); err == nil {
		return domain.ErrUsernameTaken
	} else if !apperrors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := uc.userRepo.GetByEmail(ctx, user.Email); err == nil {
		return domain.ErrEmailTaken
	} else if !apperrors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	return nil
}

// Resolve retrieves a user by username
func (uc *UserUseCase) Resolve(ctx context.Context, username string) (*domain.User, error) {
	return uc.userRepo.GetByUsername(ctx, username)
}

// Authenticate verifies the password against the stored Argon2id hash
func (uc *UserUseCase) Authenticate(ctx context.Context, username, password string) error {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, domain.ErrUserNotFound) {
			_, _ = uc.passwordHasher.Verify([]byte(password), uc.dummyHash)
			return domain.ErrInvalidCredentials
		}
		return err
	}

	ok, err := uc.passwordHasher.Verify([]byte(password), user.Password)
	if err != nil || !ok {
		return domain.ErrInvalidCredentials
	}

	return nil
}
