// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/sessions/internal/user/domain"
	customValidation "github.com/allisson/sessions/internal/validation"
)

// RegisterUserRequest contains the parameters for signing up a new user.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field, never logged
}

// Validate checks the request shape. Password strength is enforced by the use case.
func (r *RegisterUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 50),
			customValidation.Username,
		),
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Email,
			validation.Length(5, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 128),
		),
	)
}

// ToDomain converts the request into use case input.
func (r *RegisterUserRequest) ToDomain() domain.RegisterUserInput {
	return domain.RegisterUserInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}
