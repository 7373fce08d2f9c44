package domain

import "fmt"

// ValidationResult is the outcome of validating a presented token. Exactly one of
// Valid or a non-empty Reason is set. Claims are populated whenever the token decoded.
type ValidationResult struct {
	Valid  bool
	Reason InvalidReason
	Claims *Claims
}

// Valid builds a successful result.
func Valid(claims *Claims) *ValidationResult {
	return &ValidationResult{Valid: true, Claims: claims}
}

// Invalid builds a failed result.
func Invalid(reason InvalidReason, claims *Claims) *ValidationResult {
	return &ValidationResult{Reason: reason, Claims: claims}
}

// Err converts a failed result into its sentinel error wrapped in an InvalidTokenError.
// Returns nil for valid results.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &InvalidTokenError{Reason: r.Reason}
}

// InvalidTokenError reports why a presented token was rejected. It unwraps to the
// reason's sentinel, so errors.Is(err, ErrTokenExpired) and friends work.
type InvalidTokenError struct {
	Reason InvalidReason
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid token: %s", e.Reason)
}

func (e *InvalidTokenError) Unwrap() error {
	return e.Reason.Err()
}

// Code returns the reason, reported to HTTP clients alongside the 401.
func (e *InvalidTokenError) Code() string {
	return string(e.Reason)
}
