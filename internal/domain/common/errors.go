package common

import (
	"errors"
	"fmt"
)

// Domain errors. Every operation surfaces one of these at the request
// boundary; the response package maps them to HTTP statuses. Unexpected
// storage failures are wrapped with ErrInternal before they leave a
// service, never leaked raw.
var (
	// ErrNotFound: the requested object or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied: the visibility check failed for an existing object.
	ErrAccessDenied = errors.New("access denied")

	// ErrForbidden: the management/ownership check failed, or the action is
	// disallowed by object state (e.g. joining a private group).
	ErrForbidden = errors.New("forbidden")

	// Conflict family: a uniqueness invariant rejected the write.
	ErrAlreadyMember     = errors.New("already a member")
	ErrAlreadySupported  = errors.New("already supporting this prayer")
	ErrNotMember         = errors.New("not a member")
	ErrOwnerCannotLeave  = errors.New("the owner cannot leave their own object")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrEmailTaken        = errors.New("email already in use")
	ErrInvalidInvitation = errors.New("invitation code is invalid or already used")

	// ErrInvalidStatus: a status value outside the kind-specific enum.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrValidation: a missing/malformed required field. Wrap with detail:
	// fmt.Errorf("%w: title is required", common.ErrValidation).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")

	// ErrInternal: any unexpected backing-store failure.
	ErrInternal = errors.New("internal error")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Internal wraps an unexpected failure with ErrInternal, preserving the
// cause for logs while keeping the boundary mapping stable.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
