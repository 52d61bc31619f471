package services

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidStatus is returned when a status update names a value
	// outside {Approved, Denied}.
	ErrInvalidStatus = errors.New("status must be Approved or Denied")

	// ErrImmutableStatus is returned when an application already in a
	// terminal status receives another transition request.
	ErrImmutableStatus = errors.New("application status is final and cannot change")

	// ErrResetTokenExpired is returned when a password reset token is
	// unknown or past its expiry.
	ErrResetTokenExpired = errors.New("reset token is invalid or expired")
)
