package service

import "errors"

var (
	// ErrValidation wraps request-level validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden marks access to another user's resources by a non-admin.
	ErrForbidden = errors.New("not enough permissions")

	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrInvalidCapacity    = errors.New("capacity must be a positive integer")
)
