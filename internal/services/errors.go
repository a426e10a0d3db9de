package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes in handleServiceError.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidationFailed   = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)
