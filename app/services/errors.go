package services

import "errors"

// Sentinel errors mapped to HTTP statuses by the controllers.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRoleMismatch       = errors.New("account role does not match")
	ErrInvalidRole        = errors.New("invalid role")
	ErrOTPRequired        = errors.New("email not verified")
	ErrOTPInvalid         = errors.New("invalid or expired OTP")
	ErrDuplicateAccount   = errors.New("email or phone already registered")
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("operation not permitted")
	ErrInactive           = errors.New("promotion is inactive")
	ErrSessionExpired     = errors.New("authorization session expired or already used")
	ErrBadSignature       = errors.New("signature verification failed")
)

// ErrMissingFields marks a request missing one or more required fields.
var ErrMissingFields = errors.New("missing required fields")
