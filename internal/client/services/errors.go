package services

import (
	"errors"

	"github.com/dmitrijs2005/studyplanner/internal/client/client"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNoStoredCredentials = errors.New("no stored credentials")
	ErrBiometricAuthFailed = errors.New("biometric authentication failed")
	ErrPersistence         = errors.New("persistence error")
	ErrAuthInProgress      = errors.New("authentication already in progress")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrSignInCancelled     = errors.New("sign-in cancelled by logout")
)

// ValidationError is returned when input is rejected before any I/O.
// Message is ready to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// BiometricError carries the authenticator's reason for refusing.
type BiometricError struct {
	Reason string
	Err    error
}

func (e *BiometricError) Error() string {
	return ErrBiometricAuthFailed.Error() + ": " + e.Reason
}

func (e *BiometricError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBiometricAuthFailed}
	}
	return []error{ErrBiometricAuthFailed, e.Err}
}

// UserMessage returns the single human-readable text for err.
func UserMessage(err error) string {
	var ve *ValidationError
	var be *BiometricError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &be):
		if be.Reason == "" {
			return "Authentication failed"
		}
		return be.Reason
	case errors.Is(err, ErrNoStoredCredentials):
		return "No stored credentials found"
	case errors.Is(err, ErrAuthInProgress):
		return "Authentication already in progress"
	case errors.Is(err, ErrSignInCancelled):
		return "Signed out before the sign-in finished"
	case errors.Is(err, ErrNotAuthenticated):
		return "Please log in first"
	case errors.Is(err, ErrPersistence):
		return "Could not save changes on this device"
	default:
		return client.Message(err)
	}
}
