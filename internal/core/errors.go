package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("name is required")
	ErrMissingSource = errors.New("source id is required")
	ErrNotFound      = errors.New("not found")
)

// ConfigError reports a collaborator that cannot be built because a
// required setting is missing.
type ConfigError struct {
	Service string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is not configured: %v", e.Service, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// UpstreamError is a non-success response from an external API. Body is kept
// for logs only and never appears in the message.
type UpstreamError struct {
	Service    string
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s error: %d", e.Service, e.StatusCode)
}

// ValidationError is a malformed client request. It maps to HTTP 400.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError builds a ValidationError with a fixed message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err (or anything it wraps) is a client error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidation marks err as a client error, keeping its message.
func AsValidation(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}
