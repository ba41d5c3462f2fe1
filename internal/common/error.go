// Package common defines shared constants and sentinel errors used across
// client layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated: bad credentials, expired or invalid token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden: the identity is known but lacks the role or permission.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation: malformed reset/profile/catalog input.
	ErrValidation = errors.New("validation error")
	// ErrUnavailable: transport failure or server-side outage.
	ErrUnavailable = errors.New("server unavailable")
	// ErrNotFound: the API has no such resource.
	ErrNotFound = errors.New("not found")

	// ErrMalformedResponse is returned when a payload cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a failed API call. Message is display-ready: it is either the
// server-supplied text or a generic description of the failure class.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// NewValidationError builds an APIError classified as ErrValidation without a
// round-trip to the server.
func NewValidationError(msg string) error {
	return &APIError{Message: msg, Err: ErrValidation}
}

// UserMessage turns any error into a line suitable for showing to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	switch {
	case errors.Is(err, ErrUnavailable):
		return "The server is unavailable, please try again later"
	case errors.Is(err, ErrUnauthenticated):
		return "Invalid credentials or session expired"
	case errors.Is(err, ErrForbidden):
		return "You do not have access to this page"
	case errors.Is(err, ErrNotFound):
		return "Not found"
	}
	return err.Error()
}
