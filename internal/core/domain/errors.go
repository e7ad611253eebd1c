package domain

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned by the session manager when no usable token is
// stored on the device.
var ErrNoSession = errors.New("no active session")

// AuthRequiredError is returned when an authenticated operation is attempted
// without a stored token. It is raised before any network call.
type AuthRequiredError struct {
	Op string
}

func (e *AuthRequiredError) Error() string {
	return "please sign in to continue"
}

// Unwrap lets errors.Is(err, ErrNoSession) match.
func (e *AuthRequiredError) Unwrap() error { return ErrNoSession }

// NetworkError wraps a transport-level failure. Error() never exposes the raw
// cause; use errors.Unwrap or errors.Is to inspect it.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return "unable to reach the finance service, check your connection"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the finance service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// MalformedResponseError is a 2xx response whose body could not be decoded.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return "the finance service returned an unreadable response"
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsAuthRequired reports whether err is (or wraps) an AuthRequiredError.
func IsAuthRequired(err error) bool {
	var target *AuthRequiredError
	return errors.As(err, &target)
}

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var target *APIError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
