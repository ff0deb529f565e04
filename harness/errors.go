package harness

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRejected matches an AuthError whose login request got a non-success status.
	ErrAuthRejected = errors.New("login was rejected")

	// ErrMissingToken matches an AuthError whose login response had no usable token.
	ErrMissingToken = errors.New("login response did not contain a token")

	// ErrUnauthenticated matches a TransportError for an authorized request attempted before
	// a token was obtained.
	ErrUnauthenticated = errors.New("request requires authentication but no token is present")

	// ErrNetwork matches a TransportError caused by a network-level failure.
	ErrNetwork = errors.New("network failure")

	// ErrMalformedBody matches a TransportError for a success response that was not valid JSON.
	ErrMalformedBody = errors.New("malformed response body")

	// ErrFieldMissing is returned by Response lookups when the requested field does not exist.
	ErrFieldMissing = errors.New("field missing")

	// ErrFieldType is returned by Response lookups when a field exists but has the wrong type.
	ErrFieldType = errors.New("field has unexpected type")

	// ErrNotParsed is returned when reading structured data from a non-success response.
	ErrNotParsed = errors.New("response body was not parsed because the status was not a success")
)

type AuthErrorKind int

const (
	AuthRejected AuthErrorKind = iota + 1
	AuthMissingToken
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthRejected:
		return "rejected"
	case AuthMissingToken:
		return "missing token"
	default:
		return "unknown"
	}
}

// AuthError is returned by TestHarness.Authenticate.
type AuthError struct {
	Kind AuthErrorKind

	// Status and Body are the login response's status code and raw body. Status is always set
	// for AuthRejected; Body may be empty.
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case AuthRejected:
		if e.Body == "" {
			return fmt.Sprintf("login rejected with HTTP status %d", e.Status)
		}
		return fmt.Sprintf("login rejected with HTTP status %d: %s", e.Status, e.Body)
	case AuthMissingToken:
		return fmt.Sprintf("login succeeded with HTTP status %d but the response had no token", e.Status)
	default:
		return "authentication failed"
	}
}

func (e *AuthError) Is(target error) bool {
	switch e.Kind {
	case AuthRejected:
		return target == ErrAuthRejected
	case AuthMissingToken:
		return target == ErrMissingToken
	}
	return false
}

type TransportErrorKind int

const (
	TransportUnauthenticated TransportErrorKind = iota + 1
	TransportNetwork
	TransportMalformedBody
)

func (k TransportErrorKind) String() string {
	switch k {
	case TransportUnauthenticated:
		return "unauthenticated"
	case TransportNetwork:
		return "network"
	case TransportMalformedBody:
		return "malformed body"
	default:
		return "unknown"
	}
}

// TransportError is returned by TestHarness.Request, and by Authenticate when the login
// request itself could not be completed.
type TransportError struct {
	Kind   TransportErrorKind
	Method string
	URL    string
	Cause  error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case TransportUnauthenticated:
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, ErrUnauthenticated)
	case TransportNetwork:
		return fmt.Sprintf("%s %s: %s: %s", e.Method, e.URL, ErrNetwork, e.Cause)
	case TransportMalformedBody:
		return fmt.Sprintf("%s %s: %s: %s", e.Method, e.URL, ErrMalformedBody, e.Cause)
	default:
		return fmt.Sprintf("%s %s: transport error", e.Method, e.URL)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

func (e *TransportError) Is(target error) bool {
	switch e.Kind {
	case TransportUnauthenticated:
		return target == ErrUnauthenticated
	case TransportNetwork:
		return target == ErrNetwork
	case TransportMalformedBody:
		return target == ErrMalformedBody
	}
	return false
}
