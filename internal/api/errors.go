package api

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError means no response was obtained from the backend.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SessionExpiredError is returned after a 401/402 answer (or a locally
// expired token) once the forced-logout sequence has run. It is terminal
// for the in-flight operation.
type SessionExpiredError struct {
	StatusCode int
	Reason     string
}

func (e *SessionExpiredError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("session expired (http %d)", e.StatusCode)
	}
	return "session expired: " + e.Reason
}

// HTTPError is any other non-2xx answer. Message holds the backend's
// "error" or "message" field when the body carried one.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("http %d", e.StatusCode)
}

// UnexpectedResponseFormatError is an HTML page, or JSON of the wrong
// shape, where a JSON document was expected.
type UnexpectedResponseFormatError struct {
	StatusCode  int
	ContentType string
	Message     string
	Err         error
}

func (e *UnexpectedResponseFormatError) Error() string {
	msg := fmt.Sprintf("unexpected response format (http %d, %s)", e.StatusCode, e.ContentType)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnexpectedResponseFormatError) Unwrap() error { return e.Err }

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsSessionExpired(err error) bool {
	var se *SessionExpiredError
	return errors.As(err, &se)
}

// StatusCode returns the HTTP status carried by err, 0 when there is none.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	var se *SessionExpiredError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	var ue *UnexpectedResponseFormatError
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return 0
}

// IsNotFound reports a 404 answer.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

const (
	msgNetwork        = "Could not reach the server. Please check your connection and try again."
	msgSessionExpired = "Your session has expired. Please sign in again."
	msgGeneric        = "Something went wrong. Please try again later."
)

// UserMessage maps any error to the text shown to a user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		ve *ValidationError
		se *SessionExpiredError
		ne *NetworkError
		he *HTTPError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &se):
		return msgSessionExpired
	case errors.As(err, &ne):
		return msgNetwork
	case errors.As(err, &he):
		if he.Message != "" {
			return he.Message
		}
		return fmt.Sprintf("Request failed with status %d.", he.StatusCode)
	default:
		return msgGeneric
	}
}
