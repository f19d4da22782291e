package endomondo

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// ErrNoNextPage signals that a history traversal reached the last page.
var ErrNoNextPage = errors.New("endomondo: no next page available")

// APIError represents a non-2xx response from the Endomondo API that is
// neither an authentication failure nor a rate limit.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
	Err        error // Underlying error, if any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("endomondo api error: %d - %s at %s", e.StatusCode, e.Message, e.URL)
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

// Unwrap implements errors.Unwrap so the underlying error can be extracted.
func (e *APIError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates the server responded 429. The client never
// retries on its own; the caller owns the backoff policy (see Backoff).
type RateLimitError struct {
	RetryAfter int // Suggested retry after duration in seconds, if provided by the API
	Err        error
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("endomondo rate limit exceeded: retry after %d seconds", e.RetryAfter)
	}
	if e.Err != nil {
		return fmt.Sprintf("endomondo rate limit exceeded: %v", e.Err)
	}
	return "endomondo rate limit exceeded"
}

// Unwrap implements errors.Unwrap.
func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// AuthError represents an authentication failure: invalid credentials, a
// rejected or expired session, a missing login, or a CSRF token that
// could not be acquired.
type AuthError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := fmt.Sprintf("endomondo auth error (%d): %s", e.StatusCode, e.Message)
	if e.Err != nil {
		msg += fmt.Sprintf(" - %v", e.Err)
	}
	return msg
}

// Unwrap implements errors.Unwrap.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// ProtocolError indicates a 2xx response whose body is not valid JSON
// where JSON was expected.
type ProtocolError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("endomondo protocol error at %s", e.URL)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap implements errors.Unwrap.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates valid JSON that is missing a required
// domain field, or carries one with the wrong shape. Mapping either fully
// succeeds or fails with this error; no partial objects are returned.
type MalformedResponseError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("endomondo malformed response: required field %q", e.Field)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap implements errors.Unwrap.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// mapHTTPError is a helper to convert an unsuccessful HTTP response to an appropriate custom error.
func mapHTTPError(resp *http.Response, body []byte) error {
	baseErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
		URL:        resp.Request.URL.String(),
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{
			StatusCode: resp.StatusCode,
			Message:    "authentication failed or session rejected",
			Err:        baseErr,
		}
	case http.StatusTooManyRequests:
		retryAfter := 0
		if v := resp.Header.Get("Retry-After"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				retryAfter = n
			}
		}
		return &RateLimitError{
			RetryAfter: retryAfter,
			Err:        baseErr,
		}
	default:
		return baseErr
	}
}
