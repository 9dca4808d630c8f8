package envault

import (
	"errors"
	"fmt"
	"net/http"
)

// Status codes used for failures that never reached an HTTP response.
const (
	// StatusNetworkError marks DNS, connect and other transport failures.
	StatusNetworkError = 0
	// StatusTimeout marks a client-side timeout (the request was cancelled
	// before a response arrived).
	StatusTimeout = http.StatusRequestTimeout
)

// APIError is the single error kind surfaced by the client. Callers
// distinguish failure categories by Status (401/403 auth, 404 missing,
// 408 timeout, 0 transport) and optionally by the service's Code.
type APIError struct {
	Message string
	Status  int
	Code    string
	Details map[string]interface{}
	Err     error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		if e.Code != "" {
			return fmt.Sprintf("envault: %s (status %d, code %s)", e.Message, e.Status, e.Code)
		}
		return fmt.Sprintf("envault: %s (status %d)", e.Message, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("envault: network error: %v", e.Err)
	}
	return fmt.Sprintf("envault: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	return statusIs(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	return statusIs(err, http.StatusUnauthorized)
}

// IsForbidden reports whether err is an APIError with status 403.
func IsForbidden(err error) bool {
	return statusIs(err, http.StatusForbidden)
}

// IsTimeout reports whether err is a client-side timeout.
func IsTimeout(err error) bool {
	return statusIs(err, StatusTimeout)
}

// IsNetworkError reports whether err is a transport-level failure that never
// produced an HTTP status.
func IsNetworkError(err error) bool {
	return statusIs(err, StatusNetworkError)
}

func statusIs(err error, status int) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status == status
	}
	return false
}
