package linkedin

import (
	"errors"
	"fmt"
	"net/http"
)

// Operation names carried by errors and spans.
const (
	OpExchangeCode = "exchange_code"
	OpGetUserInfo  = "get_user_info"
	OpPostContent  = "post_content"
)

var (
	// ErrMalformedResponse is returned when an accepted response is not a JSON object
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNoIDToken is returned by VerifyIDToken when the token response has no id_token
	ErrNoIDToken = errors.New("no id_token in token response")
)

// APIError is returned when LinkedIn answered with a status outside the
// accepted set for the operation.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("linkedin %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Unauthorized reports whether LinkedIn rejected the credentials.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// TransportError is returned when no response was received at all
// (DNS, connection refused, timeout, cancellation).
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("linkedin %s request failed: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// AsTransportError extracts a *TransportError from err.
func AsTransportError(err error) (*TransportError, bool) {
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr, true
	}
	return nil, false
}

func malformed(op string, err error) error {
	return fmt.Errorf("linkedin %s: %w: %v", op, ErrMalformedResponse, err)
}
