package obsidian

import (
	"errors"
	"fmt"
)

// APIError is the single failure shape every client operation produces.
// Code carries the Obsidian Local REST API error code when the service
// supplied one, and -1 otherwise (including transport-level failures).
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.Code, e.Message)
}

// newTransportError normalizes a failure that happened before any HTTP
// status was received (connection refused, timeout, TLS failure).
func newTransportError(err error) *APIError {
	return &APIError{Code: -1, Message: fmt.Sprintf("Request failed: %v", err)}
}

// AsAPIError extracts an APIError from err if one is present.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
