package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks every failure to complete a request: network errors and non-2xx responses alike.
	ErrTransport = errors.New("booking api: request failed")

	// ErrInternal is returned when a request cannot be built or a response cannot be decoded.
	ErrInternal = errors.New("booking api client: internal error")

	// ErrNoToken is returned when no credentials are available for the request.
	ErrNoToken = errors.New("booking api client: no credentials")
)

// APIError is a non-2xx response. Message is the server's own wording.
type APIError struct {
	Operation string
	Status    int
	Message   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Operation, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrTransport
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
