package gatewayerrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport    = errors.New("retail api unreachable")
	ErrRejected     = errors.New("retail api rejected the request")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx answer from the retail API. Message is the server's
// own explanation when the body carried one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("retail api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("retail api: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return ErrRejected
	}
}

// UserMessage picks what the cashier sees: the server-provided message when
// there is one, fallback otherwise.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
