// internal/gateway/errors.go
package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrUnavailable     = errors.New("upstream unavailable")
)

// APIError is any non-2xx upstream response.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{Status: status, Message: errorMessage(status, body), Body: body}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.Status, e.Message)
}

// Is classifies the error against the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrPayloadTooLarge:
		return e.Status == http.StatusRequestEntityTooLarge
	}
	return false
}

// Message extracts the user-facing message from any error returned by the
// gateway, falling back to fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnavailable) {
		return "The server could not be reached. Please try again."
	}
	return fallback
}

func errorMessage(status int, body []byte) string {
	if len(body) > 0 {
		for _, key := range []string{"message", "error"} {
			value := jsoniter.Get(body, key)
			if value.ValueType() == jsoniter.StringValue {
				if msg := strings.TrimSpace(value.ToString()); msg != "" {
					return msg
				}
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}
