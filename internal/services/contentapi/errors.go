package contentapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by APIErrors carrying a 404 status
var ErrNotFound = errors.New("resource not found")

// APIError represents a non-200 response from the content API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e APIError) Error() string {
	return fmt.Sprintf("content API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
}

func (e APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) error {
	return APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// IsNotFound checks if an error reports a missing upstream resource
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
