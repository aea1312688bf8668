package taskclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-success response from the API.
type APIError struct {
	StatusCode int
	Message    string

	// Errors holds per-field validation failures, if any.
	Errors map[string]string

	// Path is set on 401 and 403 rejections.
	Path string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("taskapi: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("taskapi: %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

// IsForbidden reports whether err is a 403 from the API.
func IsForbidden(err error) bool { return hasStatus(err, http.StatusForbidden) }

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// parseErrorResponse builds an APIError from any of the API's error bodies.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var payload struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
		Path    string            `json:"path"`
	}
	_ = json.Unmarshal(body, &payload)

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    payload.Message,
		Errors:     payload.Errors,
		Path:       payload.Path,
	}
}
