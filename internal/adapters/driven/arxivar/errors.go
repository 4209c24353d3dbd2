package arxivar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 4096

// APIError is a non-2xx response from the service.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
}

// Unwrap maps the status code onto a domain error.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	default:
		return domain.ErrTransport
	}
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

// checkResponse returns an *APIError for non-2xx responses.
func checkResponse(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(body)}
}

// errorMessage extracts the service's message from an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message          string `json:"message"`
		ErrorMessage     string `json:"errorMessage"`
		ExceptionMessage string `json:"exceptionMessage"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, m := range []string{payload.Message, payload.ErrorMessage, payload.ExceptionMessage} {
			if m != "" {
				return m
			}
		}
	}
	return strings.TrimSpace(string(body))
}
