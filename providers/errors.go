package providers

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

var (
	ErrNotConfigured = errors.New("provider not configured")
	ErrAPI           = errors.New("api error")
	ErrRateLimited   = errors.New("rate limited")
	ErrServerError   = errors.New("server error")
	ErrCircuitOpen   = errors.New("circuit breaker open")
	ErrInvalidConfig = errors.New("invalid backoff configuration")
)

// APIError is a non-2xx answer from the provider. It matches ErrAPI and,
// for 429 and 5xx answers, ErrRateLimited or ErrServerError.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

func (e *APIError) Unwrap() []error {
	switch {
	case e.StatusCode == 429:
		return []error{ErrAPI, ErrRateLimited}
	case e.StatusCode >= 500:
		return []error{ErrAPI, ErrServerError}
	default:
		return []error{ErrAPI}
	}
}

// Temporary reports whether the request may succeed if retried.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// newAPIError reads the provider's {"cod": ..., "message": ...} error body.
// The body is optional; an unreadable one leaves Code and Message empty.
func newAPIError(status int, body io.Reader) *APIError {
	apiErr := &APIError{StatusCode: status}

	var payload struct {
		Cod     any    `json:"cod"`
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return apiErr
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Cod != nil {
			apiErr.Code = fmt.Sprint(payload.Cod)
		}
		apiErr.Message = payload.Message
	}
	return apiErr
}
