package weatherstack

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is returned while the circuit breaker rejects calls.
var ErrCircuitOpen = errors.New("weather service temporarily unavailable")

// APIError is the service-level error envelope the API returns with a 2xx status.
type APIError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	if e.Info != "" {
		return e.Info
	}
	if e.Type != "" {
		return fmt.Sprintf("weatherstack error %d: %s", e.Code, e.Type)
	}
	return fmt.Sprintf("weatherstack error %d", e.Code)
}

// NetworkError means the request never produced a response.
type NetworkError struct {
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx response that did not carry an error envelope.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}
