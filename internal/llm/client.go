package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrMissingAPIKey   = fmt.Errorf("%w: gemini api key is required", ErrConfiguration)
	ErrMissingModel    = fmt.Errorf("%w: gemini model name is required", ErrConfiguration)
	ErrRequestFailed   = errors.New("request failed")
	ErrInvalidResponse = errors.New("invalid response")
)

// ProviderError is returned when the API answers with a non-2xx status.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gemini api error: %d - %s", e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return ErrRequestFailed
}

// TransportError wraps connection, timeout and cancellation failures.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "call gemini api: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
