package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when a client is requested without a key.
	ErrMissingAPIKey = errors.New("API key is required")
	// ErrUnknownModel is returned for models outside the catalog.
	ErrUnknownModel = errors.New("unknown model")
	// ErrEmptyResponse is returned when the provider answers with no text.
	ErrEmptyResponse = errors.New("no content in response")
)

// ProviderError wraps a failed provider call.
type ProviderError struct {
	Provider Provider
	Model    string
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Model, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
