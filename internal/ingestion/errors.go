package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSource is returned when neither a URL nor a file was provided
	ErrNoSource = errors.New("no URL or file provided")
	// ErrUnsupportedFile is returned for uploads with a disallowed extension
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrInvalidEncoding is returned when an upload is not valid UTF-8
	ErrInvalidEncoding = errors.New("file is not valid UTF-8 text")
)

// LoadError reports that content could not be acquired from a source.
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// IsLoadError reports whether err is or wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
