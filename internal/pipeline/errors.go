package pipeline

import (
	"errors"
	"fmt"

	"github.com/jonathan/takeaways/internal/chunking"
	"github.com/jonathan/takeaways/internal/prompts"
)

// MissingInputError is returned when the request names neither a URL nor a file.
type MissingInputError struct{}

func (e *MissingInputError) Error() string {
	return "missing input: provide a URL or a file"
}

// MissingCredentialError is returned when no API key is available for the run.
type MissingCredentialError struct {
	Provider string
}

func (e *MissingCredentialError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("missing credential: no API key for %s", e.Provider)
	}
	return "missing credential: no API key"
}

// ContentLoadError wraps a failure to acquire source text.
type ContentLoadError struct {
	Cause error
}

func (e *ContentLoadError) Error() string {
	return fmt.Sprintf("content load failed: %v", e.Cause)
}

func (e *ContentLoadError) Unwrap() error {
	return e.Cause
}

// GenerationError reports the failed call. Chunk is 1-based.
type GenerationError struct {
	Chunk int
	Total int
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed on chunk %d of %d: %v", e.Chunk, e.Total, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Kind names the category of a pipeline error.
type Kind string

// Error kinds, one per failure category users can see.
const (
	KindMissingInput         Kind = "missing_input"
	KindMissingCredential    Kind = "missing_credential"
	KindContentLoadFailure   Kind = "content_load_failure"
	KindInvalidConfiguration Kind = "invalid_configuration"
	KindTemplateError        Kind = "template_error"
	KindGenerationFailure    Kind = "generation_failure"
	KindUnknown              Kind = "unknown"
)

// KindOf classifies an error returned by Run.
func KindOf(err error) Kind {
	var (
		missingInput *MissingInputError
		missingCred  *MissingCredentialError
		loadErr      *ContentLoadError
		configErr    *chunking.ConfigError
		tplErr       *prompts.TemplateError
		genErr       *GenerationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &missingInput):
		return KindMissingInput
	case errors.As(err, &missingCred):
		return KindMissingCredential
	case errors.As(err, &tplErr):
		return KindTemplateError
	case errors.As(err, &configErr):
		return KindInvalidConfiguration
	case errors.As(err, &loadErr):
		return KindContentLoadFailure
	case errors.As(err, &genErr):
		return KindGenerationFailure
	default:
		return KindUnknown
	}
}

// UserMessage renders a short message for the person who made the request.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindMissingInput:
		return "Please enter a URL or upload a file."
	case KindMissingCredential:
		return "Please enter your API key."
	case KindContentLoadFailure:
		return "Could not load the content. Check the URL or the file and try again."
	case KindInvalidConfiguration:
		var configErr *chunking.ConfigError
		errors.As(err, &configErr)
		msg := configErr.Message
		if configErr.Field != "" {
			msg = configErr.Field + " " + msg
		}
		return "Invalid settings: " + msg + "."
	case KindTemplateError:
		var tplErr *prompts.TemplateError
		errors.As(err, &tplErr)
		return "The prompt cannot be used: " + tplErr.Message + "."
	case KindGenerationFailure:
		var genErr *GenerationError
		errors.As(err, &genErr)
		return fmt.Sprintf("Generation failed on part %d of %d. No output was produced.", genErr.Chunk, genErr.Total)
	case "":
		return ""
	default:
		return "Something went wrong. Please try again."
	}
}
