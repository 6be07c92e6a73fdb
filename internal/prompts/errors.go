package prompts

import (
	"errors"
	"fmt"
)

// ErrUnknownTask is returned when a task key is not in the catalog.
var ErrUnknownTask = errors.New("unknown task")

// TemplateError reports a template that cannot be used for generation.
type TemplateError struct {
	Task    string
	Message string
}

func (e *TemplateError) Error() string {
	if e.Task != "" {
		return fmt.Sprintf("template error in %s: %s", e.Task, e.Message)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}
