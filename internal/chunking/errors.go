package chunking

import (
	"errors"
	"fmt"
)

// ConfigError reports an unusable chunking parameter.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Message)
}

// IsInvalidConfiguration reports whether err is or wraps a *ConfigError.
func IsInvalidConfiguration(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
