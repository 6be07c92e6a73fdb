package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["profile", "server"],
  "properties": {
    "profile": {"type": "string", "minLength": 1},
    "server": {
      "type": "object",
      "properties": {
        "port": {"type": "integer", "minimum": 1, "maximum": 65535}
      }
    },
    "languages": {"type": "array", "items": {"type": "string"}}
  }
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"profile": "basic", "server": {"port": 8080}}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_MissingField(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"server": {"port": 8080}}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateJSONString_NestedField(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"profile": "basic", "server": {"port": 70000}}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "server.port", validationErr.Errors[0].Field)
}

func TestValidateJSONString_ArrayItems(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"profile": "x", "server": {}, "languages": ["German", 3]}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "languages.1", validationErr.Errors[0].Field)
}

func TestValidateJSONString_MalformedSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": `, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "profile", Message: "String length must be greater than or equal to 1"},
		{Field: "server.port", Message: "Must be less than or equal to 65535"},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed:")
	assert.Contains(t, msg, "1. profile:")
	assert.Contains(t, msg, "2. server.port:")
}
