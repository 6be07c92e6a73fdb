// Package types provides the request and response bodies of the HTTP API.
package types

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/takeaways/internal/ingestion"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// GenerateRequest is the JSON form of a generation request. Multipart
// requests carry the same fields as form values plus an optional file part.
type GenerateRequest struct {
	URL            string `json:"url,omitempty" validate:"omitempty,url,startswith=http"`
	FileName       string `json:"file_name,omitempty" validate:"required_with=FileContent"`
	FileContent    string `json:"file_content,omitempty"`
	Task           string `json:"task,omitempty" validate:"omitempty,max=64"`
	CustomPrompt   string `json:"custom_prompt,omitempty" validate:"max=20000"`
	Language       string `json:"language,omitempty" validate:"omitempty,max=64"`
	CustomLanguage string `json:"custom_language,omitempty" validate:"max=64"`
	Model          string `json:"model,omitempty" validate:"omitempty,max=64"`
	ChunkSize      int    `json:"chunk_size,omitempty"`
	// APIKey is used for this request only and never stored.
	APIKey string `json:"api_key,omitempty"`
}

// Validate validates the GenerateRequest using the validator.
func (r *GenerateRequest) Validate() error {
	return validate.Struct(r)
}

// GenerateResponse is returned by a successful generation.
type GenerateResponse struct {
	RunID      string              `json:"run_id"`
	Output     string              `json:"output"`
	Chunks     int                 `json:"chunks"`
	ChunkSize  int                 `json:"chunk_size"`
	Model      string              `json:"model"`
	Task       string              `json:"task"`
	Language   string              `json:"language"`
	Metadata   *ingestion.Metadata `json:"metadata,omitempty"`
	DurationMS int64               `json:"duration_ms"`
	// DownloadURL serves Output as a text file while the result is retained.
	DownloadURL string `json:"download_url"`
}

// SessionRequest starts a session holding an API key.
type SessionRequest struct {
	APIKey string `json:"api_key" validate:"required,min=8"`
}

// Validate validates the SessionRequest using the validator.
func (r *SessionRequest) Validate() error {
	return validate.Struct(r)
}

// SessionResponse describes a started session. The key is only ever echoed redacted.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Key       string    `json:"key"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// CatalogTask is one entry of the task selector.
type CatalogTask struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Template string `json:"template,omitempty"`
}

// CatalogModel is one entry of the model selector.
type CatalogModel struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Provider  string `json:"provider"`
	MaxTokens int    `json:"max_tokens"`
}

// CatalogResponse lists what the active profile offers.
type CatalogResponse struct {
	Profile             string         `json:"profile"`
	Tasks               []CatalogTask  `json:"tasks"`
	DefaultTask         string         `json:"default_task"`
	AllowCustomPrompt   bool           `json:"allow_custom_prompt"`
	Languages           []string       `json:"languages,omitempty"`
	DefaultLanguage     string         `json:"default_language"`
	AllowCustomLanguage bool           `json:"allow_custom_language"`
	Models              []CatalogModel `json:"models"`
	DefaultModel        string         `json:"default_model"`
	ChunkSizeSource     string         `json:"chunk_size_source"`
	RequiresAPIKey      bool           `json:"requires_api_key"`
}
