// Package llm provides the language-model capability used for generation.
// A Client turns one prompt into one completion; providers are selected by Config.
package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Model describes a selectable model and its context window in tokens.
type Model struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Provider  Provider `json:"provider"`
	MaxTokens int      `json:"max_tokens"`
}

// Catalog is the list of models offered for selection, in display order.
var Catalog = []Model{
	{Name: "gpt-3.5-turbo", Label: "gpt-3.5-turbo", Provider: ProviderOpenAI, MaxTokens: 4096},
	{Name: "gpt-4", Label: "gpt-4 (8k context)", Provider: ProviderOpenAI, MaxTokens: 8192},
	{Name: "gpt-4-32k", Label: "gpt-4-32k", Provider: ProviderOpenAI, MaxTokens: 32768},
	{Name: "gemini-2.5-flash", Label: "gemini-2.5-flash", Provider: ProviderGemini, MaxTokens: 1048576},
}

// DefaultModel is used when no model is selected.
const DefaultModel = "gpt-3.5-turbo"

// LookupModel finds a catalog entry by name or display label.
func LookupModel(name string) (Model, error) {
	name = strings.TrimSpace(name)
	for _, m := range Catalog {
		if m.Name == name || m.Label == name {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
}

// Config holds the provider settings for one client.
type Config struct {
	Provider    Provider
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the default configuration (OpenAI, gpt-3.5-turbo)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Model:    DefaultModel,
		Timeout:  2 * time.Minute,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    "gemini-2.5-flash",
		Timeout:  2 * time.Minute,
	}
}

// ConfigForModel returns a default configuration for a catalog model.
func ConfigForModel(name string) (*Config, error) {
	m, err := LookupModel(name)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Provider = m.Provider
	cfg.Model = m.Name
	return cfg, nil
}

// WithModel returns a copy of the config using a different model.
func (c *Config) WithModel(model string) *Config {
	clone := *c
	clone.Model = model
	return &clone
}

// Credentials carries the API key for one session. It is passed explicitly
// to NewClient and never stored in process-wide state.
type Credentials struct {
	APIKey string
}

// Empty reports whether no key is present.
func (c Credentials) Empty() bool {
	return strings.TrimSpace(c.APIKey) == ""
}

// Redacted returns a loggable form of the key.
func (c Credentials) Redacted() string {
	key := strings.TrimSpace(c.APIKey)
	if len(key) <= 8 {
		return "****"
	}
	return key[:3] + "..." + key[len(key)-4:]
}

// EnvKey returns the environment variable that holds the key for a provider.
func EnvKey(p Provider) string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// CredentialsFromEnv reads the provider's key from the environment.
func CredentialsFromEnv(p Provider) Credentials {
	return Credentials{APIKey: os.Getenv(EnvKey(p))}
}
