package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, "gpt-3.5-turbo", config.Model)
	assert.Equal(t, 2*time.Minute, config.Timeout)
}

func TestDefaultGeminiConfig(t *testing.T) {
	config := DefaultGeminiConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash", config.Model)
}

func TestLookupModel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantLimit int
	}{
		{name: "gpt-3.5", input: "gpt-3.5-turbo", wantName: "gpt-3.5-turbo", wantLimit: 4096},
		{name: "gpt-4 by name", input: "gpt-4", wantName: "gpt-4", wantLimit: 8192},
		{name: "gpt-4 by label", input: "gpt-4 (8k context)", wantName: "gpt-4", wantLimit: 8192},
		{name: "gpt-4-32k", input: "gpt-4-32k", wantName: "gpt-4-32k", wantLimit: 32768},
		{name: "surrounding space", input: "  gpt-4-32k ", wantName: "gpt-4-32k", wantLimit: 32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := LookupModel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, m.Name)
			assert.Equal(t, tt.wantLimit, m.MaxTokens)
		})
	}
}

func TestLookupModel_Unknown(t *testing.T) {
	_, err := LookupModel("gpt-9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownModel))
}

func TestConfigForModel(t *testing.T) {
	cfg, err := ConfigForModel("gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)

	_, err = ConfigForModel("nope")
	assert.Error(t, err)
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel("gpt-4")

	// Original should be unchanged
	assert.Equal(t, "gpt-3.5-turbo", config.Model)
	assert.Equal(t, "gpt-4", newConfig.Model)
	assert.Equal(t, config.Provider, newConfig.Provider)
}

func TestCredentials(t *testing.T) {
	assert.True(t, Credentials{}.Empty())
	assert.True(t, Credentials{APIKey: "   "}.Empty())
	assert.False(t, Credentials{APIKey: "sk-abc"}.Empty())

	assert.Equal(t, "****", Credentials{APIKey: "short"}.Redacted())
	assert.Equal(t, "sk-...wxyz", Credentials{APIKey: "sk-0123456789wxyz"}.Redacted())
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GEMINI_API_KEY", "gem-key")

	assert.Equal(t, "sk-openai", CredentialsFromEnv(ProviderOpenAI).APIKey)
	assert.Equal(t, "gem-key", CredentialsFromEnv(ProviderGemini).APIKey)
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, Provider("gemini"), ProviderGemini)
	assert.Equal(t, Provider("openai"), ProviderOpenAI)
}
