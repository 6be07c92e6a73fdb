package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is an abstraction over LLM providers
type Client interface {
	// Generate sends one prompt and returns the completion text unmodified.
	Generate(ctx context.Context, prompt string) (string, error)
	// Model returns the provider model name
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, creds Credentials) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if creds.Empty() {
		return nil, ErrMissingAPIKey
	}

	switch config.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(config, creds)
	case ProviderGemini:
		return NewGeminiClient(ctx, config, creds)
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}

// withTimeout bounds a single call when the config sets a timeout.
func withTimeout(ctx context.Context, config *Config) (context.Context, context.CancelFunc) {
	if config.Timeout > 0 {
		return context.WithTimeout(ctx, config.Timeout)
	}
	return context.WithCancel(ctx)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, creds Credentials) (*GeminiClient, error) {
	if creds.Empty() {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(strings.TrimSpace(creds.APIKey)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Generate generates text content for one prompt
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.config)
	defer cancel()

	model := c.client.GenerativeModel(c.config.Model)
	if c.config.Temperature > 0 {
		model.SetTemperature(c.config.Temperature)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Model: c.config.Model, Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Model: c.config.Model, Cause: err}
	}
	return text, nil
}

// Model returns the model name
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no text parts", ErrEmptyResponse)
	}

	return strings.Join(parts, ""), nil
}
