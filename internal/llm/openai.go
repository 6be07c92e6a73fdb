package llm

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client with the chat completions API.
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client. BaseURL overrides the API endpoint.
func NewOpenAIClient(config *Config, creds Credentials) (*OpenAIClient, error) {
	if creds.Empty() {
		return nil, ErrMissingAPIKey
	}

	clientCfg := openai.DefaultConfig(strings.TrimSpace(creds.APIKey))
	if config.BaseURL != "" {
		clientCfg.BaseURL = config.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		config: config,
	}, nil
}

// Generate sends the prompt as a single user message.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.config)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Model: c.config.Model, Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: ProviderOpenAI, Model: c.config.Model, Cause: ErrEmptyResponse}
	}

	return resp.Choices[0].Message.Content, nil
}

// Model returns the model name
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP client holds no per-client resources.
func (c *OpenAIClient) Close() error {
	return nil
}
