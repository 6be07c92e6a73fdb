package chunking

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// TokenCounter estimates how many model tokens a chunk really costs.
// It is used to warn when the characters-as-tokens approximation overshoots a budget;
// it never moves chunk boundaries.
type TokenCounter struct {
	once     sync.Once
	encoding string
	tke      *tiktoken.Tiktoken
}

// NewTokenCounter returns a counter for the given model name or encoding.
// The encoding is loaded lazily on first use.
func NewTokenCounter(modelOrEncoding string) *TokenCounter {
	if modelOrEncoding == "" {
		modelOrEncoding = defaultEncoding
	}
	return &TokenCounter{encoding: modelOrEncoding}
}

// Count returns the token count for text, falling back to a heuristic
// when no tiktoken encoding can be loaded (offline runs, unknown models).
func (c *TokenCounter) Count(text string) int {
	c.once.Do(c.load)
	if c.tke == nil {
		return EstimateTokens(text)
	}
	return len(c.tke.Encode(text, nil, nil))
}

func (c *TokenCounter) load() {
	tke, err := tiktoken.EncodingForModel(c.encoding)
	if err != nil {
		tke, err = tiktoken.GetEncoding(c.encoding)
	}
	if err != nil {
		tke, err = tiktoken.GetEncoding(defaultEncoding)
	}
	if err == nil {
		c.tke = tke
	}
}

// EstimateTokens approximates tokens as one per four bytes, minimum one for non-empty text.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return max(len(text)/4, 1)
}
