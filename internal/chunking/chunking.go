// Package chunking splits source text into fixed-size slices that fit a model's context budget.
package chunking

import (
	"iter"
	"unicode/utf8"
)

// DefaultReservedTokens is the allowance kept back for the prompt template and instructions.
const DefaultReservedTokens = 1000

// Split partitions text at fixed character offsets 0, size, 2*size, ...
// Characters are Unicode code points, so a chunk never ends inside a UTF-8 sequence,
// but a boundary can still fall mid-word or mid-sentence.
//
// Empty text yields zero chunks.
func Split(text string, size int) ([]string, error) {
	if size <= 0 {
		return nil, &ConfigError{Field: "chunk_size", Message: "must be positive"}
	}
	if text == "" {
		return nil, nil
	}

	chunks := make([]string, 0, utf8.RuneCountInString(text)/size+1)
	for chunk := range window(text, size) {
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// Chunks is the lazy form of Split.
func Chunks(text string, size int) (iter.Seq[string], error) {
	if size <= 0 {
		return nil, &ConfigError{Field: "chunk_size", Message: "must be positive"}
	}
	return window(text, size), nil
}

// SizeForBudget derives a chunk size in characters from a model token budget.
// Tokens and characters are treated as equivalent; see DESIGN.md.
func SizeForBudget(maxTokens, reservedTokens int) (int, error) {
	if reservedTokens == 0 {
		reservedTokens = DefaultReservedTokens
	}
	if reservedTokens < 0 {
		return 0, &ConfigError{Field: "reserved_tokens", Message: "must not be negative"}
	}
	size := maxTokens - reservedTokens
	if size <= 0 {
		return 0, &ConfigError{
			Field:   "max_tokens",
			Message: "token budget must exceed the reserved prompt allowance",
		}
	}
	return size, nil
}

// window yields consecutive substrings of at most size runes each.
func window(text string, size int) iter.Seq[string] {
	return func(yield func(string) bool) {
		start, runes := 0, 0
		for i := range text {
			if runes == size {
				if !yield(text[start:i]) {
					return
				}
				start, runes = i, 0
			}
			runes++
		}
		if start < len(text) {
			yield(text[start:])
		}
	}
}
