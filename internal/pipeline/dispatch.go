package pipeline

import (
	"context"
	"strings"

	"github.com/jonathan/takeaways/internal/llm"
	"github.com/jonathan/takeaways/internal/prompts"
)

// ChunkCallback is called after each successful generation call. Index is 0-based.
type ChunkCallback func(index, total int, output string)

// Dispatch renders each chunk into the template and sends it to the client,
// strictly one call at a time and in chunk order. The first failure aborts
// the run and no outputs are returned.
func Dispatch(ctx context.Context, client llm.Client, tpl prompts.Template, chunks []string, onChunk ChunkCallback) ([]string, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	total := len(chunks)
	outputs := make([]string, 0, total)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, &GenerationError{Chunk: i + 1, Total: total, Cause: err}
		}

		prompt, err := tpl.Render(chunk)
		if err != nil {
			return nil, err
		}

		out, err := client.Generate(ctx, prompt)
		if err != nil {
			return nil, &GenerationError{Chunk: i + 1, Total: total, Cause: err}
		}

		outputs = append(outputs, out)
		if onChunk != nil {
			onChunk(i, total, out)
		}
	}
	return outputs, nil
}

// Aggregate joins per-chunk outputs with a single newline, unmodified.
func Aggregate(outputs []string) string {
	return strings.Join(outputs, "\n")
}
