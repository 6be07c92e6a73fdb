package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/takeaways/internal/types"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(body types.ErrorResponse) {
	s.WriteEvent("error", body) //nolint:errcheck
}

// WriteComplete sends the final result
func (s *SSEWriter) WriteComplete(resp types.GenerateResponse) {
	s.WriteEvent("complete", resp) //nolint:errcheck
}
