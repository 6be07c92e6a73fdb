// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/takeaways/internal/ingestion"
	"github.com/jonathan/takeaways/internal/pipeline"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// previewRunes is how much of the output the summary shows
	previewRunes = 160
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSource outputs where the content came from and how large it was.
func (p *Printer) PrintSource(meta *ingestion.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Kind:     %s\n", meta.Kind))
	if meta.URL != "" {
		sb.WriteString(fmt.Sprintf("URL:      %s\n", meta.URL))
	}
	if meta.FileName != "" {
		sb.WriteString(fmt.Sprintf("File:     %s\n", meta.FileName))
	}
	if meta.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", meta.Title))
	}
	sb.WriteString(fmt.Sprintf("Chars:    %d\n", meta.Chars))
	if meta.FromCache {
		sb.WriteString("Cached:   yes\n")
	}
	if len(meta.Hash) >= 12 {
		sb.WriteString(fmt.Sprintf("Hash:     %s", meta.Hash[:12]))
	}

	p.printBox("SOURCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs the run summary and a short preview of the output.
func (p *Printer) PrintResult(result *pipeline.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", result.RunID))
	sb.WriteString(fmt.Sprintf("Task:     %s\n", result.Task))
	sb.WriteString(fmt.Sprintf("Language: %s\n", result.Language))
	sb.WriteString(fmt.Sprintf("Model:    %s\n", result.Model))
	if result.ChunkSize > 0 {
		sb.WriteString(fmt.Sprintf("Chunks:   %d x %d chars\n", result.Chunks, result.ChunkSize))
	} else {
		sb.WriteString(fmt.Sprintf("Chunks:   %d\n", result.Chunks))
	}
	sb.WriteString(fmt.Sprintf("Duration: %s\n", result.Duration.Round(time.Millisecond)))

	if preview := strings.TrimSpace(result.Output); preview != "" {
		sb.WriteString("\n")
		sb.WriteString(truncate(preview, previewRunes))
	}

	p.printBox("GENERATION", strings.TrimSuffix(sb.String(), "\n"))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
