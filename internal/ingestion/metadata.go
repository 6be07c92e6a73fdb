package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// Kind identifies where a document came from.
type Kind string

// Document kinds
const (
	KindWeb   Kind = "web"
	KindVideo Kind = "video"
	KindFile  Kind = "file"
)

// Metadata contains metadata about an acquired document
type Metadata struct {
	URL       string `json:"url,omitempty"`
	FileName  string `json:"file_name,omitempty"`
	Kind      Kind   `json:"kind"`
	Title     string `json:"title,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest
	Chars     int    `json:"chars"`     // length in runes
	FromCache bool   `json:"from_cache,omitempty"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, kind Kind) *Metadata {
	return &Metadata{
		Kind:      kind,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
		Chars:     utf8.RuneCountInString(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
