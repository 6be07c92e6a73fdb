// Package ingestion turns a user-supplied source (a URL or an uploaded text
// file) into plain text with metadata.
package ingestion

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/takeaways/internal/fetch"
	"go.uber.org/zap"
)

// DefaultExtensions are the upload extensions accepted by Load.
var DefaultExtensions = []string{".txt", ".md"}

const byteOrderMark = "\ufeff"

// Upload is a file supplied by the user.
type Upload struct {
	Name string
	Data []byte
}

// Source is the user's content choice. URL takes precedence over File.
type Source struct {
	URL  string
	File *Upload
}

// Empty reports whether the source names no content at all.
func (s Source) Empty() bool {
	return strings.TrimSpace(s.URL) == "" && s.File == nil
}

// Document is acquired source text.
type Document struct {
	Text     string
	Metadata *Metadata
}

// Options configures Load. The zero value is usable.
type Options struct {
	Fetch               *fetch.Options
	UseBrowser          bool
	Pages               *fetch.CachedFetcher
	TranscriptLanguages []string
	WatchURL            string
	Extensions          []string
	Logger              *zap.Logger
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Loader acquires documents with fixed options.
type Loader struct {
	Options *Options
}

// Load implements acquisition with the loader's options.
func (l *Loader) Load(ctx context.Context, src Source) (*Document, error) {
	return Load(ctx, src, l.Options)
}

// Load acquires the text of a source. A non-empty URL always wins over a file.
func Load(ctx context.Context, src Source, opts *Options) (*Document, error) {
	if opts == nil {
		opts = &Options{}
	}

	if u := strings.TrimSpace(src.URL); u != "" {
		return loadURL(ctx, u, opts)
	}
	if src.File != nil {
		return loadUpload(src.File, opts)
	}
	return nil, ErrNoSource
}

func loadUpload(up *Upload, opts *Options) (*Document, error) {
	name := up.Name
	if name == "" {
		name = "upload"
	}

	allowed := opts.Extensions
	if len(allowed) == 0 {
		allowed = DefaultExtensions
	}
	if up.Name != "" && !hasExtension(up.Name, allowed) {
		return nil, &LoadError{
			Source:  name,
			Message: "allowed types are " + strings.Join(allowed, ", "),
			Cause:   ErrUnsupportedFile,
		}
	}

	if !utf8.Valid(up.Data) {
		return nil, &LoadError{Source: name, Message: "could not decode file", Cause: ErrInvalidEncoding}
	}
	text := strings.TrimPrefix(string(up.Data), byteOrderMark)

	meta := NewMetadata(text, KindFile)
	meta.FileName = up.Name
	opts.logger().Info("loaded file", zap.String("file", name), zap.Int("chars", meta.Chars))

	return &Document{Text: text, Metadata: meta}, nil
}

func hasExtension(name string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}
