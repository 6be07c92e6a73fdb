package ingestion

import (
	"context"
	"strings"

	"github.com/jonathan/takeaways/internal/fetch"
	"go.uber.org/zap"
)

// loadURL acquires the text behind a URL: a transcript for videos, the
// readable article for any other page.
func loadURL(ctx context.Context, urlStr string, opts *Options) (*Document, error) {
	logger := opts.logger()
	platform := fetch.DetectPlatform(urlStr)
	logger.Debug("loading url", zap.String("url", urlStr), zap.String("platform", string(platform)))

	if platform == fetch.PlatformYouTube {
		return loadVideo(ctx, urlStr, opts)
	}

	var (
		article   *fetch.Article
		fromCache bool
		err       error
	)
	if opts.Pages != nil {
		var cached *fetch.CachedResult
		cached, err = opts.Pages.Fetch(ctx, urlStr)
		if err == nil {
			article, fromCache = cached.Article, cached.FromCache
		}
	} else {
		article, err = fetch.Page(ctx, urlStr, &fetch.PageOptions{
			Fetch:      opts.Fetch,
			UseBrowser: opts.UseBrowser,
			Logger:     logger,
		})
	}
	if err != nil {
		return nil, &LoadError{Source: urlStr, Message: "could not retrieve page", Cause: err}
	}

	text := CleanText(article.Text)
	if text == "" {
		return nil, &LoadError{Source: urlStr, Message: "page has no readable text"}
	}

	meta := NewMetadata(text, KindWeb)
	meta.URL = urlStr
	meta.Title = article.Title
	meta.FromCache = fromCache
	logger.Info("loaded web page",
		zap.String("url", urlStr),
		zap.Int("chars", meta.Chars),
		zap.Bool("from_cache", fromCache))

	return &Document{Text: text, Metadata: meta}, nil
}

func loadVideo(ctx context.Context, urlStr string, opts *Options) (*Document, error) {
	id, _ := fetch.VideoID(urlStr)

	text, err := fetch.Transcript(ctx, id, &fetch.TranscriptOptions{
		WatchURL:  opts.WatchURL,
		Languages: opts.TranscriptLanguages,
		Fetch:     opts.Fetch,
	})
	if err != nil {
		return nil, &LoadError{Source: urlStr, Message: "could not retrieve transcript", Cause: err}
	}

	text = strings.TrimSpace(text)
	meta := NewMetadata(text, KindVideo)
	meta.URL = urlStr
	opts.logger().Info("loaded video transcript",
		zap.String("video_id", id),
		zap.Int("chars", meta.Chars))

	return &Document{Text: text, Metadata: meta}, nil
}
