package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

// Article is the readable text of a web page.
type Article struct {
	URL      string
	Title    string
	Text     string
	Excerpt  string
	Rendered bool // true when the HTML came from the headless browser
}

// PageOptions configures Page.
type PageOptions struct {
	Fetch          *Options
	UseBrowser     bool
	BrowserTimeout time.Duration
	Logger         *zap.Logger
}

// ExtractArticle returns the main article of an HTML document. It uses
// readability first and falls back to selector-based extraction.
func ExtractArticle(html, pageURL string) (*Article, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed == nil {
		parsed = &url.URL{}
	}

	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return &Article{
			URL:     pageURL,
			Title:   strings.TrimSpace(article.Title),
			Text:    cleanWhitespace(article.TextContent),
			Excerpt: article.Excerpt,
		}, nil
	}

	text, err := ExtractMainText(html, DefaultTextSelectors())
	if err != nil {
		return nil, err
	}
	return &Article{
		URL:   pageURL,
		Title: extractTitle(html),
		Text:  text,
	}, nil
}

// Page fetches a URL and extracts its article text. When UseBrowser is set and
// the plain HTTP result is too short, the page is rendered with chromedp instead.
func Page(ctx context.Context, urlStr string, opts *PageOptions) (*Article, error) {
	if opts == nil {
		opts = &PageOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	result, err := URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return nil, err
	}

	article, err := ExtractArticle(result.HTML, urlStr)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	if opts.UseBrowser && ShouldUseBrowser(article.Text) {
		logger.Info("page text is short, rendering in browser",
			zap.String("url", urlStr),
			zap.Int("chars", len(article.Text)))

		timeout := opts.BrowserTimeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		html, berr := WithBrowser(ctx, urlStr, timeout, logger)
		if berr != nil {
			logger.Warn("browser rendering failed, keeping HTTP result", zap.Error(berr))
		} else if rendered, rerr := ExtractArticle(html, urlStr); rerr == nil && len(rendered.Text) > len(article.Text) {
			rendered.Rendered = true
			article = rendered
		}
	}

	if strings.TrimSpace(article.Text) == "" {
		return nil, &Error{URL: urlStr, Message: "page has no readable text"}
	}
	return article, nil
}

func extractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// String renders a short description for logs.
func (a *Article) String() string {
	return fmt.Sprintf("%s (%q, %d chars)", a.URL, a.Title, len(a.Text))
}
