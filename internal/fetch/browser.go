// Package fetch - browser.go provides headless browser rendering for script-heavy pages.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// MinContentLength is the minimum extracted text length to consider HTTP fetch successful.
// If content is shorter, we should fall back to browser rendering.
const MinContentLength = 500

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely rendered by JavaScript.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("starting headless browser", zap.String("url", url))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// give client-side rendering a moment
		chromedp.Sleep(2*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// cookie banners; absence is fine
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug("rendered page", zap.String("url", url), zap.Int("bytes", len(html)))
	return html, nil
}
