package fetch

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheSize is the number of pages kept by a CachedFetcher.
const DefaultCacheSize = 128

// CachedFetcher wraps Page with an in-memory, expiring cache keyed by URL.
// Nothing is written to disk.
type CachedFetcher struct {
	pages   *expirable.LRU[string, *Article]
	options *PageOptions
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	Size    int
	TTL     time.Duration
	Options *PageOptions
}

// NewCachedFetcher creates a new cached fetcher.
func NewCachedFetcher(config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = &CachedFetcherConfig{}
	}
	size := config.Size
	if size <= 0 {
		size = DefaultCacheSize
	}
	ttl := config.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedFetcher{
		pages:   expirable.NewLRU[string, *Article](size, nil, ttl),
		options: config.Options,
	}
}

// CachedResult extends Article with cache metadata.
type CachedResult struct {
	*Article
	FromCache bool
}

// Fetch returns the cached article for a URL, fetching it when absent or expired.
// Failed fetches are not cached.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if article, ok := f.pages.Get(urlStr); ok {
		return &CachedResult{Article: article, FromCache: true}, nil
	}

	article, err := Page(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}
	f.pages.Add(urlStr, article)
	return &CachedResult{Article: article}, nil
}

// Invalidate drops a URL from the cache.
func (f *CachedFetcher) Invalidate(urlStr string) {
	f.pages.Remove(urlStr)
}

// Len returns the number of cached pages.
func (f *CachedFetcher) Len() int {
	return f.pages.Len()
}
