package ingestion

import (
	"go.uber.org/zap"

	"github.com/jonathan/takeaways/internal/config"
	"github.com/jonathan/takeaways/internal/fetch"
)

// OptionsFromConfig builds loader options from the fetch settings.
// A positive CacheTTL enables the in-memory page cache.
func OptionsFromConfig(cfg config.FetchConfig, logger *zap.Logger) *Options {
	fetchOpts := &fetch.Options{Timeout: cfg.Timeout}
	opts := &Options{
		Fetch:               fetchOpts,
		UseBrowser:          cfg.UseBrowser,
		TranscriptLanguages: cfg.TranscriptLanguages,
		Logger:              logger,
	}
	if cfg.CacheTTL > 0 {
		opts.Pages = fetch.NewCachedFetcher(&fetch.CachedFetcherConfig{
			Size: cfg.CacheSize,
			TTL:  cfg.CacheTTL,
			Options: &fetch.PageOptions{
				Fetch:      fetchOpts,
				UseBrowser: cfg.UseBrowser,
				Logger:     logger,
			},
		})
	}
	return opts
}
