package ratelimit

import (
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	// IdleTTL drops buckets of clients that have been quiet this long.
	IdleTTL time.Duration
	// MaxBuckets bounds memory; the least recently used bucket is dropped first.
	MaxBuckets      int
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a configuration where every generation endpoint allows
// perMinute requests per client with the given burst. Zero disables limiting.
func NewConfig(perMinute, burst int) *Config {
	if perMinute <= 0 {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    perMinute * 10,
		DefaultWindow:   time.Minute,
		IdleTTL:         time.Hour,
		MaxBuckets:      10000,
		EndpointConfigs: GenerationEndpoints(perMinute, burst),
	}
}

// GenerationEndpoints returns the endpoint limits for the calls that reach a model provider.
func GenerationEndpoints(perMinute, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/generate", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
		{Path: "/generate/stream", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
		{Path: "/session", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
	}
}
