package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Path matching supports prefix matching (e.g., "/generate/" matches "/generate/stream").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks and preflight requests are never limited
	if (path == "/health" && method == "GET") || method == "OPTIONS" {
		return &EndpointConfig{}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
