// Package ratelimit provides per-client rate limiting using the token bucket algorithm.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// TokenBucket represents a token bucket rate limiter.
// It allows a certain number of requests (tokens) per time window,
// with tokens refilling at a steady rate.
type TokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// refill must be called with mu held.
func (tb *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now
}

// take consumes a token if one is available and reports the bucket state afterwards.
func (tb *TokenBucket) take() (allowed bool, remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.refill(now)
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		allowed = true
	}

	remaining = int(tb.tokens)
	resetTime = now
	if tb.tokens < float64(tb.capacity) {
		secondsUntilFull := (float64(tb.capacity) - tb.tokens) / tb.refillRate
		resetTime = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return allowed, remaining, resetTime
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter manages rate limiting for multiple clients.
type Limiter struct {
	config  *Config
	mu      sync.Mutex
	buckets *expirable.LRU[string, *TokenBucket]
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = NewConfig(60, 10)
	}
	size := config.MaxBuckets
	if size <= 0 {
		size = 10000
	}
	ttl := config.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Limiter{
		config:  config,
		buckets: expirable.NewLRU[string, *TokenBucket](size, nil, ttl),
	}
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	if endpointConfig.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	bucket := l.getBucket(clientID+":"+endpoint+":"+method, endpointConfig)
	allowed, remaining, resetTime := bucket.take()

	var retryAfter time.Duration
	if !allowed {
		retryAfter = max(time.Until(resetTime), 0)
	}
	return allowed, Info{
		Allowed:    allowed,
		Limit:      endpointConfig.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

// getBucket gets or creates a bucket. Every access refreshes its idle expiry.
func (l *Limiter) getBucket(key string, cfg *EndpointConfig) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if bucket, ok := l.buckets.Get(key); ok {
		l.buckets.Add(key, bucket)
		return bucket
	}

	capacity := cfg.Burst
	if capacity <= 0 {
		capacity = cfg.Limit
	}
	bucket := newTokenBucket(capacity, float64(cfg.Limit)/cfg.Window.Seconds())
	l.buckets.Add(key, bucket)
	return bucket
}

// Len returns the number of tracked buckets.
func (l *Limiter) Len() int {
	return l.buckets.Len()
}

// Stop releases all buckets.
func (l *Limiter) Stop() {
	l.buckets.Purge()
}
