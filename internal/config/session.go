package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// SessionConfig holds configuration for session token signing and expiry.
type SessionConfig struct {
	// Secret signs session tokens. When empty a random secret is generated,
	// so sessions do not survive a restart.
	Secret      string        `mapstructure:"secret" json:"-"`
	TTL         time.Duration `mapstructure:"ttl" json:"ttl"`
	MaxSessions int           `mapstructure:"max_sessions" json:"max_sessions" validate:"gte=1"`
	CookieName  string        `mapstructure:"cookie_name" json:"cookie_name" validate:"required"`
}

// normalize fills the secret and validates the expiry.
func (c *SessionConfig) normalize() error {
	if c.Secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		c.Secret = hex.EncodeToString(buf)
	}
	if c.TTL < time.Minute {
		return fmt.Errorf("session ttl must be at least 1 minute, got: %s", c.TTL)
	}
	return nil
}
