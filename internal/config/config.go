// Package config loads the service configuration from a file and the
// environment, and resolves the active generator profile.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/takeaways/internal/logger"
	"github.com/jonathan/takeaways/internal/schemas"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TAKEAWAYS_SERVER_PORT.
const EnvPrefix = "TAKEAWAYS"

//go:embed schema.json
var schemaJSON string

// Config is the single configuration object for the CLI and the server.
type Config struct {
	Profile  string             `mapstructure:"profile" json:"profile" validate:"required"`
	Profiles map[string]Profile `mapstructure:"profiles" json:"profiles,omitempty" validate:"dive"`
	Server   ServerConfig       `mapstructure:"server" json:"server"`
	Session  SessionConfig      `mapstructure:"session" json:"session"`
	Fetch    FetchConfig        `mapstructure:"fetch" json:"fetch"`
	LLM      LLMConfig          `mapstructure:"llm" json:"llm"`
	Log      logger.Config      `mapstructure:"log" json:"log"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port            int             `mapstructure:"port" json:"port" validate:"min=1,max=65535"`
	AllowedOrigins  []string        `mapstructure:"allowed_origins" json:"allowed_origins"`
	MaxUploadBytes  int64           `mapstructure:"max_upload_bytes" json:"max_upload_bytes" validate:"gt=0"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout" json:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig sets the token bucket for generation endpoints. Zero disables it.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" json:"requests_per_minute" validate:"gte=0"`
	Burst             int `mapstructure:"burst" json:"burst" validate:"gte=0"`
}

// FetchConfig configures content acquisition.
type FetchConfig struct {
	Timeout             time.Duration `mapstructure:"timeout" json:"timeout"`
	UseBrowser          bool          `mapstructure:"use_browser" json:"use_browser"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"` // zero disables the page cache
	CacheSize           int           `mapstructure:"cache_size" json:"cache_size" validate:"gte=0"`
	TranscriptLanguages []string      `mapstructure:"transcript_languages" json:"transcript_languages"`
}

// LLMConfig holds provider settings shared by every request.
type LLMConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" json:"timeout"`
	Temperature   float32       `mapstructure:"temperature" json:"temperature" validate:"gte=0,lte=2"`
	OpenAIBaseURL string        `mapstructure:"openai_base_url" json:"openai_base_url" validate:"omitempty,url"`

	// TokenWarnings counts real tokens of the first prompt and warns when it exceeds the model window.
	TokenWarnings bool `mapstructure:"token_warnings" json:"token_warnings"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Profile: DefaultProfile,
		Server: ServerConfig{
			Port:            8080,
			AllowedOrigins:  []string{"*"},
			MaxUploadBytes:  10 << 20,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       RateLimitConfig{RequestsPerMinute: 20, Burst: 5},
		},
		Session: SessionConfig{
			TTL:         8 * time.Hour,
			MaxSessions: 1000,
			CookieName:  "takeaways_session",
		},
		Fetch: FetchConfig{
			Timeout:             30 * time.Second,
			CacheSize:           128,
			TranscriptLanguages: []string{"de", "en"},
		},
		LLM: LLMConfig{
			Timeout:       2 * time.Minute,
			TokenWarnings: true,
		},
		Log: *logger.DefaultConfig(),
	}
}

// LoadConfig reads an optional JSON/YAML file, applies TAKEAWAYS_* environment
// overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	for name, p := range cfg.Profiles {
		if p.Name == "" {
			p.Name = name
			cfg.Profiles[name] = p
		}
	}

	if err := cfg.Session.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("profile", d.Profile)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.rate_limit.requests_per_minute", d.Server.RateLimit.RequestsPerMinute)
	v.SetDefault("server.rate_limit.burst", d.Server.RateLimit.Burst)
	v.SetDefault("session.secret", d.Session.Secret)
	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("session.max_sessions", d.Session.MaxSessions)
	v.SetDefault("session.cookie_name", d.Session.CookieName)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.use_browser", d.Fetch.UseBrowser)
	v.SetDefault("fetch.cache_ttl", d.Fetch.CacheTTL)
	v.SetDefault("fetch.cache_size", d.Fetch.CacheSize)
	v.SetDefault("fetch.transcript_languages", d.Fetch.TranscriptLanguages)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.openai_base_url", d.LLM.OpenAIBaseURL)
	v.SetDefault("llm.token_warnings", d.LLM.TokenWarnings)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("log.file.filename", d.Log.File.Filename)
	v.SetDefault("log.file.maxsize", d.Log.File.MaxSize)
	v.SetDefault("log.file.maxage", d.Log.File.MaxAge)
	v.SetDefault("log.file.maxbackups", d.Log.File.MaxBackups)
	v.SetDefault("log.file.compress", d.Log.File.Compress)
}

// Validate checks the configuration against struct rules, the embedded JSON
// Schema and the task and model catalogs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := schemas.ValidateJSONString(schemaJSON, string(doc)); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if _, err := c.ActiveProfile(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// ActiveProfile resolves the configured profile. Profiles defined in the
// file take precedence over built-in ones with the same name.
func (c *Config) ActiveProfile() (*Profile, error) {
	return c.LookupProfile(c.Profile)
}

// LookupProfile resolves a profile by name.
func (c *Config) LookupProfile(name string) (*Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		var err error
		if p, err = ProfileByName(name); err != nil {
			return nil, err
		}
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	return &p, nil
}
