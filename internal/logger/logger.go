// Package logger builds the zap loggers used across the service.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config defines the logger configuration
type Config struct {
	Level  string     `mapstructure:"level" json:"level"`   // debug, info, warn, error
	Format string     `mapstructure:"format" json:"format"` // json, console
	Output string     `mapstructure:"output" json:"output"` // console, file, both
	File   FileConfig `mapstructure:"file" json:"file"`
}

// FileConfig defines file output configuration
type FileConfig struct {
	Filename   string `mapstructure:"filename" json:"filename"`
	MaxSize    int    `mapstructure:"maxsize" json:"maxsize"` // MB
	MaxAge     int    `mapstructure:"maxage" json:"maxage"`   // days
	MaxBackups int    `mapstructure:"maxbackups" json:"maxbackups"`
	Compress   bool   `mapstructure:"compress" json:"compress"`
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "console",
		Output: "console",
		File: FileConfig{
			Filename:   "logs/takeaways.log",
			MaxSize:    100,
			MaxAge:     30,
			MaxBackups: 10,
			Compress:   true,
		},
	}
}

// Validate validates the logger configuration
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(strings.ToLower(c.Level)); err != nil {
		return fmt.Errorf("invalid log level %q", c.Level)
	}
	if c.Format != "json" && c.Format != "console" {
		return errors.New("invalid log format, must be 'json' or 'console'")
	}
	switch c.Output {
	case "console":
	case "file", "both":
		if c.File.Filename == "" {
			return errors.New("log file filename is required when output is 'file' or 'both'")
		}
		if c.File.MaxSize <= 0 {
			return errors.New("log file maxsize must be greater than 0")
		}
	default:
		return errors.New("invalid log output, must be 'console', 'file' or 'both'")
	}
	return nil
}

// New creates a logger. Console output goes to stderr so command output on
// stdout stays clean.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger configuration: %w", err)
	}
	return build(cfg, zapcore.AddSync(os.Stderr))
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func build(cfg *Config, console zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var writers []zapcore.WriteSyncer
	switch cfg.Output {
	case "file":
		writers = append(writers, zapcore.AddSync(fileWriter(&cfg.File)))
	case "both":
		writers = append(writers, console, zapcore.AddSync(fileWriter(&cfg.File)))
	default:
		writers = append(writers, console)
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// fileWriter creates a lumberjack file writer with rotation
func fileWriter(cfg *FileConfig) io.Writer {
	if err := os.MkdirAll(filepath.Dir(cfg.Filename), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
	}

	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}
