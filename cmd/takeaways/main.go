// Package main provides the takeaways command: generate key takeaways, posts
// and notes from a web page, video or text file, or serve the same as an HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/takeaways/internal/config"
	"github.com/jonathan/takeaways/internal/logger"
)

var (
	configPath  string
	profileName string
	logLevel    string
)

// appConfig and appLogger are set by the root command before any subcommand runs.
var (
	appConfig *config.Config
	appLogger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "takeaways",
	Short: "Turn long content into takeaways, posts and notes",
	Long: `takeaways loads a web page, a YouTube transcript or a text file, splits it into
chunks that fit the model's context window, and runs a prompt over every chunk.
The per-chunk answers are joined in order into one result.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if appLogger != nil {
			_ = appLogger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "Generator profile (overrides the config file)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if profileName != "" {
		cfg.Profile = profileName
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return err
	}
	appConfig, appLogger = cfg, log
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
