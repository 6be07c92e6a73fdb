package main

import (
	"github.com/jonathan/takeaways/internal/config"
	"github.com/jonathan/takeaways/internal/ingestion"
	"github.com/jonathan/takeaways/internal/pipeline"
)

// newRunner wires the loader and model clients for a profile.
func newRunner(cfg *config.Config, profile *config.Profile) *pipeline.Runner {
	return &pipeline.Runner{
		Loader:        &ingestion.Loader{Options: ingestion.OptionsFromConfig(cfg.Fetch, appLogger)},
		NewClient:     pipeline.NewClientFactory(cfg.LLM),
		Profile:       profile,
		Logger:        appLogger,
		TokenWarnings: cfg.LLM.TokenWarnings,
	}
}
