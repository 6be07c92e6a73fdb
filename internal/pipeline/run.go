// Package pipeline orchestrates one generation run: validate the request,
// acquire the content, split it into chunks, generate per chunk and join
// the results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/takeaways/internal/chunking"
	"github.com/jonathan/takeaways/internal/config"
	"github.com/jonathan/takeaways/internal/ingestion"
	"github.com/jonathan/takeaways/internal/llm"
	"github.com/jonathan/takeaways/internal/prompts"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Chunk   int    `json:"chunk,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Progress steps
const (
	StepValidate = "validate"
	StepLoad     = "load"
	StepChunk    = "chunk"
	StepGenerate = "generate"
	StepComplete = "complete"
)

// Request is everything the user chose for one run.
type Request struct {
	Source         ingestion.Source
	Task           string
	CustomPrompt   string
	Language       string
	CustomLanguage string
	Model          string
	// ChunkSize overrides the profile's chunk size when non-zero.
	ChunkSize  int
	OnProgress ProgressCallback
}

// Result is the outcome of a successful run.
type Result struct {
	RunID     string              `json:"run_id"`
	Output    string              `json:"output"`
	Chunks    int                 `json:"chunks"`
	ChunkSize int                 `json:"chunk_size"`
	Model     string              `json:"model"`
	Task      string              `json:"task"`
	Language  string              `json:"language"`
	Metadata  *ingestion.Metadata `json:"metadata,omitempty"`
	Duration  time.Duration       `json:"duration"`
}

// ContentLoader acquires source text.
type ContentLoader interface {
	Load(ctx context.Context, src ingestion.Source) (*ingestion.Document, error)
}

// ClientFactory creates a client for one run.
type ClientFactory func(ctx context.Context, model llm.Model, creds llm.Credentials) (llm.Client, error)

// Runner executes runs for one profile.
type Runner struct {
	Loader    ContentLoader
	NewClient ClientFactory
	Profile   *config.Profile
	Logger    *zap.Logger

	// TokenWarnings enables the tiktoken check of the first rendered prompt.
	TokenWarnings bool
}

// plan is a validated request, ready to execute.
type plan struct {
	task      string
	language  string
	model     llm.Model
	template  prompts.Template
	chunkSize int // zero sends the whole text as one chunk
	creds     llm.Credentials
}

// Run validates the request, then loads, chunks and generates. Every check
// that does not need the content happens before any network access.
func (r *Runner) Run(ctx context.Context, req Request, creds llm.Credentials) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := r.logger().With(zap.String("run_id", runID))
	emit := func(ev ProgressEvent) {
		if req.OnProgress != nil {
			ev.RunID = runID
			req.OnProgress(ev)
		}
	}

	emit(ProgressEvent{Step: StepValidate, Message: "Checking request"})
	p, err := r.prepare(req, creds)
	if err != nil {
		return nil, err
	}

	emit(ProgressEvent{Step: StepLoad, Message: "Loading content"})
	doc, err := r.Loader.Load(ctx, req.Source)
	if err != nil {
		return nil, &ContentLoadError{Cause: err}
	}

	chunks, err := split(doc.Text, p.chunkSize)
	if err != nil {
		return nil, err
	}
	emit(ProgressEvent{Step: StepChunk, Message: fmt.Sprintf("Split content into %d chunks", len(chunks)), Total: len(chunks)})
	logger.Info("starting generation",
		zap.String("task", p.task),
		zap.String("model", p.model.Name),
		zap.Int("chunk_size", p.chunkSize),
		zap.Int("chunks", len(chunks)))
	r.warnOverBudget(logger, p, chunks)

	var outputs []string
	if len(chunks) > 0 {
		client, err := r.NewClient(ctx, p.model, p.creds)
		if err != nil {
			if errors.Is(err, llm.ErrMissingAPIKey) {
				return nil, &MissingCredentialError{Provider: string(p.model.Provider)}
			}
			return nil, &GenerationError{Chunk: 1, Total: len(chunks), Cause: err}
		}
		defer func() { _ = client.Close() }()

		outputs, err = Dispatch(ctx, client, p.template, chunks, func(i, total int, _ string) {
			logger.Debug("chunk generated", zap.Int("chunk", i+1), zap.Int("total", total))
			emit(ProgressEvent{
				Step:    StepGenerate,
				Message: fmt.Sprintf("Generated chunk %d of %d", i+1, total),
				Chunk:   i + 1,
				Total:   total,
			})
		})
		if err != nil {
			return nil, err
		}
	}

	result := &Result{
		RunID:     runID,
		Output:    Aggregate(outputs),
		Chunks:    len(chunks),
		ChunkSize: p.chunkSize,
		Model:     p.model.Name,
		Task:      p.task,
		Language:  p.language,
		Metadata:  doc.Metadata,
		Duration:  time.Since(start),
	}
	emit(ProgressEvent{Step: StepComplete, Message: "Done", Total: len(chunks)})
	logger.Info("generation complete", zap.Int("chunks", result.Chunks), zap.Duration("duration", result.Duration))
	return result, nil
}

// prepare performs the input, credential, template and chunk size checks, in that order.
func (r *Runner) prepare(req Request, creds llm.Credentials) (*plan, error) {
	profile := r.Profile
	if profile == nil {
		def, err := config.ProfileByName(config.DefaultProfile)
		if err != nil {
			return nil, err
		}
		profile = &def
	}

	if req.Source.Empty() {
		return nil, &MissingInputError{}
	}

	modelName := strings.TrimSpace(req.Model)
	if modelName == "" {
		modelName = profile.DefaultModel
	}
	model, modelErr := llm.LookupModel(modelName)
	provider := model.Provider
	if modelErr != nil {
		provider = llm.ProviderOpenAI
	}

	if creds.Empty() && profile.CredentialSource == config.CredentialEnv {
		creds = llm.CredentialsFromEnv(provider)
	}
	if creds.Empty() {
		return nil, &MissingCredentialError{Provider: string(provider)}
	}

	task := strings.TrimSpace(req.Task)
	if task == "" {
		task = profile.DefaultTask
	}
	if !profile.AllowsTask(task) {
		return nil, &prompts.TemplateError{Task: task, Message: "task is not available"}
	}
	tpl, err := prompts.Resolve(task, req.CustomPrompt)
	if err != nil {
		return nil, &prompts.TemplateError{Task: task, Message: err.Error()}
	}

	language, err := resolveLanguage(profile, req)
	if err != nil {
		return nil, err
	}
	tpl = tpl.BindLanguage(language)
	if err := tpl.Validate(); err != nil {
		var tplErr *prompts.TemplateError
		if errors.As(err, &tplErr) {
			tplErr.Task = task
		}
		return nil, err
	}

	if modelErr != nil {
		return nil, &chunking.ConfigError{Field: "model", Message: fmt.Sprintf("%q is not a known model", modelName)}
	}
	if !profile.AllowsModel(model.Name) {
		return nil, &chunking.ConfigError{Field: "model", Message: fmt.Sprintf("%q is not available", model.Name)}
	}

	size, err := chunkSize(profile, model, req.ChunkSize)
	if err != nil {
		return nil, err
	}

	return &plan{
		task:      task,
		language:  language,
		model:     model,
		template:  tpl,
		chunkSize: size,
		creds:     creds,
	}, nil
}

func resolveLanguage(profile *config.Profile, req Request) (string, error) {
	// profiles without a language list always answer in their default language
	if len(profile.Languages) == 0 {
		return profile.DefaultLanguage, nil
	}

	choice := strings.TrimSpace(req.Language)
	if choice == "" {
		choice = profile.DefaultLanguage
	}
	if choice == prompts.CustomLanguage {
		if !profile.AllowCustomLanguage {
			return "", &chunking.ConfigError{Field: "language", Message: "custom languages are not available"}
		}
		return prompts.ResolveLanguage(choice, req.CustomLanguage), nil
	}
	for _, l := range profile.Languages {
		if l == choice {
			return choice, nil
		}
	}
	return "", &chunking.ConfigError{Field: "language", Message: fmt.Sprintf("%q is not available", choice)}
}

func chunkSize(profile *config.Profile, model llm.Model, override int) (int, error) {
	if override < 0 {
		return 0, &chunking.ConfigError{Field: "chunk_size", Message: "must be positive"}
	}
	if override > 0 {
		return override, nil
	}

	switch profile.ChunkSizeSource {
	case config.ChunkNone:
		return 0, nil
	case config.ChunkFixed:
		if profile.FixedChunkSize <= 0 {
			return 0, &chunking.ConfigError{Field: "chunk_size", Message: "must be positive"}
		}
		return profile.FixedChunkSize, nil
	default:
		return chunking.SizeForBudget(model.MaxTokens, profile.ReservedTokens)
	}
}

func split(text string, size int) ([]string, error) {
	if size == 0 {
		if text == "" {
			return nil, nil
		}
		return []string{text}, nil
	}
	return chunking.Split(text, size)
}

// warnOverBudget logs when a rendered prompt likely exceeds the model window.
// Characters stand in for tokens when sizing chunks, so this is advisory only.
func (r *Runner) warnOverBudget(logger *zap.Logger, p *plan, chunks []string) {
	if !r.TokenWarnings || len(chunks) == 0 {
		return
	}
	counter := chunking.NewTokenCounter(p.model.Name)
	prompt, err := p.template.Render(chunks[0])
	if err != nil {
		return
	}
	if n := counter.Count(prompt); n > p.model.MaxTokens {
		logger.Warn("prompt may exceed the model context window",
			zap.Int("estimated_tokens", n),
			zap.Int("max_tokens", p.model.MaxTokens))
	}
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// NewClientFactory returns a factory that builds provider clients from shared settings.
func NewClientFactory(settings config.LLMConfig) ClientFactory {
	return func(ctx context.Context, model llm.Model, creds llm.Credentials) (llm.Client, error) {
		cfg := &llm.Config{
			Provider:    model.Provider,
			Model:       model.Name,
			Temperature: settings.Temperature,
			Timeout:     settings.Timeout,
		}
		if model.Provider == llm.ProviderOpenAI {
			cfg.BaseURL = settings.OpenAIBaseURL
		}
		return llm.NewClient(ctx, cfg, creds)
	}
}
