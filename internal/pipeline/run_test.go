package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/takeaways/internal/chunking"
	"github.com/jonathan/takeaways/internal/config"
	"github.com/jonathan/takeaways/internal/ingestion"
	"github.com/jonathan/takeaways/internal/llm"
	"github.com/jonathan/takeaways/internal/prompts"
)

type stubLoader struct {
	text  string
	err   error
	calls int
}

func (s *stubLoader) Load(_ context.Context, _ ingestion.Source) (*ingestion.Document, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &ingestion.Document{Text: s.text, Metadata: ingestion.NewMetadata(s.text, ingestion.KindFile)}, nil
}

type stubLLM struct {
	prompts  []string
	failOn   int
	creds    []llm.Credentials
	models   []string
	newCalls int
}

func (s *stubLLM) factory(_ context.Context, model llm.Model, creds llm.Credentials) (llm.Client, error) {
	s.newCalls++
	s.creds = append(s.creds, creds)
	s.models = append(s.models, model.Name)
	return &llm.FuncClient{ModelName: model.Name, Fn: func(_ context.Context, prompt string) (string, error) {
		s.prompts = append(s.prompts, prompt)
		if s.failOn > 0 && len(s.prompts) == s.failOn {
			return "", errors.New("upstream unavailable")
		}
		return "OUT(" + prompt + ")", nil
	}}, nil
}

func fileSource() ingestion.Source {
	return ingestion.Source{File: &ingestion.Upload{Name: "notes.txt", Data: []byte("ignored")}}
}

func testProfile() *config.Profile {
	return &config.Profile{
		Name:              "test",
		ChunkSizeSource:   config.ChunkFixed,
		FixedChunkSize:    5,
		DefaultTask:       prompts.TaskKeyTakeaways,
		Tasks:             []string{prompts.TaskKeyTakeaways},
		AllowCustomPrompt: true,
		DefaultLanguage:   "German",
		DefaultModel:      "gpt-3.5-turbo",
		Models:            []string{"gpt-3.5-turbo", "gpt-4"},
		CredentialSource:  config.CredentialRequest,
	}
}

func newRunner(loader *stubLoader, gen *stubLLM, profile *config.Profile) *Runner {
	return &Runner{Loader: loader, NewClient: gen.factory, Profile: profile}
}

var key = llm.Credentials{APIKey: "sk-test-key-123456"}

func TestRun_ChunksGeneratesAndJoins(t *testing.T) {
	loader := &stubLoader{text: "abcdefghij"}
	gen := &stubLLM{}
	runner := newRunner(loader, gen, testProfile())

	var steps []string
	result, err := runner.Run(context.Background(), Request{
		Source:       fileSource(),
		Task:         prompts.TaskCustom,
		CustomPrompt: "Content: {content}",
		OnProgress:   func(ev ProgressEvent) { steps = append(steps, ev.Step) },
	}, key)

	require.NoError(t, err)
	assert.Equal(t, "OUT(Content: abcde)\nOUT(Content: fghij)", result.Output)
	assert.Equal(t, []string{"Content: abcde", "Content: fghij"}, gen.prompts)
	assert.Equal(t, 2, result.Chunks)
	assert.Equal(t, 5, result.ChunkSize)
	assert.Equal(t, "gpt-3.5-turbo", result.Model)
	assert.Equal(t, prompts.TaskCustom, result.Task)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []llm.Credentials{key}, gen.creds)
	assert.Equal(t,
		[]string{StepValidate, StepLoad, StepChunk, StepGenerate, StepGenerate, StepComplete},
		steps)
}

func TestRun_FailureOnSecondChunkProducesNoOutput(t *testing.T) {
	gen := &stubLLM{failOn: 2}
	runner := newRunner(&stubLoader{text: "aaaaabbbbbccccc"}, gen, testProfile())

	result, err := runner.Run(context.Background(), Request{Source: fileSource()}, key)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Len(t, gen.prompts, 2)
	assert.Equal(t, KindGenerationFailure, KindOf(err))
	assert.Equal(t, "Generation failed on part 2 of 3. No output was produced.", UserMessage(err))
}

func TestRun_EmptyTextSkipsGeneration(t *testing.T) {
	gen := &stubLLM{}
	runner := newRunner(&stubLoader{text: ""}, gen, testProfile())

	result, err := runner.Run(context.Background(), Request{Source: fileSource()}, key)
	require.NoError(t, err)
	assert.Equal(t, "", result.Output)
	assert.Equal(t, 0, result.Chunks)
	assert.Zero(t, gen.newCalls)
}

func TestRun_WholeTextWhenChunkingDisabled(t *testing.T) {
	profile := testProfile()
	profile.ChunkSizeSource = config.ChunkNone
	gen := &stubLLM{}
	runner := newRunner(&stubLoader{text: strings.Repeat("x", 50)}, gen, profile)

	result, err := runner.Run(context.Background(), Request{
		Source:       fileSource(),
		Task:         prompts.TaskCustom,
		CustomPrompt: "{content}",
	}, key)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Chunks)
	assert.Equal(t, []string{strings.Repeat("x", 50)}, gen.prompts)
}

func TestRun_ChunkSizeFromModelBudget(t *testing.T) {
	profile := testProfile()
	profile.ChunkSizeSource = config.ChunkModel
	profile.ReservedTokens = 96
	runner := newRunner(&stubLoader{text: "short"}, &stubLLM{}, profile)

	result, err := runner.Run(context.Background(), Request{Source: fileSource(), Model: "gpt-4"}, key)
	require.NoError(t, err)
	assert.Equal(t, 8192-96, result.ChunkSize)
	assert.Equal(t, "gpt-4", result.Model)
}

func TestRun_ChunkSizeOverride(t *testing.T) {
	gen := &stubLLM{}
	runner := newRunner(&stubLoader{text: "abcdef"}, gen, testProfile())

	result, err := runner.Run(context.Background(), Request{
		Source:       fileSource(),
		Task:         prompts.TaskCustom,
		CustomPrompt: "{content}",
		ChunkSize:    2,
	}, key)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "cd", "ef"}, gen.prompts)
	assert.Equal(t, "OUT(ab)\nOUT(cd)\nOUT(ef)", result.Output)
}

func TestRun_LanguageBoundOnce(t *testing.T) {
	profile := testProfile()
	profile.Languages = prompts.Languages
	profile.AllowCustomLanguage = true
	gen := &stubLLM{}
	runner := newRunner(&stubLoader{text: "abcdefghij"}, gen, profile)

	result, err := runner.Run(context.Background(), Request{
		Source:         fileSource(),
		Task:           prompts.TaskCustom,
		CustomPrompt:   "In {language}: {content}",
		Language:       prompts.CustomLanguage,
		CustomLanguage: "Dutch",
	}, key)
	require.NoError(t, err)
	assert.Equal(t, "Dutch", result.Language)
	assert.Equal(t, []string{"In Dutch: abcde", "In Dutch: fghij"}, gen.prompts)
}

func TestRun_CredentialFromEnvironment(t *testing.T) {
	t.Setenv(llm.EnvKey(llm.ProviderOpenAI), "sk-from-env-987654")
	profile := testProfile()
	profile.CredentialSource = config.CredentialEnv
	gen := &stubLLM{}
	runner := newRunner(&stubLoader{text: "abc"}, gen, profile)

	_, err := runner.Run(context.Background(), Request{Source: fileSource()}, llm.Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env-987654", gen.creds[0].APIKey)
}

func TestRun_ValidationFailsBeforeLoading(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		creds   llm.Credentials
		profile func(*config.Profile)
		kind    Kind
	}{
		{
			name:  "no source",
			req:   Request{},
			creds: llm.Credentials{},
			kind:  KindMissingInput,
		},
		{
			name:  "no key",
			req:   Request{Source: fileSource()},
			creds: llm.Credentials{},
			kind:  KindMissingCredential,
		},
		{
			name:  "template without content slot",
			req:   Request{Source: fileSource(), Task: prompts.TaskCustom, CustomPrompt: "Summarize please"},
			creds: key,
			kind:  KindTemplateError,
		},
		{
			name:  "task not offered",
			req:   Request{Source: fileSource(), Task: prompts.TaskInstagram},
			creds: key,
			kind:  KindTemplateError,
		},
		{
			name:  "negative chunk size",
			req:   Request{Source: fileSource(), ChunkSize: -1},
			creds: key,
			kind:  KindInvalidConfiguration,
		},
		{
			name:    "zero fixed chunk size",
			req:     Request{Source: fileSource()},
			creds:   key,
			profile: func(p *config.Profile) { p.FixedChunkSize = 0 },
			kind:    KindInvalidConfiguration,
		},
		{
			name:  "model not offered",
			req:   Request{Source: fileSource(), Model: "gpt-4-32k"},
			creds: key,
			kind:  KindInvalidConfiguration,
		},
		{
			name:  "unknown model",
			req:   Request{Source: fileSource(), Model: "davinci"},
			creds: key,
			kind:  KindInvalidConfiguration,
		},
		{
			name:  "language not offered",
			req:   Request{Source: fileSource(), Language: "Klingon"},
			creds: key,
			profile: func(p *config.Profile) {
				p.Languages = prompts.Languages
			},
			kind: KindInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := testProfile()
			if tt.profile != nil {
				tt.profile(profile)
			}
			loader := &stubLoader{text: "abc"}
			gen := &stubLLM{}
			runner := newRunner(loader, gen, profile)

			_, err := runner.Run(context.Background(), tt.req, tt.creds)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Zero(t, loader.calls)
			assert.Zero(t, gen.newCalls)
		})
	}
}

func TestRun_MissingInputReportedFirst(t *testing.T) {
	runner := newRunner(&stubLoader{}, &stubLLM{}, testProfile())

	_, err := runner.Run(context.Background(), Request{
		Task:         prompts.TaskCustom,
		CustomPrompt: "no slot",
		ChunkSize:    -5,
	}, llm.Credentials{})
	assert.Equal(t, KindMissingInput, KindOf(err))
}

func TestRun_CredentialReportedBeforeTemplate(t *testing.T) {
	runner := newRunner(&stubLoader{}, &stubLLM{}, testProfile())

	_, err := runner.Run(context.Background(), Request{
		Source:       fileSource(),
		Task:         prompts.TaskCustom,
		CustomPrompt: "no slot",
	}, llm.Credentials{})
	assert.Equal(t, KindMissingCredential, KindOf(err))
}

func TestRun_TemplateReportedBeforeChunkSize(t *testing.T) {
	runner := newRunner(&stubLoader{}, &stubLLM{}, testProfile())

	_, err := runner.Run(context.Background(), Request{
		Source:       fileSource(),
		Task:         prompts.TaskCustom,
		CustomPrompt: "no slot",
		ChunkSize:    -5,
	}, key)
	assert.Equal(t, KindTemplateError, KindOf(err))

	var tplErr *prompts.TemplateError
	require.ErrorAs(t, err, &tplErr)
	assert.Equal(t, prompts.TaskCustom, tplErr.Task)
}

func TestRun_ContentLoadFailure(t *testing.T) {
	loadErr := &ingestion.LoadError{Source: "https://example.com", Message: "fetch failed"}
	gen := &stubLLM{}
	runner := newRunner(&stubLoader{err: loadErr}, gen, testProfile())

	_, err := runner.Run(context.Background(), Request{Source: fileSource()}, key)
	assert.Equal(t, KindContentLoadFailure, KindOf(err))
	assert.ErrorIs(t, err, loadErr)
	assert.Zero(t, gen.newCalls)
}

func TestRun_FactoryMissingKey(t *testing.T) {
	runner := &Runner{
		Loader:  &stubLoader{text: "abc"},
		Profile: testProfile(),
		NewClient: func(context.Context, llm.Model, llm.Credentials) (llm.Client, error) {
			return nil, llm.ErrMissingAPIKey
		},
	}

	_, err := runner.Run(context.Background(), Request{Source: fileSource()}, key)
	assert.Equal(t, KindMissingCredential, KindOf(err))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
		want string
	}{
		{&MissingInputError{}, KindMissingInput, "Please enter a URL or upload a file."},
		{&MissingCredentialError{Provider: "openai"}, KindMissingCredential, "Please enter your API key."},
		{&ContentLoadError{Cause: errors.New("boom")}, KindContentLoadFailure, "Could not load the content. Check the URL or the file and try again."},
		{&chunking.ConfigError{Field: "chunk_size", Message: "must be positive"}, KindInvalidConfiguration, "Invalid settings: chunk_size must be positive."},
		{&prompts.TemplateError{Message: "template is empty"}, KindTemplateError, "The prompt cannot be used: template is empty."},
		{errors.New("other"), KindUnknown, "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
	assert.Equal(t, "", UserMessage(nil))
}
