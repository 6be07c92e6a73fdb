package config

import (
	"fmt"
	"sort"

	"github.com/jonathan/takeaways/internal/llm"
	"github.com/jonathan/takeaways/internal/prompts"
)

// Chunk size sources
const (
	ChunkFixed = "fixed" // FixedChunkSize characters per chunk
	ChunkModel = "model" // model context window minus ReservedTokens
	ChunkNone  = "none"  // whole text in one request
)

// Credential sources
const (
	CredentialRequest = "request" // supplied by the user for the session
	CredentialEnv     = "env"     // read from the provider's environment variable
)

// DefaultProfile is the profile used when none is configured.
const DefaultProfile = "multilingual"

// Profile captures what one user-facing variant of the generator offers.
type Profile struct {
	Name                string   `mapstructure:"name" json:"name" validate:"required"`
	ChunkSizeSource     string   `mapstructure:"chunk_size_source" json:"chunk_size_source" validate:"oneof=fixed model none"`
	FixedChunkSize      int      `mapstructure:"fixed_chunk_size" json:"fixed_chunk_size" validate:"required_if=ChunkSizeSource fixed,gte=0"`
	ReservedTokens      int      `mapstructure:"reserved_tokens" json:"reserved_tokens" validate:"gte=0"`
	DefaultTask         string   `mapstructure:"default_task" json:"default_task" validate:"required"`
	Tasks               []string `mapstructure:"tasks" json:"tasks" validate:"required,min=1,dive,required"`
	AllowCustomPrompt   bool     `mapstructure:"allow_custom_prompt" json:"allow_custom_prompt"`
	Languages           []string `mapstructure:"languages" json:"languages"`
	AllowCustomLanguage bool     `mapstructure:"allow_custom_language" json:"allow_custom_language"`
	DefaultLanguage     string   `mapstructure:"default_language" json:"default_language"`
	DefaultModel        string   `mapstructure:"default_model" json:"default_model" validate:"required"`
	Models              []string `mapstructure:"models" json:"models" validate:"required,min=1,dive,required"`
	CredentialSource    string   `mapstructure:"credential_source" json:"credential_source" validate:"oneof=request env"`
}

var allTasks = []string{
	prompts.TaskKeyTakeaways,
	prompts.TaskInstagram,
	prompts.TaskTweetThread,
	prompts.TaskStudentNotes,
	prompts.TaskFAQSummary,
}

var openAIModels = []string{"gpt-3.5-turbo", "gpt-4", "gpt-4-32k"}

// builtinProfiles reproduce the shipped variants, from the single fixed
// template up to the multilingual generator with per-session keys.
var builtinProfiles = map[string]Profile{
	"basic": {
		Name:             "basic",
		ChunkSizeSource:  ChunkNone,
		DefaultTask:      prompts.TaskKeyTakeaways,
		Tasks:            []string{prompts.TaskKeyTakeaways},
		DefaultLanguage:  "German",
		DefaultModel:     "gpt-3.5-turbo",
		Models:           []string{"gpt-3.5-turbo"},
		CredentialSource: CredentialEnv,
	},
	"editor": {
		Name:              "editor",
		ChunkSizeSource:   ChunkNone,
		DefaultTask:       prompts.TaskKeyTakeaways,
		Tasks:             []string{prompts.TaskKeyTakeaways},
		AllowCustomPrompt: true,
		DefaultLanguage:   "German",
		DefaultModel:      "gpt-3.5-turbo",
		Models:            []string{"gpt-3.5-turbo"},
		CredentialSource:  CredentialEnv,
	},
	"chunked": {
		Name:              "chunked",
		ChunkSizeSource:   ChunkFixed,
		FixedChunkSize:    2000,
		DefaultTask:       prompts.TaskKeyTakeaways,
		Tasks:             allTasks,
		AllowCustomPrompt: true,
		DefaultLanguage:   "German",
		DefaultModel:      "gpt-3.5-turbo",
		Models:            []string{"gpt-3.5-turbo"},
		CredentialSource:  CredentialEnv,
	},
	"tasks": {
		Name:              "tasks",
		ChunkSizeSource:   ChunkModel,
		DefaultTask:       prompts.TaskKeyTakeaways,
		Tasks:             allTasks,
		AllowCustomPrompt: true,
		DefaultLanguage:   "German",
		DefaultModel:      "gpt-3.5-turbo",
		Models:            openAIModels,
		CredentialSource:  CredentialEnv,
	},
	DefaultProfile: {
		Name:                DefaultProfile,
		ChunkSizeSource:     ChunkModel,
		DefaultTask:         prompts.TaskKeyTakeaways,
		Tasks:               allTasks,
		AllowCustomPrompt:   true,
		Languages:           prompts.Languages,
		AllowCustomLanguage: true,
		DefaultLanguage:     "German",
		DefaultModel:        "gpt-3.5-turbo",
		Models:              append(append([]string{}, openAIModels...), "gemini-2.5-flash"),
		CredentialSource:    CredentialRequest,
	},
}

// ProfileByName returns a built-in profile.
func ProfileByName(name string) (Profile, error) {
	p, ok := builtinProfiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	return p, nil
}

// ProfileNames lists built-in profile names, sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllowsTask reports whether the profile offers a task key.
func (p *Profile) AllowsTask(task string) bool {
	if task == prompts.TaskCustom {
		return p.AllowCustomPrompt
	}
	return contains(p.Tasks, task)
}

// AllowsModel reports whether the profile offers a model.
func (p *Profile) AllowsModel(model string) bool {
	return contains(p.Models, model)
}

// RequiresCredential reports whether the user must supply an API key.
func (p *Profile) RequiresCredential() bool {
	return p.CredentialSource == CredentialRequest
}

// check verifies references to the task and model catalogs.
func (p *Profile) check() error {
	for _, task := range p.Tasks {
		if _, err := prompts.Resolve(task, ""); err != nil {
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
	}
	if !contains(p.Tasks, p.DefaultTask) && !(p.DefaultTask == prompts.TaskCustom && p.AllowCustomPrompt) {
		return fmt.Errorf("profile %s: default task %q is not offered", p.Name, p.DefaultTask)
	}
	for _, model := range p.Models {
		if _, err := llm.LookupModel(model); err != nil {
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
	}
	if !contains(p.Models, p.DefaultModel) {
		return fmt.Errorf("profile %s: default model %q is not offered", p.Name, p.DefaultModel)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
