package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/jonathan/takeaways/internal/config"
	"github.com/jonathan/takeaways/internal/llm"
	"github.com/jonathan/takeaways/internal/prompts"
)

// generateInput holds the choices of one generate invocation, from flags or the form.
type generateInput struct {
	URL            string
	File           string
	Task           string
	Prompt         string
	Language       string
	CustomLanguage string
	Model          string
	APIKey         string
}

var errNoSource = errors.New("enter a URL or a file path")

// newGenerateForm builds the interactive form for a profile. Only the
// options the profile offers are shown.
func newGenerateForm(profile *config.Profile, in *generateInput) *huh.Form {
	setFormDefaults(profile, in)

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title("URL").
				Description("Web page or YouTube video; leave empty to use a file").
				Value(&in.URL),
			huh.NewInput().
				Title("File").
				Description("Path to a .txt or .md file").
				Value(&in.File).
				Validate(func(s string) error {
					if strings.TrimSpace(in.URL) == "" && strings.TrimSpace(s) == "" {
						return errNoSource
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Task").
				Options(taskOptions(profile)...).
				Value(&in.Task),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Custom prompt").
				Description("Use {content} where the text goes and {language} for the output language").
				Value(&in.Prompt),
		).WithHideFunc(func() bool { return in.Task != prompts.TaskCustom }),
	}

	if len(profile.Languages) > 0 {
		groups = append(groups,
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Language").
					Options(languageOptions(profile)...).
					Value(&in.Language),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Custom language").
					Value(&in.CustomLanguage),
			).WithHideFunc(func() bool { return in.Language != prompts.CustomLanguage }),
		)
	}

	if len(profile.Models) > 1 {
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title("Model").
				Options(modelOptions(profile)...).
				Value(&in.Model),
		))
	}

	if strings.TrimSpace(in.APIKey) == "" && profile.RequiresCredential() {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("API key").
				Description("Used for this run only; leave empty to use the environment").
				EchoMode(huh.EchoModePassword).
				Value(&in.APIKey),
		))
	}

	return huh.NewForm(groups...)
}

func setFormDefaults(profile *config.Profile, in *generateInput) {
	if in.Task == "" {
		in.Task = profile.DefaultTask
	}
	if in.Language == "" {
		in.Language = profile.DefaultLanguage
	}
	if in.Model == "" {
		in.Model = profile.DefaultModel
	}
}

func taskOptions(profile *config.Profile) []huh.Option[string] {
	tasks, err := prompts.Tasks()
	if err != nil {
		return []huh.Option[string]{huh.NewOption(prompts.TaskLabel(profile.DefaultTask), profile.DefaultTask)}
	}
	var opts []huh.Option[string]
	for _, t := range tasks {
		if profile.AllowsTask(t.Key) {
			opts = append(opts, huh.NewOption(t.Label, t.Key))
		}
	}
	return opts
}

func languageOptions(profile *config.Profile) []huh.Option[string] {
	opts := huh.NewOptions(profile.Languages...)
	if profile.AllowCustomLanguage {
		opts = append(opts, huh.NewOption(prompts.CustomLanguage, prompts.CustomLanguage))
	}
	return opts
}

func modelOptions(profile *config.Profile) []huh.Option[string] {
	var opts []huh.Option[string]
	for _, name := range profile.Models {
		label := name
		if m, err := llm.LookupModel(name); err == nil {
			label = m.Label
		}
		opts = append(opts, huh.NewOption(label, name))
	}
	return opts
}
