package prompts

import "strings"

// Placeholders recognised in task templates.
const (
	ContentPlaceholder  = "{content}"
	LanguagePlaceholder = "{language}"
)

// Template is a prompt with a {content} slot and an optional {language} slot.
type Template string

// Validate checks that the template can carry content.
func (t Template) Validate() error {
	if strings.TrimSpace(string(t)) == "" {
		return &TemplateError{Message: "template is empty"}
	}
	if !strings.Contains(string(t), ContentPlaceholder) {
		return &TemplateError{Message: "template has no " + ContentPlaceholder + " placeholder"}
	}
	return nil
}

// HasLanguage reports whether the template has a {language} slot.
func (t Template) HasLanguage() bool {
	return strings.Contains(string(t), LanguagePlaceholder)
}

// BindLanguage fills the {language} slot. It runs once per generation,
// before any chunk is rendered; templates without the slot are returned unchanged.
func (t Template) BindLanguage(language string) Template {
	return Template(strings.ReplaceAll(string(t), LanguagePlaceholder, language))
}

// Render fills the {content} slot with one chunk of source text.
func (t Template) Render(content string) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(t), ContentPlaceholder, content), nil
}

func (t Template) String() string {
	return string(t)
}
