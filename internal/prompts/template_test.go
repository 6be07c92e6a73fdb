package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_SubstitutesContent(t *testing.T) {
	got, err := Template("Content: {content}").Render("hello")
	require.NoError(t, err)
	assert.Equal(t, "Content: hello", got)
}

func TestRender_ContentIsNotReinterpreted(t *testing.T) {
	got, err := Template("Content: {content}").Render("literal {language} and {content}")
	require.NoError(t, err)
	assert.Equal(t, "Content: literal {language} and {content}", got)
}

func TestRender_MissingPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		tpl  Template
	}{
		{name: "no placeholder", tpl: "Summarize this please"},
		{name: "wrong placeholder", tpl: "Summarize {text}"},
		{name: "empty", tpl: ""},
		{name: "whitespace", tpl: "  \n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tpl.Render("hello")
			require.Error(t, err)

			var tplErr *TemplateError
			assert.ErrorAs(t, err, &tplErr)
		})
	}
}

func TestBindLanguage(t *testing.T) {
	tpl := Template("Answer in {language}. Content: {content}")
	assert.True(t, tpl.HasLanguage())

	bound := tpl.BindLanguage("German")
	assert.False(t, bound.HasLanguage())
	assert.Equal(t, Template("Answer in German. Content: {content}"), bound)

	got, err := bound.Render("abc")
	require.NoError(t, err)
	assert.Equal(t, "Answer in German. Content: abc", got)
}

func TestBindLanguage_NoSlot(t *testing.T) {
	tpl := Template("Content: {content}")
	assert.Equal(t, tpl, tpl.BindLanguage("French"))
}

func TestTemplateError_Message(t *testing.T) {
	err := &TemplateError{Task: "custom", Message: "template has no {content} placeholder"}
	assert.Equal(t, "template error in custom: template has no {content} placeholder", err.Error())

	err = &TemplateError{Message: "template is empty"}
	assert.Equal(t, "template error: template is empty", err.Error())
}
