package prompts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(TasksFile, TaskKeyTakeaways)
	require.NoError(t, err)
	assert.Contains(t, prompt, "extract key takeaways")
	assert.Contains(t, prompt, ContentPlaceholder)
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(TasksFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet(TasksFile, TaskTweetThread))
	})
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List(TasksFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		TaskFAQSummary,
		TaskInstagram,
		TaskKeyTakeaways,
		TaskStudentNotes,
		TaskTweetThread,
	}, keys)
}

func TestCatalogTemplatesAreUsable(t *testing.T) {
	ClearCache()

	keys, err := List(TasksFile)
	require.NoError(t, err)
	for _, key := range keys {
		tpl := Template(MustGet(TasksFile, key))
		assert.NoError(t, tpl.Validate(), key)
	}
}

func TestTasks_DisplayOrder(t *testing.T) {
	tasks, err := Tasks()
	require.NoError(t, err)
	require.Len(t, tasks, 6)

	assert.Equal(t, TaskKeyTakeaways, tasks[0].Key)
	assert.Equal(t, "Key Takeaways", tasks[0].Label)
	assert.NotEmpty(t, tasks[0].Template)

	last := tasks[len(tasks)-1]
	assert.Equal(t, TaskCustom, last.Key)
	assert.Empty(t, last.Template)
}

func TestTaskLabel(t *testing.T) {
	assert.Equal(t, "Tweet Post", TaskLabel(TaskTweetThread))
	assert.Equal(t, "unknown", TaskLabel("unknown"))
}

func TestResolve(t *testing.T) {
	takeaways := Template(MustGet(TasksFile, TaskKeyTakeaways))

	tests := []struct {
		name   string
		task   string
		custom string
		want   Template
	}{
		{name: "built-in task", task: TaskStudentNotes, want: Template(MustGet(TasksFile, TaskStudentNotes))},
		{name: "empty task defaults", task: "", want: takeaways},
		{name: "custom text", task: TaskCustom, custom: "Summarize: {content}", want: "Summarize: {content}"},
		{name: "blank custom falls back", task: TaskCustom, custom: "   ", want: takeaways},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.task, tt.custom)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_UnknownTask(t *testing.T) {
	_, err := Resolve("limerick", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTask))
}

func TestResolveLanguage(t *testing.T) {
	assert.Equal(t, "German", ResolveLanguage("German", "ignored"))
	assert.Equal(t, "Dutch", ResolveLanguage(CustomLanguage, " Dutch "))
	assert.Equal(t, CustomLanguage, ResolveLanguage(CustomLanguage, ""))
}
