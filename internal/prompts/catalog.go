package prompts

import (
	"fmt"
	"strings"
)

// Task keys of the built-in catalog.
const (
	TaskKeyTakeaways = "key-takeaways"
	TaskInstagram    = "instagram-post"
	TaskTweetThread  = "tweet-thread"
	TaskStudentNotes = "student-notes"
	TaskFAQSummary   = "faq-summary"
	TaskCustom       = "custom"
)

// CustomLanguage is the selector entry that asks for a free-text language.
const CustomLanguage = "Custom"

// Task describes one entry of the task selector.
type Task struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Template Template `json:"template,omitempty"`
}

var taskLabels = []Task{
	{Key: TaskKeyTakeaways, Label: "Key Takeaways"},
	{Key: TaskInstagram, Label: "Instagram Post"},
	{Key: TaskTweetThread, Label: "Tweet Post"},
	{Key: TaskStudentNotes, Label: "Student Notes"},
	{Key: TaskFAQSummary, Label: "FAQ Summary"},
	{Key: TaskCustom, Label: "Custom Prompt"},
}

// Languages is the fixed language list offered before the Custom entry.
var Languages = []string{"German", "English", "French", "Spanish", "Italian"}

// Tasks returns the task selector entries in display order, with built-in templates filled.
func Tasks() ([]Task, error) {
	tasks := make([]Task, 0, len(taskLabels))
	for _, t := range taskLabels {
		if t.Key != TaskCustom {
			tpl, err := Get(TasksFile, t.Key)
			if err != nil {
				return nil, err
			}
			t.Template = Template(tpl)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// TaskLabel returns the display label for a task key, or the key itself.
func TaskLabel(key string) string {
	for _, t := range taskLabels {
		if t.Key == key {
			return t.Label
		}
	}
	return key
}

// Resolve picks the template for a task. The custom task uses customText,
// falling back to the key-takeaways template when customText is blank.
func Resolve(task, customText string) (Template, error) {
	if task == "" {
		task = TaskKeyTakeaways
	}
	if task == TaskCustom {
		if strings.TrimSpace(customText) != "" {
			return Template(customText), nil
		}
		task = TaskKeyTakeaways
	}

	tpl, err := Get(TasksFile, task)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTask, task)
	}
	return Template(tpl), nil
}

// ResolveLanguage maps a selector choice to the language token bound into templates.
// An empty custom entry resolves to the literal selector label.
func ResolveLanguage(choice, custom string) string {
	if choice == CustomLanguage {
		if custom = strings.TrimSpace(custom); custom != "" {
			return custom
		}
		return CustomLanguage
	}
	return choice
}
