package plan

import (
	"github.com/example/planassist/internal/models"
)

// Placeholder values substituted when model output lacks a field.
const (
	DefaultTitle         = "Untitled Task"
	DefaultSubtaskTitle  = "Untitled Subtask"
	DefaultEstimatedTime = "1 hour"
	DefaultDueDate       = "today"
)

// Normalize repairs one arbitrary task-like value into a valid Task. It is
// pure, never fails, and always returns a best-effort result: missing or
// wrong-typed fields get placeholders, unrecognized priorities collapse to
// medium, and Completed is forced false regardless of input. The caller
// assigns the ID.
func Normalize(raw map[string]any) models.Task {
	t := models.Task{
		Title:         stringField(raw, "title", DefaultTitle),
		Description:   stringField(raw, "description", ""),
		Priority:      models.Priority(stringField(raw, "priority", "")),
		EstimatedTime: stringField(raw, "estimatedTime", DefaultEstimatedTime),
		TimeSlot:      stringField(raw, "timeSlot", ""),
		DueDate:       stringField(raw, "dueDate", DefaultDueDate),
		Completed:     false,
	}
	if t.Title == "" {
		t.Title = DefaultTitle
	}
	if !models.ValidPriority(t.Priority) {
		t.Priority = models.PriorityMedium
	}
	if t.EstimatedTime == "" {
		t.EstimatedTime = DefaultEstimatedTime
	}
	if t.DueDate == "" {
		t.DueDate = DefaultDueDate
	}
	// Subtasks are kept only when the source value is actually a sequence;
	// anything else leaves the field absent rather than empty.
	if seq, ok := raw["subtasks"].([]any); ok {
		subs := make([]models.Subtask, 0, len(seq))
		for _, entry := range seq {
			subs = append(subs, normalizeSubtask(entry))
		}
		t.Subtasks = subs
	}
	return t
}

func normalizeSubtask(v any) models.Subtask {
	st := models.Subtask{Title: DefaultSubtaskTitle}
	m, ok := v.(map[string]any)
	if !ok {
		return st
	}
	if title := stringField(m, "title", ""); title != "" {
		st.Title = title
	}
	if done, ok := m["completed"].(bool); ok {
		st.Completed = done
	}
	return st
}

func stringField(m map[string]any, key, def string) string {
	if m == nil {
		return def
	}
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return def
}
