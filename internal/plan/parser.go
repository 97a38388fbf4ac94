package plan

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/example/planassist/internal/models"
)

// Sentinel task titles substituted when model output cannot be parsed.
const (
	SentinelReviewTitle = "Review AI response"
	SentinelErrorTitle  = "Error parsing AI response"
)

// ParseTasks extracts a task array from the raw text of a model response.
// It finds the first outermost [...] span, decodes it and maps every
// element through Normalize, assigning a fresh ID to each. The result is
// never empty-handed: text without an array yields a single review
// sentinel, and a decode failure yields a single error sentinel, so the
// conversation always receives something actionable. An empty array is a
// successful parse with zero tasks, not an error.
func ParseTasks(text string) []models.Task {
	span := extractJSONArray(stripCodeFences(text))
	if span == "" {
		return []models.Task{{
			ID:            uuid.NewString(),
			Title:         SentinelReviewTitle,
			Description:   "The AI generated a response but it couldn't be parsed into tasks. Please review the message.",
			Priority:      models.PriorityMedium,
			EstimatedTime: "15 min",
			DueDate:       DefaultDueDate,
		}}
	}
	var raw []any
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return []models.Task{{
			ID:            uuid.NewString(),
			Title:         SentinelErrorTitle,
			Description:   "There was an error processing the AI response. Please try again with a clearer description.",
			Priority:      models.PriorityHigh,
			EstimatedTime: "10 min",
			DueDate:       DefaultDueDate,
		}}
	}
	tasks := make([]models.Task, 0, len(raw))
	for _, entry := range raw {
		m, _ := entry.(map[string]any)
		t := Normalize(m)
		t.ID = uuid.NewString()
		tasks = append(tasks, t)
	}
	return tasks
}

// extractJSONArray returns the first top-level [...] span in s, or "" when
// there is none. Bracket depth is tracked so nested arrays stay inside the
// span.
func extractJSONArray(s string) string {
	start := strings.IndexByte(s, '[')
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// stripCodeFences removes a surrounding markdown fence (```json ... ```)
// which models commonly wrap JSON output in.
func stripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if idx := strings.IndexByte(t, '\n'); idx != -1 {
		t = t[idx+1:]
	}
	if j := strings.LastIndex(t, "```"); j != -1 {
		t = t[:j]
	}
	return strings.TrimSpace(t)
}
