package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planassist/internal/models"
)

func TestParseTasks(t *testing.T) {
	t.Run("array embedded in prose", func(t *testing.T) {
		got := ParseTasks(`Here you go: [{"title":"A","priority":"bogus"}]`)
		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0].Title)
		assert.Equal(t, models.PriorityMedium, got[0].Priority)
		assert.NotEmpty(t, got[0].ID)
	})

	t.Run("no array yields review sentinel", func(t *testing.T) {
		got := ParseTasks("Sure! Let me think about your day in prose instead.")
		require.Len(t, got, 1)
		assert.Equal(t, SentinelReviewTitle, got[0].Title)
		assert.Equal(t, models.PriorityMedium, got[0].Priority)
	})

	t.Run("malformed array yields error sentinel", func(t *testing.T) {
		got := ParseTasks(`[{"title": "A", }]`)
		require.Len(t, got, 1)
		assert.Equal(t, SentinelErrorTitle, got[0].Title)
		assert.Equal(t, models.PriorityHigh, got[0].Priority)
	})

	t.Run("empty array is zero tasks, not a sentinel", func(t *testing.T) {
		got := ParseTasks("[]")
		assert.Empty(t, got)
		require.NotNil(t, got)
	})

	t.Run("unterminated array yields review sentinel", func(t *testing.T) {
		got := ParseTasks(`[{"title":"A"`)
		require.Len(t, got, 1)
		assert.Equal(t, SentinelReviewTitle, got[0].Title)
	})

	t.Run("code fenced array", func(t *testing.T) {
		text := "```json\n[{\"title\":\"Fenced\",\"priority\":\"low\"}]\n```"
		got := ParseTasks(text)
		require.Len(t, got, 1)
		assert.Equal(t, "Fenced", got[0].Title)
		assert.Equal(t, models.PriorityLow, got[0].Priority)
	})

	t.Run("nested subtask arrays stay inside the span", func(t *testing.T) {
		text := `Plan: [{"title":"Parent","subtasks":[{"title":"Child","completed":false}]}] done.`
		got := ParseTasks(text)
		require.Len(t, got, 1)
		require.Len(t, got[0].Subtasks, 1)
		assert.Equal(t, "Child", got[0].Subtasks[0].Title)
	})

	t.Run("every parsed task gets a distinct id", func(t *testing.T) {
		got := ParseTasks(`[{"title":"A"},{"title":"B"},{"title":"C"}]`)
		require.Len(t, got, 3)
		seen := map[string]bool{}
		for _, task := range got {
			require.NotEmpty(t, task.ID)
			assert.False(t, seen[task.ID])
			seen[task.ID] = true
		}
	})

	t.Run("non-object elements normalize to placeholders", func(t *testing.T) {
		got := ParseTasks(`["just a string", 42]`)
		require.Len(t, got, 2)
		for _, task := range got {
			assert.Equal(t, "Untitled Task", task.Title)
			assert.Equal(t, models.PriorityMedium, task.Priority)
		}
	})
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare array", `[1,2]`, `[1,2]`},
		{"leading prose", `result: [1,2] trailing`, `[1,2]`},
		{"nested arrays", `[[1],[2]]`, `[[1],[2]]`},
		{"no array", "nothing here", ""},
		{"unbalanced", "[1,2", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONArray(tt.input))
		})
	}
}
