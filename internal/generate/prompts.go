package generate

import (
	"fmt"

	"github.com/example/planassist/internal/models"
)

// buildPrompt wraps the user input in the mode's template. Planning mode
// asks for a strict JSON array the parser can lift out of the reply; every
// other mode gets the conversational template.
func buildPrompt(mode models.ChatMode, input string) string {
	if mode == models.ModePlanning {
		return fmt.Sprintf(planningTemplate, input)
	}
	return fmt.Sprintf(generalTemplate, input)
}

const planningTemplate = `Based on the following user input, generate a structured plan with tasks.
User input: %q

Please return a JSON array of tasks with the following structure:
[
  {
    "title": "Task title",
    "description": "Detailed description of the task",
    "priority": "high" | "medium" | "low",
    "estimatedTime": "Time estimate (e.g., '30 min', '2 hours')",
    "timeSlot": "Optional time slot (e.g., '9:00 AM - 10:30 AM')",
    "dueDate": "today" | "upcoming" | "completed",
    "subtasks": [
      { "title": "Subtask title", "completed": false }
    ]
  }
]

Generate 3-5 tasks that are realistic, actionable, and relevant to the user's input.
Make sure to include a mix of priorities and appropriate time estimates.
For complex tasks, include subtasks to break them down.`

const generalTemplate = `You are a helpful productivity assistant. Respond to the following user input in a conversational, helpful manner.
Provide specific, actionable advice when appropriate.

User input: %q

Keep your response concise but informative. If the user is asking about productivity, time management, or work-related topics,
provide evidence-based advice when possible. If the user is asking for a plan or tasks, suggest they switch to the "Task Planning" mode.`
