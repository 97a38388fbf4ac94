package generate

import (
	"github.com/google/uuid"

	"github.com/example/planassist/internal/models"
)

// NoCredentialResponse is the deterministic stand-in returned when no API
// key is available, neither on the request nor in configuration. Not an
// error: the response is marked as mock and the call succeeds.
func NoCredentialResponse(mode models.ChatMode) models.GenerateResponse {
	if mode == models.ModePlanning {
		return models.GenerateResponse{
			MockResponse: true,
			Error:        "API key is required. Please provide it in the settings.",
			Message:      "This is a mock response as no API key was provided. In a real implementation, you would need to provide a Gemini API key.",
			Tasks: []models.Task{{
				ID:            uuid.NewString(),
				Title:         "Set up Gemini API key",
				Description:   "Go to Settings > AI Assistant and add your Gemini API key to enable AI task generation.",
				Priority:      models.PriorityHigh,
				EstimatedTime: "5 min",
				DueDate:       "today",
			}},
		}
	}
	return models.GenerateResponse{
		MockResponse: true,
		Error:        "API key is required. Please provide it in the settings.",
		Message:      "This is a mock response as no API key was provided. In a real implementation, you would need to provide a Gemini API key. You can add your Gemini API key in Settings > AI Assistant.",
	}
}

// FailedResponse is the canned batch substituted when every backend in the
// chain failed. err carries the composed per-backend messages and is
// surfaced in the first sample task so the diagnostic stays visible.
func FailedResponse(mode models.ChatMode, err error) models.GenerateResponse {
	if mode != models.ModePlanning {
		return models.GenerateResponse{
			MockResponse: true,
			Error:        "Failed to generate response",
			Message:      "I'm sorry, I encountered an error while processing your request. Please check your API key in Settings or try again later.",
		}
	}
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return models.GenerateResponse{
		MockResponse: true,
		Error:        "Failed to generate tasks",
		Message:      "I've created some sample tasks for you. For real AI-generated tasks, please check your API key or try again later.",
		Tasks: []models.Task{
			{
				ID:            uuid.NewString(),
				Title:         "Sample task 1",
				Description:   "This is a sample task created because the AI task generation failed. The error was: " + detail,
				Priority:      models.PriorityHigh,
				EstimatedTime: "1 hour",
				DueDate:       "today",
				Subtasks: []models.Subtask{
					{Title: "Check API key in settings"},
					{Title: "Try again later"},
				},
			},
			{
				ID:            uuid.NewString(),
				Title:         "Sample task 2",
				Description:   "Another sample task to help you get started.",
				Priority:      models.PriorityMedium,
				EstimatedTime: "45 min",
				DueDate:       "today",
			},
			{
				ID:            uuid.NewString(),
				Title:         "Sample task 3",
				Description:   "A third sample task with low priority.",
				Priority:      models.PriorityLow,
				EstimatedTime: "30 min",
				DueDate:       "upcoming",
			},
		},
	}
}
