package models

// Priority levels a task may carry. Anything else is coerced to medium
// during normalization.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ValidPriority reports whether p is one of the three recognized levels.
func ValidPriority(p Priority) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// ChatMode is the active conversational intent. It selects the prompt
// template and whether model output is parsed into tasks.
type ChatMode string

const (
	ModePlanning ChatMode = "planning"
	ModeGeneral  ChatMode = "general"
	ModeDocument ChatMode = "document"
)

// ValidMode reports whether m is a known chat mode.
func ValidMode(m ChatMode) bool {
	return m == ModePlanning || m == ModeGeneral || m == ModeDocument
}

// Subtask is a checklist entry under a task.
type Subtask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Task is a single actionable item. Every Task emitted by the planning
// pipeline has a non-empty Title, a valid Priority and a non-empty
// EstimatedTime; the normalizer is the single place that guarantees this.
type Task struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Priority      Priority  `json:"priority"`
	EstimatedTime string    `json:"estimatedTime"`
	TimeSlot      string    `json:"timeSlot,omitempty"`
	DueDate       string    `json:"dueDate"`
	Completed     bool      `json:"completed"`
	Subtasks      []Subtask `json:"subtasks,omitempty"`
}

// Message roles in a conversation log.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a session's conversation log. Insertion order is
// display order; the log is append-only within a session.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest is the body of a generation request.
type GenerateRequest struct {
	Prompt string   `json:"prompt"`
	APIKey string   `json:"apiKey,omitempty"`
	Mode   ChatMode `json:"mode"`
}

// GenerateResponse is the wire response for a generation request. Tasks is
// present only for planning mode. MockResponse marks a locally generated
// stand-in; Error then carries the diagnostic but the request still
// succeeds at the HTTP level.
type GenerateResponse struct {
	Message      string `json:"message"`
	Tasks        []Task `json:"tasks,omitempty"`
	MockResponse bool   `json:"mockResponse,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ExtractResponse is the wire response for a document extraction request.
type ExtractResponse struct {
	Text string `json:"text"`
}
