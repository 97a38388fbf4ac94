// Package session owns the per-conversation state: chat mode, message log
// and the staged-but-uncommitted task batch. It orchestrates generation
// and extraction results into UI-observable state. One session is owned by
// one caller; requests are serialized by a single-flight guard.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/planassist/internal/generate"
	"github.com/example/planassist/internal/models"
)

// Greeting seeds every fresh session's message log.
const Greeting = "Hi there! I can help you create a structured plan or answer general questions. What would you like to do today?"

// planningPrefix is prepended to user input before generation, in planning
// mode only.
const planningPrefix = "Create a task plan for: "

// previewLimit bounds the extracted-text preview appended to the log.
const previewLimit = 500

// ErrBusy signals a second request while one is in flight. The UI disables
// input during that window, so hitting this is a caller-side bug.
var ErrBusy = errors.New("a request is already in progress")

// ErrUnknownMode signals a mode switch to something outside the mode set.
var ErrUnknownMode = errors.New("unknown chat mode")

// Generator produces a response for a generation request.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (models.GenerateResponse, error)
}

// TaskStore receives staged tasks on explicit commit.
type TaskStore interface {
	Add(tasks []models.Task)
}

// Session is one conversation. Create with New; zero value is not usable.
type Session struct {
	mu       sync.Mutex
	mode     models.ChatMode
	messages []models.Message
	staged   []models.Task
	awaiting bool

	gen      Generator
	store    TaskStore
	logger   *slog.Logger
	ackDelay time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithAckDelay overrides the fixed acknowledgment delay used after
// document extraction. Tests set it to zero.
func WithAckDelay(d time.Duration) Option {
	return func(s *Session) { s.ackDelay = d }
}

// New returns a session in planning mode seeded with the greeting.
func New(gen Generator, store TaskStore, opts ...Option) *Session {
	s := &Session{
		mode:     models.ModePlanning,
		messages: []models.Message{{Role: models.RoleAssistant, Content: Greeting}},
		gen:      gen,
		store:    store,
		logger:   slog.Default(),
		ackDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitInput appends the user message, runs the generation chain and
// appends exactly one assistant message regardless of how the chain fared.
// In planning mode the staged batch is replaced wholesale by the result.
// Only legal while idle.
func (s *Session) SubmitInput(ctx context.Context, text string) (models.GenerateResponse, error) {
	if strings.TrimSpace(text) == "" {
		return models.GenerateResponse{}, generate.ErrEmptyPrompt
	}

	s.mu.Lock()
	if s.awaiting {
		s.mu.Unlock()
		return models.GenerateResponse{}, ErrBusy
	}
	s.awaiting = true
	mode := s.mode
	s.messages = append(s.messages, models.Message{Role: models.RoleUser, Content: text})
	s.mu.Unlock()

	prompt := text
	if mode == models.ModePlanning {
		prompt = planningPrefix + text
	}
	resp, err := s.gen.Generate(ctx, generate.Request{Prompt: prompt, Mode: mode})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaiting = false
	if err != nil {
		// The chain absorbs upstream failures itself; anything reaching
		// here still must leave the user with a response message.
		s.logger.Error("generation failed", "mode", mode, "error", err)
		s.messages = append(s.messages, models.Message{
			Role:    models.RoleAssistant,
			Content: "I'm sorry, I encountered an error while generating tasks. Please try again or check your API key in Settings.",
		})
		return models.GenerateResponse{}, err
	}
	s.messages = append(s.messages, models.Message{Role: models.RoleAssistant, Content: resp.Message})
	if mode == models.ModePlanning {
		s.staged = resp.Tasks
	}
	return resp, nil
}

// ChangeMode switches the conversational mode. Switching announces the new
// mode's behavior with one assistant message and, when leaving planning
// for general or document, clears the staged batch. The message log is
// never cleared. Only legal while idle; same-mode switches are no-ops.
func (s *Session) ChangeMode(newMode models.ChatMode) error {
	if !models.ValidMode(newMode) {
		return fmt.Errorf("%w: %q", ErrUnknownMode, newMode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.awaiting {
		return ErrBusy
	}
	if newMode == s.mode {
		return nil
	}
	s.mode = newMode
	s.messages = append(s.messages, models.Message{
		Role:    models.RoleAssistant,
		Content: modeAnnouncement(newMode),
	})
	if newMode == models.ModeGeneral || newMode == models.ModeDocument {
		s.staged = nil
	}
	return nil
}

func modeAnnouncement(mode models.ChatMode) string {
	switch mode {
	case models.ModeGeneral:
		return "I'm now in general chat mode. Feel free to ask me anything or discuss ideas."
	case models.ModeDocument:
		return "I'm now in document analysis mode. Upload an image or PDF, and I'll extract and analyze the text for you."
	default:
		return "I'll help you create a structured plan. Describe your day or goals, and I'll break it down into manageable tasks."
	}
}

// ReceiveExtractedText records a document extraction result as a user
// message carrying a bounded preview of the text, waits the fixed
// acknowledgment delay and appends the canned analysis invitation. No
// model call is made here. Only legal while idle.
func (s *Session) ReceiveExtractedText(text string) error {
	s.mu.Lock()
	if s.awaiting {
		s.mu.Unlock()
		return ErrBusy
	}
	s.awaiting = true
	s.messages = append(s.messages, models.Message{
		Role:    models.RoleUser,
		Content: "I've uploaded a document with the following content:\n\n" + preview(text),
	})
	s.mu.Unlock()

	time.Sleep(s.ackDelay)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaiting = false
	s.messages = append(s.messages, models.Message{
		Role:    models.RoleAssistant,
		Content: "I've analyzed the document. What would you like to know about it? You can ask me to summarize it, extract key points, or ask specific questions about its content.",
	})
	return nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "..."
}

// CommitStagedTasks moves the staged batch into the task store, confirms
// with one assistant message and clears the buffer. Committing an empty
// buffer is a no-op: no store interaction, no message. Returns the number
// of tasks committed.
func (s *Session) CommitStagedTasks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.staged) == 0 {
		return 0
	}
	n := len(s.staged)
	s.store.Add(s.staged)
	s.messages = append(s.messages, models.Message{
		Role:    models.RoleAssistant,
		Content: fmt.Sprintf("%d tasks added to your task list!", n),
	})
	s.staged = nil
	return n
}

// Reset reinitializes the session: greeting-only log, empty staged batch,
// planning mode. Legal at any time.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = models.ModePlanning
	s.messages = []models.Message{{Role: models.RoleAssistant, Content: Greeting}}
	s.staged = nil
	s.awaiting = false
}

// Mode returns the active chat mode.
func (s *Session) Mode() models.ChatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Messages returns a copy of the conversation log in display order.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// StagedTasks returns a copy of the uncommitted batch.
func (s *Session) StagedTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.staged))
	copy(out, s.staged)
	return out
}
