package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planassist/internal/generate"
	"github.com/example/planassist/internal/models"
)

type scriptedGenerator struct {
	resp  models.GenerateResponse
	err   error
	calls atomic.Int32
	last  generate.Request
	block chan struct{} // when non-nil, Generate waits until closed
}

func (g *scriptedGenerator) Generate(ctx context.Context, req generate.Request) (models.GenerateResponse, error) {
	g.last = req
	g.calls.Add(1)
	if g.block != nil {
		<-g.block
	}
	return g.resp, g.err
}

type recordingStore struct {
	mu    sync.Mutex
	added [][]models.Task
}

func (r *recordingStore) Add(tasks []models.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added = append(r.added, tasks)
}

func planningTasks(titles ...string) []models.Task {
	out := make([]models.Task, 0, len(titles))
	for _, title := range titles {
		out = append(out, models.Task{ID: title, Title: title, Priority: models.PriorityMedium, EstimatedTime: "1 hour", DueDate: "today"})
	}
	return out
}

func newTestSession(gen Generator) (*Session, *recordingStore) {
	st := &recordingStore{}
	return New(gen, st, WithAckDelay(0)), st
}

func TestNewSessionSeed(t *testing.T) {
	s, _ := newTestSession(&scriptedGenerator{})
	assert.Equal(t, models.ModePlanning, s.Mode())
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleAssistant, msgs[0].Role)
	assert.Equal(t, Greeting, msgs[0].Content)
	assert.Empty(t, s.StagedTasks())
}

func TestSubmitInputPlanning(t *testing.T) {
	gen := &scriptedGenerator{resp: models.GenerateResponse{
		Message: "Here is your plan.",
		Tasks:   planningTasks("A", "B"),
	}}
	s, _ := newTestSession(gen)

	resp, err := s.SubmitInput(context.Background(), "plan my day")
	require.NoError(t, err)
	assert.Equal(t, "Here is your plan.", resp.Message)

	// prompt prefix applies in planning mode only
	assert.Equal(t, "Create a task plan for: plan my day", gen.last.Prompt)
	assert.Equal(t, models.ModePlanning, gen.last.Mode)

	msgs := s.Messages()
	require.Len(t, msgs, 3) // greeting, user, assistant
	assert.Equal(t, models.RoleUser, msgs[1].Role)
	assert.Equal(t, "plan my day", msgs[1].Content)
	assert.Equal(t, models.RoleAssistant, msgs[2].Role)

	staged := s.StagedTasks()
	require.Len(t, staged, 2)
	assert.Equal(t, "A", staged[0].Title)
}

func TestSubmitInputReplacesStagedWholesale(t *testing.T) {
	gen := &scriptedGenerator{resp: models.GenerateResponse{Message: "m", Tasks: planningTasks("first")}}
	s, _ := newTestSession(gen)

	_, err := s.SubmitInput(context.Background(), "one")
	require.NoError(t, err)
	require.Len(t, s.StagedTasks(), 1)

	gen.resp = models.GenerateResponse{Message: "m", Tasks: planningTasks("second-a", "second-b")}
	_, err = s.SubmitInput(context.Background(), "two")
	require.NoError(t, err)

	staged := s.StagedTasks()
	require.Len(t, staged, 2)
	assert.Equal(t, "second-a", staged[0].Title)
}

func TestSubmitInputGeneralMode(t *testing.T) {
	gen := &scriptedGenerator{resp: models.GenerateResponse{Message: "advice"}}
	s, _ := newTestSession(gen)
	require.NoError(t, s.ChangeMode(models.ModeGeneral))

	_, err := s.SubmitInput(context.Background(), "how do I focus?")
	require.NoError(t, err)
	assert.Equal(t, "how do I focus?", gen.last.Prompt, "no prefix outside planning mode")
	assert.Empty(t, s.StagedTasks())
}

func TestSubmitInputEmpty(t *testing.T) {
	gen := &scriptedGenerator{}
	s, _ := newTestSession(gen)
	_, err := s.SubmitInput(context.Background(), "  \n ")
	assert.ErrorIs(t, err, generate.ErrEmptyPrompt)
	assert.Zero(t, gen.calls.Load())
	assert.Len(t, s.Messages(), 1, "state untouched on structural rejection")
}

func TestSubmitInputSingleFlight(t *testing.T) {
	gen := &scriptedGenerator{resp: models.GenerateResponse{Message: "ok"}, block: make(chan struct{})}
	s, _ := newTestSession(gen)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.SubmitInput(context.Background(), "first")
		assert.NoError(t, err)
	}()

	// wait for the first call to reach the generator
	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, time.Millisecond)

	_, err := s.SubmitInput(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(gen.block)
	<-done
}

func TestSubmitInputGeneratorError(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("wire fell over")}
	s, _ := newTestSession(gen)

	_, err := s.SubmitInput(context.Background(), "plan")
	require.Error(t, err)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, models.RoleAssistant, msgs[2].Role)
	assert.Contains(t, msgs[2].Content, "I'm sorry")

	// session stays usable
	gen.err = nil
	gen.resp = models.GenerateResponse{Message: "recovered"}
	_, err = s.SubmitInput(context.Background(), "again")
	assert.NoError(t, err)
}

func TestChangeMode(t *testing.T) {
	gen := &scriptedGenerator{resp: models.GenerateResponse{Message: "m", Tasks: planningTasks("A")}}
	s, _ := newTestSession(gen)
	_, err := s.SubmitInput(context.Background(), "plan")
	require.NoError(t, err)
	require.NotEmpty(t, s.StagedTasks())

	t.Run("switch to general clears staged and appends one message", func(t *testing.T) {
		before := len(s.Messages())
		require.NoError(t, s.ChangeMode(models.ModeGeneral))
		assert.Empty(t, s.StagedTasks())
		msgs := s.Messages()
		require.Len(t, msgs, before+1)
		assert.Equal(t, models.RoleAssistant, msgs[len(msgs)-1].Role)
		assert.Contains(t, msgs[len(msgs)-1].Content, "general chat mode")
	})

	t.Run("messages are never cleared by mode switches", func(t *testing.T) {
		count := len(s.Messages())
		require.NoError(t, s.ChangeMode(models.ModeDocument))
		require.NoError(t, s.ChangeMode(models.ModePlanning))
		assert.Greater(t, len(s.Messages()), count)
	})

	t.Run("same-mode switch is a no-op", func(t *testing.T) {
		before := len(s.Messages())
		require.NoError(t, s.ChangeMode(models.ModePlanning))
		assert.Len(t, s.Messages(), before)
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.ChangeMode("turbo"), ErrUnknownMode)
	})
}

func TestReceiveExtractedText(t *testing.T) {
	s, _ := newTestSession(&scriptedGenerator{})
	require.NoError(t, s.ChangeMode(models.ModeDocument))

	t.Run("short text is embedded verbatim", func(t *testing.T) {
		require.NoError(t, s.ReceiveExtractedText("hello from the scanner"))
		msgs := s.Messages()
		require.GreaterOrEqual(t, len(msgs), 2)
		user := msgs[len(msgs)-2]
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Contains(t, user.Content, "hello from the scanner")
		assert.NotContains(t, user.Content, "...")
		ack := msgs[len(msgs)-1]
		assert.Equal(t, models.RoleAssistant, ack.Role)
		assert.Contains(t, ack.Content, "I've analyzed the document")
	})

	t.Run("long text is truncated to 500 characters with ellipsis", func(t *testing.T) {
		long := strings.Repeat("x", 600)
		require.NoError(t, s.ReceiveExtractedText(long))
		msgs := s.Messages()
		user := msgs[len(msgs)-2]
		assert.Contains(t, user.Content, strings.Repeat("x", 500)+"...")
		assert.NotContains(t, user.Content, strings.Repeat("x", 501))
	})
}

func TestCommitStagedTasks(t *testing.T) {
	gen := &scriptedGenerator{resp: models.GenerateResponse{Message: "m", Tasks: planningTasks("A", "B", "C")}}
	s, st := newTestSession(gen)

	t.Run("empty buffer is a no-op", func(t *testing.T) {
		before := len(s.Messages())
		assert.Zero(t, s.CommitStagedTasks())
		assert.Empty(t, st.added)
		assert.Len(t, s.Messages(), before)
	})

	t.Run("commit moves batch and clears buffer", func(t *testing.T) {
		_, err := s.SubmitInput(context.Background(), "plan")
		require.NoError(t, err)

		n := s.CommitStagedTasks()
		assert.Equal(t, 3, n)
		require.Len(t, st.added, 1)
		assert.Len(t, st.added[0], 3)
		assert.Empty(t, s.StagedTasks())

		msgs := s.Messages()
		assert.Contains(t, msgs[len(msgs)-1].Content, "3 tasks added")
	})

	t.Run("second commit is a no-op", func(t *testing.T) {
		assert.Zero(t, s.CommitStagedTasks())
		assert.Len(t, st.added, 1)
	})
}

func TestReset(t *testing.T) {
	gen := &scriptedGenerator{resp: models.GenerateResponse{Message: "m", Tasks: planningTasks("A")}}
	s, _ := newTestSession(gen)

	_, err := s.SubmitInput(context.Background(), "plan")
	require.NoError(t, err)
	require.NoError(t, s.ChangeMode(models.ModeGeneral))

	s.Reset()
	assert.Equal(t, models.ModePlanning, s.Mode())
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Greeting, msgs[0].Content)
	assert.Empty(t, s.StagedTasks())
}

func TestMessageOrderPreserved(t *testing.T) {
	gen := &scriptedGenerator{resp: models.GenerateResponse{Message: "reply"}}
	s, _ := newTestSession(gen)
	require.NoError(t, s.ChangeMode(models.ModeGeneral))

	for _, input := range []string{"one", "two", "three"} {
		_, err := s.SubmitInput(context.Background(), input)
		require.NoError(t, err)
	}

	var users []string
	for _, m := range s.Messages() {
		if m.Role == models.RoleUser {
			users = append(users, m.Content)
		}
	}
	assert.Equal(t, []string{"one", "two", "three"}, users)
}
