// Package store holds the committed task list. Staged tasks enter only
// through an explicit commit from a session; everything here is owned by
// collaborators outside the generation pipeline.
package store

import (
	"sync"

	"github.com/example/planassist/internal/metrics"
	"github.com/example/planassist/internal/models"
)

// Memory is an in-process task store.
type Memory struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]models.Task
	metrics *metrics.Recorder
}

// NewMemory returns an empty store. rec may be nil to disable counters.
func NewMemory(rec *metrics.Recorder) *Memory {
	return &Memory{byID: map[string]models.Task{}, metrics: rec}
}

// Add commits a batch of tasks, preserving order.
func (s *Memory) Add(tasks []models.Task) {
	s.mu.Lock()
	for _, t := range tasks {
		if _, exists := s.byID[t.ID]; !exists {
			s.order = append(s.order, t.ID)
		}
		s.byID[t.ID] = t
	}
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.TasksCreated(len(tasks))
	}
}

// List returns all committed tasks in insertion order.
func (s *Memory) List() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Complete marks a task done. Completing an already-done or unknown task
// is a no-op and reports false.
func (s *Memory) Complete(id string) bool {
	s.mu.Lock()
	t, ok := s.byID[id]
	if !ok || t.Completed {
		s.mu.Unlock()
		return false
	}
	t.Completed = true
	s.byID[id] = t
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.TaskCompleted()
	}
	return true
}

// Len reports the number of committed tasks.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
