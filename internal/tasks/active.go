package tasks

import (
	"sync"

	"github.com/poe/almacen/internal/domain"
)

// ActiveStore holds the single task the worker is executing right now.
// Everything that gates on "is this the active task" (route fetching,
// completion keys) reads through here.
type ActiveStore struct {
	mu   sync.Mutex
	task *domain.Task
}

// Set replaces the active task.
func (s *ActiveStore) Set(t domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	held := t
	s.task = &held
}

// Clear drops the active task.
func (s *ActiveStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.task = nil
}

// Get returns a copy of the active task, if any.
func (s *ActiveStore) Get() (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task == nil {
		return domain.Task{}, false
	}
	return *s.task, true
}

// IsActive reports whether taskID is the active task.
func (s *ActiveStore) IsActive(taskID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task != nil && s.task.ID == taskID
}

// RouteAllowed reports whether a route may be fetched for taskID. Routes
// exist only for the task actually in progress.
func (s *ActiveStore) RouteAllowed(taskID int) bool {
	return s.IsActive(taskID)
}
