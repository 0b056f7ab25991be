// Package tasks drives the task lifecycle on top of the backend services.
// The backend owns state; this package rejects obviously illegal moves
// before they hit the wire and keeps the local list and active task in
// sync after every mutation.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/domain"
	"github.com/poe/almacen/internal/logging"
)

var (
	// ErrTaskNotFound means the task is not in the last fetched list.
	ErrTaskNotFound = errors.New("task not found")
	// ErrIllegalTransition means the requested move is not in the lifecycle
	// table for the task's current status.
	ErrIllegalTransition = errors.New("illegal task transition")
)

// TaskAPI is the slice of the backend the controller needs.
type TaskAPI interface {
	TasksForRole(ctx context.Context, role domain.Role) ([]domain.Task, error)
	Start(ctx context.Context, taskID int) (domain.Task, error)
	Complete(ctx context.Context, taskID int) (domain.Task, error)
	Restart(ctx context.Context, taskID int) error
	ResetAll(ctx context.Context) (api.ResetAllResult, error)
}

var _ TaskAPI = (*api.TaskService)(nil)

// Controller owns the client-side view of the task list. All mutations go
// through it; after each one it re-fetches the list and re-derives the
// active task from what the server actually says.
type Controller struct {
	api    TaskAPI
	role   domain.Role
	active *ActiveStore
	log    *logging.Logger

	mu    sync.Mutex
	tasks []domain.Task
}

// NewController creates a controller for the given role.
func NewController(taskAPI TaskAPI, role domain.Role) *Controller {
	return &Controller{
		api:    taskAPI,
		role:   role,
		active: &ActiveStore{},
		log:    logging.New("tasks").WithRole(string(role)),
	}
}

// Active exposes the active-task store for route gating.
func (c *Controller) Active() *ActiveStore {
	return c.active
}

// Tasks returns a snapshot of the last fetched list.
func (c *Controller) Tasks() []domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Metrics summarizes the last fetched list.
func (c *Controller) Metrics() domain.TaskMetrics {
	return domain.Metrics(c.Tasks())
}

// Refresh re-fetches the list and adopts the first in-progress task as
// active. When nothing is in progress the active task is cleared; the
// server's word beats whatever we adopted locally.
func (c *Controller) Refresh(ctx context.Context) ([]domain.Task, error) {
	list, err := c.api.TasksForRole(ctx, c.role)
	if err != nil {
		c.log.Error("refresh_failed", nil, err)
		return nil, err
	}

	c.mu.Lock()
	c.tasks = list
	c.mu.Unlock()

	adopted := false
	for _, t := range list {
		if t.Status == domain.StatusInProgress {
			c.active.Set(t)
			adopted = true
			break
		}
	}
	if !adopted {
		c.active.Clear()
	}
	return c.Tasks(), nil
}

func (c *Controller) find(taskID int) (domain.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return domain.Task{}, fmt.Errorf("task %d: %w", taskID, ErrTaskNotFound)
}

func (c *Controller) guard(taskID int, to domain.TaskStatus) error {
	t, err := c.find(taskID)
	if err != nil {
		return err
	}
	if !t.Status.CanTransition(to) {
		return fmt.Errorf("task %d is %s: %w", taskID, t.Status.Label(), ErrIllegalTransition)
	}
	return nil
}

// Start moves a pending task to in progress and adopts it as active.
func (c *Controller) Start(ctx context.Context, taskID int) error {
	if err := c.guard(taskID, domain.StatusInProgress); err != nil {
		return err
	}
	if _, err := c.api.Start(ctx, taskID); err != nil {
		c.log.TaskEvent("start_failed", taskID, err)
		return err
	}
	c.log.TaskEvent("started", taskID, nil)
	_, err := c.Refresh(ctx)
	return err
}

// Complete finishes the in-progress task. The active task clears on the
// subsequent refresh since nothing is left in progress.
func (c *Controller) Complete(ctx context.Context, taskID int) error {
	if err := c.guard(taskID, domain.StatusCompleted); err != nil {
		return err
	}
	if _, err := c.api.Complete(ctx, taskID); err != nil {
		c.log.TaskEvent("complete_failed", taskID, err)
		return err
	}
	c.log.TaskEvent("completed", taskID, nil)
	_, err := c.Refresh(ctx)
	return err
}

// Restart sends an in-progress task back to pending.
func (c *Controller) Restart(ctx context.Context, taskID int) error {
	if err := c.guard(taskID, domain.StatusPending); err != nil {
		return err
	}
	if err := c.api.Restart(ctx, taskID); err != nil {
		c.log.TaskEvent("restart_failed", taskID, err)
		return err
	}
	c.log.TaskEvent("restarted", taskID, nil)
	_, err := c.Refresh(ctx)
	return err
}

// ResetAll forces every task back to pending. No legality guard: this is the
// supervisor's testing hammer and the backend decides who may swing it.
func (c *Controller) ResetAll(ctx context.Context) (api.ResetAllResult, error) {
	res, err := c.api.ResetAll(ctx)
	if err != nil {
		c.log.Error("reset_all_failed", nil, err)
		return api.ResetAllResult{}, err
	}
	c.log.Info("reset_all", map[string]interface{}{"count": res.Count})
	if _, err := c.Refresh(ctx); err != nil {
		return res, err
	}
	return res, nil
}
