package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/domain"
)

// fakeAPI is a tiny in-memory backend. Mutations flip statuses the way the
// real server does so refreshes observe the new state.
type fakeAPI struct {
	tasks    map[int]domain.TaskStatus
	order    []int
	startErr error
	calls    []string
}

func newFakeAPI(statuses ...domain.TaskStatus) *fakeAPI {
	f := &fakeAPI{tasks: make(map[int]domain.TaskStatus)}
	for i, s := range statuses {
		id := i + 1
		f.tasks[id] = s
		f.order = append(f.order, id)
	}
	return f
}

func (f *fakeAPI) TasksForRole(ctx context.Context, role domain.Role) ([]domain.Task, error) {
	f.calls = append(f.calls, "list")
	out := make([]domain.Task, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, domain.Task{ID: id, Status: f.tasks[id]})
	}
	return out, nil
}

func (f *fakeAPI) Start(ctx context.Context, taskID int) (domain.Task, error) {
	f.calls = append(f.calls, "start")
	if f.startErr != nil {
		return domain.Task{}, f.startErr
	}
	f.tasks[taskID] = domain.StatusInProgress
	return domain.Task{ID: taskID, Status: domain.StatusInProgress}, nil
}

func (f *fakeAPI) Complete(ctx context.Context, taskID int) (domain.Task, error) {
	f.calls = append(f.calls, "complete")
	f.tasks[taskID] = domain.StatusCompleted
	return domain.Task{ID: taskID, Status: domain.StatusCompleted}, nil
}

func (f *fakeAPI) Restart(ctx context.Context, taskID int) error {
	f.calls = append(f.calls, "restart")
	f.tasks[taskID] = domain.StatusPending
	return nil
}

func (f *fakeAPI) ResetAll(ctx context.Context) (api.ResetAllResult, error) {
	f.calls = append(f.calls, "reset")
	n := 0
	for id, s := range f.tasks {
		if s != domain.StatusPending {
			f.tasks[id] = domain.StatusPending
			n++
		}
	}
	return api.ResetAllResult{Message: "ok", Count: n}, nil
}

func TestStartAdoptsActiveAndCompleteClearsIt(t *testing.T) {
	backend := newFakeAPI(domain.StatusPending, domain.StatusPending)
	c := NewController(backend, domain.RoleReponedor)

	_, err := c.Refresh(context.Background())
	require.NoError(t, err)
	_, ok := c.Active().Get()
	assert.False(t, ok)

	require.NoError(t, c.Start(context.Background(), 1))
	active, ok := c.Active().Get()
	require.True(t, ok)
	assert.Equal(t, 1, active.ID)
	assert.True(t, c.Active().RouteAllowed(1))
	assert.False(t, c.Active().RouteAllowed(2))

	require.NoError(t, c.Complete(context.Background(), 1))
	_, ok = c.Active().Get()
	assert.False(t, ok)
	assert.False(t, c.Active().RouteAllowed(1))
}

func TestRefreshAdoptsFirstInProgress(t *testing.T) {
	backend := newFakeAPI(domain.StatusCompleted, domain.StatusInProgress, domain.StatusInProgress)
	c := NewController(backend, domain.RoleReponedor)

	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	active, ok := c.Active().Get()
	require.True(t, ok)
	assert.Equal(t, 2, active.ID)
}

func TestIllegalTransitionsNeverReachBackend(t *testing.T) {
	backend := newFakeAPI(domain.StatusCompleted, domain.StatusPending)
	c := NewController(backend, domain.RoleReponedor)
	_, err := c.Refresh(context.Background())
	require.NoError(t, err)
	backend.calls = nil

	// Completed tasks cannot start again.
	err = c.Start(context.Background(), 1)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	// Pending tasks cannot complete or restart.
	err = c.Complete(context.Background(), 2)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	err = c.Restart(context.Background(), 2)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	assert.Empty(t, backend.calls)
}

func TestStartUnknownTask(t *testing.T) {
	c := NewController(newFakeAPI(domain.StatusPending), domain.RoleReponedor)
	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	err = c.Start(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestStartFailureLeavesActiveUntouched(t *testing.T) {
	backend := newFakeAPI(domain.StatusPending)
	backend.startErr = errors.New("boom")
	c := NewController(backend, domain.RoleReponedor)
	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	err = c.Start(context.Background(), 1)
	require.Error(t, err)
	_, ok := c.Active().Get()
	assert.False(t, ok)
}

func TestRestartSendsTaskBackToPending(t *testing.T) {
	backend := newFakeAPI(domain.StatusInProgress)
	c := NewController(backend, domain.RoleReponedor)
	_, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, c.Active().IsActive(1))

	require.NoError(t, c.Restart(context.Background(), 1))
	assert.Equal(t, domain.StatusPending, c.Tasks()[0].Status)
	_, ok := c.Active().Get()
	assert.False(t, ok)
}

func TestResetAllRefreshesList(t *testing.T) {
	backend := newFakeAPI(domain.StatusCompleted, domain.StatusInProgress, domain.StatusPending)
	c := NewController(backend, domain.RoleSupervisor)
	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	res, err := c.ResetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	m := c.Metrics()
	assert.Equal(t, 3, m.Pending)
	assert.Zero(t, m.InProgress)
}
