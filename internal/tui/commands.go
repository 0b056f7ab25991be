package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/domain"
	"github.com/poe/almacen/internal/mapgrid"
)

// Message types
type tasksMsg []domain.Task
type mapMsg struct {
	index *mapgrid.LocationIndex
	// message is the backend's explanation when the map has no renderable
	// grid ("no points assigned"). Empty on an available map.
	message string
}
type routeMsg struct {
	route       domain.Route
	canGenerate bool
}
type mutationDoneMsg struct {
	err          error
	clearRoute   bool
	fetchRoute   bool
	clearSelects bool
}
type errMsg error
type tickMsg time.Time

// requestTimeout bounds every backend call issued from the TUI so a hung
// request cannot freeze a view forever.
const requestTimeout = 15 * time.Second

func (m Model) loadTasks() tea.Cmd {
	ctrl := m.svc.Ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		list, err := ctrl.Refresh(ctx)
		if err != nil {
			return errMsg(err)
		}
		return tasksMsg(list)
	}
}

func (m Model) loadMap() tea.Cmd {
	maps := m.svc.Maps
	role := m.svc.User.Role
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		view, err := maps.ViewForRole(ctx, role)
		if err != nil && !errors.Is(err, api.ErrMapUnavailable) {
			return errMsg(err)
		}
		// An unavailable map is an empty state, not an error: the view (and
		// its mensaje) still reaches the screen.
		return mapMsg{index: mapgrid.FromView(view), message: view.Message}
	}
}

func (m Model) loadRoute() tea.Cmd {
	routes := m.svc.Routes
	ctrl := m.svc.Ctrl
	return func() tea.Msg {
		active, ok := ctrl.Active().Get()
		if !ok {
			return routeMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		r, canGenerate, err := routes.FetchOrOffer(ctx, active.ID)
		if err != nil {
			return errMsg(err)
		}
		return routeMsg{route: r, canGenerate: canGenerate}
	}
}

func (m Model) generateRoute(taskID int) tea.Cmd {
	routes := m.svc.Routes
	return func() tea.Msg {
		// Generation waits out backend persistence, so give it more room.
		ctx, cancel := context.WithTimeout(context.Background(), 2*requestTimeout)
		defer cancel()
		if _, err := routes.Generate(ctx, taskID); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{fetchRoute: true}
	}
}

func (m Model) startTask(taskID int) tea.Cmd {
	ctrl := m.svc.Ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := ctrl.Start(ctx, taskID); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{fetchRoute: true}
	}
}

func (m Model) completeTask(taskID int) tea.Cmd {
	ctrl := m.svc.Ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := ctrl.Complete(ctx, taskID); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{clearRoute: true}
	}
}

func (m Model) restartTask(taskID int) tea.Cmd {
	ctrl := m.svc.Ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := ctrl.Restart(ctx, taskID); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{clearRoute: true}
	}
}

func (m Model) resetAll() tea.Cmd {
	ctrl := m.svc.Ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := ctrl.ResetAll(ctx); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{clearRoute: true}
	}
}

func (m Model) createTask(points []domain.TaskPointInput) tea.Cmd {
	svc := m.svc.Tasks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := svc.Create(ctx, nil, points); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{clearSelects: true}
	}
}
