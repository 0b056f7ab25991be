package domain

import (
	"strings"
	"time"
)

// TaskStatus is the closed set of task states. The backend speaks strings
// ("pendiente", "en progreso", ...); ParseTaskStatus is the only place those
// strings are interpreted.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
	StatusUnassigned TaskStatus = "unassigned"
	StatusUnknown    TaskStatus = "unknown"
)

// statusMeta maps each status to its display label and backend wire names
// (extend via map, not switch).
var statusMeta = map[TaskStatus]struct {
	Label string
	Wire  []string
}{
	StatusPending:    {"Pendiente", []string{"pendiente"}},
	StatusInProgress: {"En progreso", []string{"en progreso", "en_progreso"}},
	StatusCompleted:  {"Completada", []string{"completada"}},
	StatusCancelled:  {"Cancelada", []string{"cancelada"}},
	StatusUnassigned: {"Sin asignar", []string{"sin asignar", "sin_asignar"}},
}

// ParseTaskStatus normalizes a backend estado string to a TaskStatus. The
// backend is inconsistent about spacing and case ("en progreso" vs
// "en_progreso"), so matching is case-insensitive over the wire aliases.
func ParseTaskStatus(wire string) TaskStatus {
	w := strings.ToLower(strings.TrimSpace(wire))
	for status, m := range statusMeta {
		for _, alias := range m.Wire {
			if w == alias {
				return status
			}
		}
	}
	return StatusUnknown
}

// Label returns the human-readable Spanish label for the status.
func (s TaskStatus) Label() string {
	if m, ok := statusMeta[s]; ok {
		return m.Label
	}
	return string(s)
}

// transitions is the explicit lifecycle table. Anything not listed is an
// illegal move and must be rejected before reaching the backend.
var transitions = map[TaskStatus][]TaskStatus{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusPending},
}

// CanTransition reports whether from → to is a legal lifecycle move.
func (s TaskStatus) CanTransition(to TaskStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// TaskProduct is one product line of a task, with the point it restocks.
type TaskProduct struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	PointID   int    `json:"point_id"`
	ShelfUnit string `json:"shelf_unit"`
	Level     int    `json:"level"`
}

// Task is a unit of replenishment work. Status is server-authoritative; the
// client never flips it locally without a successful mutation response.
type Task struct {
	ID        int           `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Status    TaskStatus    `json:"status"`
	Assignee  string        `json:"assignee,omitempty"`
	Products  []TaskProduct `json:"products,omitempty"`
}

// TaskMetrics summarizes a task list for the dashboard.
type TaskMetrics struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// Metrics counts tasks by status.
func Metrics(tasks []Task) TaskMetrics {
	m := TaskMetrics{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusPending:
			m.Pending++
		case StatusInProgress:
			m.InProgress++
		case StatusCompleted:
			m.Completed++
		}
	}
	return m
}

// TaskFilter narrows a task list. Zero fields match everything.
type TaskFilter struct {
	Status TaskStatus
	Since  time.Time
}

// Apply returns the tasks matching the filter, preserving order.
func (f TaskFilter) Apply(tasks []Task) []Task {
	if f.Status == "" && f.Since.IsZero() {
		return tasks
	}
	var out []Task
	for _, t := range tasks {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if !f.Since.IsZero() && t.CreatedAt.Before(f.Since) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TaskPointInput is one point line of a task-creation request.
type TaskPointInput struct {
	PointID  int `json:"id_punto"`
	Quantity int `json:"cantidad"`
}

// Reponedor is a worker available for task assignment.
type Reponedor struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	State string `json:"state,omitempty"`
}
