package api

import (
	"context"
	"fmt"

	"github.com/poe/almacen/internal/domain"
)

// TaskService covers the task endpoints. Mutations are never retried
// automatically: a duplicate start or complete is a server-side side effect
// we cannot undo.
type TaskService struct {
	client *Client
}

// NewTaskService creates the task service.
func NewTaskService(c *Client) *TaskService {
	return &TaskService{client: c}
}

// MyTasks lists the authenticated reponedor's tasks.
func (s *TaskService) MyTasks(ctx context.Context) ([]domain.Task, error) {
	return s.list(ctx, "/tareas/reponedor")
}

// AllTasks lists every task (supervisor).
func (s *TaskService) AllTasks(ctx context.Context) ([]domain.Task, error) {
	return s.list(ctx, "/tareas/supervisor")
}

// TasksForRole picks the listing endpoint by role.
func (s *TaskService) TasksForRole(ctx context.Context, role domain.Role) ([]domain.Task, error) {
	if role == domain.RoleSupervisor {
		return s.AllTasks(ctx)
	}
	return s.MyTasks(ctx)
}

func (s *TaskService) list(ctx context.Context, path string) ([]domain.Task, error) {
	var wires []wireTarea
	if err := s.client.get(ctx, path, &wires); err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, len(wires))
	for i, w := range wires {
		tasks[i] = w.toDomain()
	}
	return tasks, nil
}

// Start requests the pending → in-progress transition.
func (s *TaskService) Start(ctx context.Context, taskID int) (domain.Task, error) {
	var w wireTarea
	if err := s.client.put(ctx, fmt.Sprintf("/tareas/%d/iniciar", taskID), nil, &w); err != nil {
		return domain.Task{}, err
	}
	return w.toDomain(), nil
}

// Complete requests the in-progress → completed transition.
func (s *TaskService) Complete(ctx context.Context, taskID int) (domain.Task, error) {
	body := map[string]bool{"confirmado": true}
	var w wireTarea
	if err := s.client.put(ctx, fmt.Sprintf("/tareas/%d/completar", taskID), body, &w); err != nil {
		return domain.Task{}, err
	}
	return w.toDomain(), nil
}

// Restart requests the in-progress → pending transition.
func (s *TaskService) Restart(ctx context.Context, taskID int) error {
	return s.client.put(ctx, fmt.Sprintf("/tareas/%d/reiniciar", taskID), nil, nil)
}

// ResetAllResult is the outcome of the bulk testing reset.
type ResetAllResult struct {
	Message string `json:"mensaje"`
	Count   int    `json:"tareas_reseteadas"`
}

// ResetAll forces every task back to pending. Testing affordance only.
func (s *TaskService) ResetAll(ctx context.Context) (ResetAllResult, error) {
	var res ResetAllResult
	if err := s.client.put(ctx, "/tareas/resetear-todas", nil, &res); err != nil {
		return ResetAllResult{}, err
	}
	return res, nil
}

// estado_id values the backend expects on creation.
const (
	estadoPendiente  = 1
	estadoSinAsignar = 5
)

type createTaskRequest struct {
	IDReponedor *int                    `json:"id_reponedor"`
	EstadoID    int                     `json:"estado_id"`
	Puntos      []domain.TaskPointInput `json:"puntos"`
}

// Create posts a new task. A nil reponedorID creates it unassigned
// (estado_id 5); otherwise it starts pending (estado_id 1).
func (s *TaskService) Create(ctx context.Context, reponedorID *int, points []domain.TaskPointInput) (domain.Task, error) {
	req := createTaskRequest{
		IDReponedor: reponedorID,
		EstadoID:    estadoPendiente,
		Puntos:      points,
	}
	if reponedorID == nil {
		req.EstadoID = estadoSinAsignar
	}

	var w wireTarea
	if err := s.client.post(ctx, "/tareas/", req, &w); err != nil {
		return domain.Task{}, err
	}
	return w.toDomain(), nil
}

// Reponedores lists the workers available for assignment.
func (s *TaskService) Reponedores(ctx context.Context) ([]domain.Reponedor, error) {
	var wires []wireReponedor
	if err := s.client.get(ctx, "/usuarios/reponedores", &wires); err != nil {
		return nil, err
	}
	out := make([]domain.Reponedor, len(wires))
	for i, w := range wires {
		out[i] = w.toDomain()
	}
	return out, nil
}
