package api

import (
	"context"

	"github.com/poe/almacen/internal/domain"
)

// MapService fetches the warehouse map views.
type MapService struct {
	client *Client
}

// NewMapService creates the map service.
func NewMapService(c *Client) *MapService {
	return &MapService{client: c}
}

// ReponedorView fetches the worker's map with its assigned points.
// Returns ErrMapUnavailable when the payload has no renderable grid.
func (s *MapService) ReponedorView(ctx context.Context) (domain.MapView, error) {
	return s.fetch(ctx, "/mapa/reponedor/vista")
}

// SupervisorView fetches the full warehouse map.
func (s *MapService) SupervisorView(ctx context.Context) (domain.MapView, error) {
	return s.fetch(ctx, "/mapa/supervisor/vista")
}

// ViewForRole picks the endpoint by role.
func (s *MapService) ViewForRole(ctx context.Context, role domain.Role) (domain.MapView, error) {
	if role == domain.RoleSupervisor {
		return s.SupervisorView(ctx)
	}
	return s.ReponedorView(ctx)
}

func (s *MapService) fetch(ctx context.Context, path string) (domain.MapView, error) {
	var w wireMapaResponse
	if err := s.client.get(ctx, path, &w); err != nil {
		return domain.MapView{}, err
	}
	view := w.toDomain()
	if !view.Available() {
		// Negative or zero dimensions degrade to unavailable rather than
		// crashing the renderer.
		return view, ErrMapUnavailable
	}
	return view, nil
}
