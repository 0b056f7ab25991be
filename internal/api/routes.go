package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poe/almacen/internal/domain"
)

// generateSettle is how long to wait after a generation ack before the route
// can be re-fetched; backend persistence is not guaranteed synchronous.
const generateSettle = 500 * time.Millisecond

// RouteService fetches and generates optimized routes.
type RouteService struct {
	client    *Client
	algorithm string
	sleep     func(time.Duration)
}

// NewRouteService creates the route service with the configured algorithm.
func NewRouteService(c *Client, algorithm string) *RouteService {
	return &RouteService{client: c, algorithm: algorithm, sleep: time.Sleep}
}

// Optimized fetches the optimized route for a task, normalized to the
// canonical shape. On 404 from the modern endpoint it falls back to the
// legacy visual route before giving up with ErrRouteNotFound.
func (s *RouteService) Optimized(ctx context.Context, taskID int) (domain.Route, error) {
	var w wireRuta
	path := fmt.Sprintf("/tareas/%d/ruta-optimizada?algoritmo=%s", taskID, s.algorithm)
	err := s.client.get(ctx, path, &w)
	if err == nil {
		r := normalizeRoute(w)
		r.TaskID = taskID
		return r, nil
	}
	if !IsNotFound(err) {
		return domain.Route{}, err
	}

	// Legacy fallback.
	w = wireRuta{}
	if legacyErr := s.client.get(ctx, fmt.Sprintf("/%d/ruta-visual", taskID), &w); legacyErr != nil {
		if IsNotFound(legacyErr) {
			return domain.Route{}, fmt.Errorf("task %d: %w", taskID, ErrRouteNotFound)
		}
		return domain.Route{}, legacyErr
	}
	r := normalizeRoute(w)
	r.TaskID = taskID
	return r, nil
}

// Generate asks the backend to (re)compute the route, waits for persistence
// to settle, then fetches the result.
func (s *RouteService) Generate(ctx context.Context, taskID int) (domain.Route, error) {
	path := fmt.Sprintf("/tareas/%d/ruta-optimizada?algoritmo=%s", taskID, s.algorithm)
	if err := s.client.post(ctx, path, nil, nil); err != nil {
		return domain.Route{}, err
	}
	s.sleep(generateSettle)
	return s.Optimized(ctx, taskID)
}

// FetchOrOffer fetches the route and translates "no route yet" into an
// actionable flag so screens can offer generation instead of an error wall.
func (s *RouteService) FetchOrOffer(ctx context.Context, taskID int) (domain.Route, bool, error) {
	r, err := s.Optimized(ctx, taskID)
	if err == nil {
		return r, false, nil
	}
	if errors.Is(err, ErrRouteNotFound) {
		return domain.Route{}, true, nil
	}
	return domain.Route{}, false, err
}
