package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy callers branch on.
var (
	// ErrSessionExpired indicates a 401; automatic fetches must stop until
	// the user logs in again.
	ErrSessionExpired = errors.New("session expired, log in again")

	// ErrMapUnavailable indicates the map payload is missing or has zero
	// dimensions; render the "no points assigned" state, not an empty grid.
	ErrMapUnavailable = errors.New("map unavailable")

	// ErrRouteNotFound indicates no route exists for the task yet; offer
	// generation instead of hiding the map.
	ErrRouteNotFound = errors.New("route not found")

	// ErrNotLoggedIn indicates no stored session.
	ErrNotLoggedIn = errors.New("not logged in")
)

// HTTPError wraps a non-2xx backend response with its message so mutation
// failures can surface the server's explanation verbatim.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// IsNotFound reports whether the error is a backend 404.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == 404
}

// IsSessionExpired reports whether the error is the 401 latch.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}
