package domain

// RouteCoordinate is one step of the server-computed path. Sequence is
// 1-based and monotonically increasing; the client never re-sorts it.
type RouteCoordinate struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	Sequence int `json:"sequence"`
}

// Cell returns the coordinate's cell key.
func (c RouteCoordinate) Cell() CellKey {
	return Key(c.X, c.Y)
}

// PointVisit is one stop of the route, in visiting order.
type PointVisit struct {
	Order     int     `json:"order"`
	PointID   int     `json:"point_id,omitempty"`
	Product   string  `json:"product,omitempty"`
	Furniture string  `json:"furniture,omitempty"`
	Quantity  int     `json:"quantity,omitempty"`
	ShelfUnit int     `json:"shelf_unit,omitempty"`
	Level     int     `json:"level,omitempty"`
	Arrival   CellKey `json:"arrival"`
}

// Route is the canonical optimized-route shape. Every legacy backend alias
// (coordenadas_ruta_global, tiempo_estimado_total, ...) is folded into this
// at the network boundary; nothing downstream sees backend naming drift.
type Route struct {
	ID               int               `json:"id,omitempty"`
	TaskID           int               `json:"task_id,omitempty"`
	Coordinates      []RouteCoordinate `json:"coordinates"`
	VisitedPoints    []PointVisit      `json:"visited_points,omitempty"`
	TotalDistance    float64           `json:"total_distance"`
	EstimatedMinutes float64           `json:"estimated_minutes"`
	AlgorithmName    string            `json:"algorithm_name,omitempty"`
}

// Empty reports whether the route has no path at all.
func (r Route) Empty() bool {
	return len(r.Coordinates) == 0
}
