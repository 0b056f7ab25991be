// Package route derives the renderable overlay (polyline, endpoint markers,
// highlighted cells) from a server-computed optimized route.
package route

import "github.com/poe/almacen/internal/domain"

// CellSize is the fixed cell-to-pixel scale shared by every renderer.
const CellSize = 30

// Point is a pixel coordinate on the rendered map.
type Point struct {
	X float64
	Y float64
}

// Overlay is a read-only derivation of one Route. Rebuild it whenever the
// route or grid changes; it never mutates either input.
type Overlay struct {
	vertices []Point
	start    *Point
	end      *Point
	onRoute  map[domain.CellKey]bool
}

// vertex centers a route coordinate inside its cell.
func vertex(c domain.RouteCoordinate) Point {
	return Point{
		X: float64(c.X*CellSize) + CellSize/2,
		Y: float64(c.Y*CellSize) + CellSize/2,
	}
}

// Build computes the overlay for a route. Coordinates are taken in the order
// given; the backend guarantees ascending sequence and the client does not
// re-sort. Fewer than two coordinates produce no polyline and no endpoint
// markers.
func Build(r domain.Route) *Overlay {
	o := &Overlay{onRoute: make(map[domain.CellKey]bool, len(r.Coordinates))}
	for _, c := range r.Coordinates {
		o.onRoute[c.Cell()] = true
	}

	if len(r.Coordinates) < 2 {
		return o
	}

	o.vertices = make([]Point, len(r.Coordinates))
	for i, c := range r.Coordinates {
		o.vertices[i] = vertex(c)
	}
	start := o.vertices[0]
	end := o.vertices[len(o.vertices)-1]
	o.start = &start
	o.end = &end
	return o
}

// HasPolyline reports whether there is a drawable path.
func (o *Overlay) HasPolyline() bool {
	return len(o.vertices) >= 2
}

// Vertices returns the polyline in pixel space, empty when degenerate.
func (o *Overlay) Vertices() []Point {
	return o.vertices
}

// Start returns the start marker position, nil when degenerate.
func (o *Overlay) Start() *Point {
	return o.start
}

// End returns the end marker position, nil when degenerate.
func (o *Overlay) End() *Point {
	return o.end
}

// OnRoute reports whether a grid cell lies on the route. The grid renderer
// uses this for cell borders, independent of the polyline layer, so the
// route stays visible with the overlay toggled off.
func (o *Overlay) OnRoute(k domain.CellKey) bool {
	return o.onRoute[k]
}
