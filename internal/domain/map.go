// Package domain defines the core entities of the warehouse client: the
// grid map, replenishment points, tasks and routes. Everything here is a
// read-only projection of backend state; nothing mutates in place.
package domain

import "fmt"

// CellKey identifies one grid cell. Comparable, so it can key maps and sets
// directly instead of going through "x,y" strings.
type CellKey struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key returns the cell key for a coordinate pair.
func Key(x, y int) CellKey {
	return CellKey{X: x, Y: y}
}

func (k CellKey) String() string {
	return fmt.Sprintf("(%d,%d)", k.X, k.Y)
}

// Grid holds the warehouse map dimensions in cells.
type Grid struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Valid reports whether the grid can be rendered at all. A zero-dimension
// map is treated as unavailable, never as an empty render.
func (g Grid) Valid() bool {
	return g.Width > 0 && g.Height > 0
}

// Contains reports whether a cell lies inside the grid.
func (g Grid) Contains(k CellKey) bool {
	return k.X >= 0 && k.X < g.Width && k.Y >= 0 && k.Y < g.Height
}

// ObjectInfo describes the physical object occupying a cell. Kind is a
// free-form backend category string, matched by substring when classifying.
type ObjectInfo struct {
	Name     string `json:"name,omitempty"`
	Kind     string `json:"kind"`
	Walkable *bool  `json:"walkable,omitempty"`
}

// Product is what a replenishment point holds.
type Product struct {
	ID       int     `json:"id,omitempty"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	UnitType string  `json:"unit_type,omitempty"`
	UnitQty  float64 `json:"unit_qty,omitempty"`
}

// ReplenishmentPoint is a shelf-level slot on a furniture unit. A point
// without a product is inert: never selectable, never drawn as a marker.
type ReplenishmentPoint struct {
	ID        int      `json:"id"`
	ShelfUnit string   `json:"shelf_unit"`
	Level     int      `json:"level"`
	Product   *Product `json:"product,omitempty"`
}

// HasProduct reports whether the point carries a product.
func (p ReplenishmentPoint) HasProduct() bool {
	return p.Product != nil
}

// Furniture is a shelving unit occupying exactly one cell.
type Furniture struct {
	ID     int                  `json:"id"`
	Kind   string               `json:"kind,omitempty"`
	Rows   int                  `json:"rows,omitempty"`
	Cols   int                  `json:"cols,omitempty"`
	Points []ReplenishmentPoint `json:"points,omitempty"`
}

// ProductPoints returns only the product-bearing points of the unit.
func (f Furniture) ProductPoints() []ReplenishmentPoint {
	var out []ReplenishmentPoint
	for _, p := range f.Points {
		if p.HasProduct() {
			out = append(out, p)
		}
	}
	return out
}

// Location is one located record of the map payload: a cell with an
// optional object and an optional furniture unit on it.
type Location struct {
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Object    *ObjectInfo `json:"object,omitempty"`
	Furniture *Furniture  `json:"furniture,omitempty"`
}

// Cell returns the location's cell key.
func (l Location) Cell() CellKey {
	return Key(l.X, l.Y)
}

// MapView is a normalized map payload: the grid plus its located cells.
// Message carries the backend's explanation when no map is assigned.
type MapView struct {
	Grid      Grid       `json:"grid"`
	Locations []Location `json:"locations"`
	Message   string     `json:"message,omitempty"`
}

// Available reports whether the view can be rendered as a grid. The
// distinction from an empty grid drives the "no points assigned" state.
func (v MapView) Available() bool {
	return v.Grid.Valid()
}
