// Package mapgrid reconstructs the dense warehouse grid from the sparse
// location list and classifies every cell for rendering.
package mapgrid

import "github.com/poe/almacen/internal/domain"

// LocationIndex provides O(1) lookup of located cells. It is a pure
// projection of one map payload; rebuild it on every fetch.
type LocationIndex struct {
	grid  domain.Grid
	cells map[domain.CellKey]domain.Location
}

// NewLocationIndex builds the index. Duplicate coordinates in the payload
// are not validated client-side; the last record wins.
func NewLocationIndex(grid domain.Grid, locations []domain.Location) *LocationIndex {
	cells := make(map[domain.CellKey]domain.Location, len(locations))
	for _, loc := range locations {
		cells[loc.Cell()] = loc
	}
	return &LocationIndex{grid: grid, cells: cells}
}

// FromView builds the index straight from a normalized map payload.
func FromView(view domain.MapView) *LocationIndex {
	return NewLocationIndex(view.Grid, view.Locations)
}

// Grid returns the map dimensions.
func (idx *LocationIndex) Grid() domain.Grid {
	return idx.grid
}

// Available reports whether the map can be rendered. Zero-dimension maps
// mean "no points assigned", not an empty grid.
func (idx *LocationIndex) Available() bool {
	return idx.grid.Valid()
}

// Get returns the location at a cell, if any.
func (idx *LocationIndex) Get(x, y int) (domain.Location, bool) {
	loc, ok := idx.cells[domain.Key(x, y)]
	return loc, ok
}

// At is Get keyed by CellKey.
func (idx *LocationIndex) At(k domain.CellKey) (domain.Location, bool) {
	loc, ok := idx.cells[k]
	return loc, ok
}

// AllFurnitureWithProducts returns the locations whose furniture holds at
// least one product-bearing point, in row-major grid order so output is
// deterministic across runs.
func (idx *LocationIndex) AllFurnitureWithProducts() []domain.Location {
	var out []domain.Location
	for y := 0; y < idx.grid.Height; y++ {
		for x := 0; x < idx.grid.Width; x++ {
			loc, ok := idx.Get(x, y)
			if !ok || loc.Furniture == nil {
				continue
			}
			if len(loc.Furniture.ProductPoints()) > 0 {
				out = append(out, loc)
			}
		}
	}
	return out
}
