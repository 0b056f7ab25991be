package mapgrid

import "github.com/poe/almacen/internal/domain"

// Marker is one furniture cell with every product-bearing point that lives
// on it. Several points share a cell, so the grid draws one marker per cell
// labeled with the point count instead of stacking markers.
type Marker struct {
	Cell   domain.CellKey
	Points []domain.ReplenishmentPoint
}

// Markers aggregates the index's furniture into one marker per cell, in
// row-major order. Running it twice on the same index yields identical
// output; there is no hidden state.
func Markers(idx *LocationIndex) []Marker {
	locs := idx.AllFurnitureWithProducts()
	out := make([]Marker, 0, len(locs))
	for _, loc := range locs {
		out = append(out, Marker{
			Cell:   loc.Cell(),
			Points: loc.Furniture.ProductPoints(),
		})
	}
	return out
}

// ProductGroup is the selected points of one furniture cell that share a
// product name, for bulk quantity entry.
type ProductGroup struct {
	ProductName string
	Points      []domain.ReplenishmentPoint
}

// GroupByProduct splits points by product name, preserving first-seen group
// order and point iteration order within each group. Inert points (no
// product) are skipped.
func GroupByProduct(points []domain.ReplenishmentPoint) []ProductGroup {
	byName := make(map[string]int)
	var groups []ProductGroup
	for _, p := range points {
		if !p.HasProduct() {
			continue
		}
		name := p.Product.Name
		i, ok := byName[name]
		if !ok {
			byName[name] = len(groups)
			groups = append(groups, ProductGroup{ProductName: name})
			i = len(groups) - 1
		}
		groups[i].Points = append(groups[i].Points, p)
	}
	return groups
}

// DistributeQuantity splits a group total across n points: floor(total/n)
// each, with one extra unit for the first total%n points. The whole group is
// recomputed from scratch on every edit; partial manual edits do not survive
// a change of the group total.
func DistributeQuantity(total, n int) []int {
	if n <= 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}
	base := total / n
	extra := total % n
	out := make([]int, n)
	for i := range out {
		out[i] = base
		if i < extra {
			out[i]++
		}
	}
	return out
}
