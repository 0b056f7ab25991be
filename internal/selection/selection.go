// Package selection holds the in-progress point selection used to build a
// replenishment task. State lives for one task-creation session only; it is
// discarded on success, cancel, or navigation away.
package selection

import (
	"errors"

	"github.com/poe/almacen/internal/domain"
	"github.com/poe/almacen/internal/mapgrid"
)

// ErrNoQuantity is returned when a submission has no positive quantity.
var ErrNoQuantity = errors.New("at least one selected point needs a quantity above zero")

// SelectedPoint is one member of the selection with its entered quantity.
type SelectedPoint struct {
	Point    domain.ReplenishmentPoint
	Quantity int
	Cell     domain.CellKey
	HasCell  bool
}

// Model maintains the selected points and furniture cells with toggle
// semantics. Only product-bearing points ever enter the set; callers offer
// nothing else for selection.
type Model struct {
	points    []SelectedPoint
	furniture map[domain.CellKey]bool
}

// New creates an empty selection.
func New() *Model {
	return &Model{furniture: make(map[domain.CellKey]bool)}
}

// Count returns the number of selected points.
func (m *Model) Count() int {
	return len(m.points)
}

// Points returns the selection in insertion order.
func (m *Model) Points() []SelectedPoint {
	out := make([]SelectedPoint, len(m.points))
	copy(out, m.points)
	return out
}

// IsSelected reports whether a point is in the selection.
func (m *Model) IsSelected(pointID int) bool {
	return m.indexOf(pointID) >= 0
}

// FurnitureSelected reports whether a furniture cell is selected.
func (m *Model) FurnitureSelected(k domain.CellKey) bool {
	return m.furniture[k]
}

func (m *Model) indexOf(pointID int) int {
	for i, sp := range m.points {
		if sp.Point.ID == pointID {
			return i
		}
	}
	return -1
}

// ToggleSinglePoint adds or removes one product-bearing point, quantity 0 on
// add. Inert points are ignored.
func (m *Model) ToggleSinglePoint(p domain.ReplenishmentPoint) {
	if !p.HasProduct() {
		return
	}
	if i := m.indexOf(p.ID); i >= 0 {
		m.removeAt(i)
		return
	}
	m.points = append(m.points, SelectedPoint{Point: p, Quantity: 0})
}

// ToggleFurniture selects or deselects a furniture cell. Selecting cascades
// to every product-bearing point of the unit; deselecting removes exactly
// those points and no others.
func (m *Model) ToggleFurniture(loc domain.Location) {
	if loc.Furniture == nil {
		return
	}
	key := loc.Cell()
	if m.furniture[key] {
		delete(m.furniture, key)
		owned := make(map[int]bool, len(loc.Furniture.Points))
		for _, p := range loc.Furniture.Points {
			owned[p.ID] = true
		}
		kept := m.points[:0]
		for _, sp := range m.points {
			if !owned[sp.Point.ID] {
				kept = append(kept, sp)
			}
		}
		m.points = kept
		return
	}

	pts := loc.Furniture.ProductPoints()
	if len(pts) == 0 {
		return
	}
	m.furniture[key] = true
	for _, p := range pts {
		if m.indexOf(p.ID) >= 0 {
			continue
		}
		m.points = append(m.points, SelectedPoint{
			Point:    p,
			Quantity: 0,
			Cell:     key,
			HasCell:  true,
		})
	}
}

// UpdateQuantity sets one point's quantity. Negative values clamp to zero.
func (m *Model) UpdateQuantity(pointID, qty int) {
	if qty < 0 {
		qty = 0
	}
	if i := m.indexOf(pointID); i >= 0 {
		m.points[i].Quantity = qty
	}
}

// SetGroupQuantity distributes a total across the selected points of one
// furniture cell sharing a product name, replacing whatever per-point
// quantities were there before. The distribution is recomputed from scratch
// on every call; the same product selected in another cell is untouched.
func (m *Model) SetGroupQuantity(cell domain.CellKey, productName string, total int) {
	var members []int
	for i, sp := range m.points {
		if !sp.HasCell || sp.Cell != cell {
			continue
		}
		if sp.Point.HasProduct() && sp.Point.Product.Name == productName {
			members = append(members, i)
		}
	}
	qtys := mapgrid.DistributeQuantity(total, len(members))
	for j, i := range members {
		m.points[i].Quantity = qtys[j]
	}
}

// RemovePoint deletes one point. Removing the last point belonging to a
// furniture cell implicitly clears that cell's selected key.
func (m *Model) RemovePoint(pointID int) {
	if i := m.indexOf(pointID); i >= 0 {
		m.removeAt(i)
	}
}

func (m *Model) removeAt(i int) {
	removed := m.points[i]
	m.points = append(m.points[:i], m.points[i+1:]...)

	if !removed.HasCell {
		return
	}
	for _, sp := range m.points {
		if sp.HasCell && sp.Cell == removed.Cell {
			return
		}
	}
	delete(m.furniture, removed.Cell)
}

// Clear discards the whole selection.
func (m *Model) Clear() {
	m.points = nil
	m.furniture = make(map[domain.CellKey]bool)
}

// ForSubmit validates the selection and returns the task-creation point
// lines. At least one point must carry a positive quantity.
func (m *Model) ForSubmit() ([]domain.TaskPointInput, error) {
	if len(m.points) == 0 {
		return nil, ErrNoQuantity
	}
	hasQty := false
	out := make([]domain.TaskPointInput, len(m.points))
	for i, sp := range m.points {
		if sp.Quantity > 0 {
			hasQty = true
		}
		out[i] = domain.TaskPointInput{PointID: sp.Point.ID, Quantity: sp.Quantity}
	}
	if !hasQty {
		return nil, ErrNoQuantity
	}
	return out, nil
}
