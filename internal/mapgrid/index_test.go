package mapgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poe/almacen/internal/domain"
)

func testView() domain.MapView {
	return domain.MapView{
		Grid: domain.Grid{Width: 5, Height: 5},
		Locations: []domain.Location{
			{X: 0, Y: 0, Object: &domain.ObjectInfo{Kind: "pasillo"}},
			{X: 1, Y: 0, Object: &domain.ObjectInfo{Kind: "muro"}},
			{
				X: 2, Y: 2,
				Object: &domain.ObjectInfo{Kind: "mueble"},
				Furniture: &domain.Furniture{
					ID: 10,
					Points: []domain.ReplenishmentPoint{
						{ID: 1, ShelfUnit: "1", Level: 1, Product: &domain.Product{Name: "Leche"}},
						{ID: 2, ShelfUnit: "1", Level: 2, Product: &domain.Product{Name: "Pan"}},
					},
				},
			},
			{
				X: 4, Y: 4,
				Object: &domain.ObjectInfo{Kind: "estanteria"},
				// Furniture with only inert points never yields markers.
				Furniture: &domain.Furniture{
					ID:     11,
					Points: []domain.ReplenishmentPoint{{ID: 3, ShelfUnit: "2", Level: 1}},
				},
			},
		},
	}
}

func TestIndexLookup(t *testing.T) {
	idx := FromView(testView())

	loc, ok := idx.Get(2, 2)
	require.True(t, ok)
	require.NotNil(t, loc.Furniture)
	assert.Equal(t, 10, loc.Furniture.ID)

	_, ok = idx.Get(3, 3)
	assert.False(t, ok)
}

func TestIndexLastWinsOnDuplicates(t *testing.T) {
	idx := NewLocationIndex(domain.Grid{Width: 2, Height: 2}, []domain.Location{
		{X: 0, Y: 0, Object: &domain.ObjectInfo{Kind: "muro"}},
		{X: 0, Y: 0, Object: &domain.ObjectInfo{Kind: "pasillo"}},
	})

	loc, ok := idx.Get(0, 0)
	require.True(t, ok)
	assert.Equal(t, "pasillo", loc.Object.Kind)
}

func TestIndexAvailability(t *testing.T) {
	assert.False(t, NewLocationIndex(domain.Grid{}, nil).Available())
	assert.False(t, NewLocationIndex(domain.Grid{Width: 3}, nil).Available())
	assert.True(t, NewLocationIndex(domain.Grid{Width: 3, Height: 3}, nil).Available())
}

func TestAllFurnitureWithProducts(t *testing.T) {
	idx := FromView(testView())

	locs := idx.AllFurnitureWithProducts()
	require.Len(t, locs, 1)
	assert.Equal(t, domain.Key(2, 2), locs[0].Cell())
}

// Scenario: 5x5 map, one furniture at (2,2) with two product-bearing points.
func TestFurnitureCellScenario(t *testing.T) {
	idx := FromView(testView())

	assert.Equal(t, CellFurniture, idx.ClassifyAt(2, 2))

	markers := Markers(idx)
	require.Len(t, markers, 1)
	assert.Equal(t, domain.Key(2, 2), markers[0].Cell)
	require.Len(t, markers[0].Points, 2)
	assert.Equal(t, 1, markers[0].Points[0].ID)
	assert.Equal(t, 2, markers[0].Points[1].ID)
}
