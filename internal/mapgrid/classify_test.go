package mapgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poe/almacen/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

func TestClassifyNoLocation(t *testing.T) {
	assert.Equal(t, CellUndefined, Classify(nil))
	assert.Equal(t, CellUndefined, Classify(&domain.Location{X: 1, Y: 1}))
}

func TestClassifyFurnitureWinsOverKind(t *testing.T) {
	// A cell that is both a wall by kind and a furniture holder must render
	// as furniture.
	loc := &domain.Location{
		Object:    &domain.ObjectInfo{Kind: "muro"},
		Furniture: &domain.Furniture{ID: 1},
	}
	assert.Equal(t, CellFurniture, Classify(loc))
}

func TestClassifyKindSubstrings(t *testing.T) {
	cases := []struct {
		kind string
		want CellCategory
	}{
		{"mueble", CellFurniture},
		{"Estanteria doble", CellFurniture},
		{"salida", CellExit},
		{"puerta de entrada", CellExit},
		{"muro", CellObstacle},
		{"pared norte", CellObstacle},
		{"obstaculo", CellObstacle},
		{"pasillo", CellWalkable},
		{"camino principal", CellWalkable},
		{"zona caminable", CellWalkable},
	}
	for _, tc := range cases {
		loc := &domain.Location{Object: &domain.ObjectInfo{Kind: tc.kind}}
		assert.Equal(t, tc.want, Classify(loc), "kind=%q", tc.kind)
	}
}

func TestClassifyWalkableFallback(t *testing.T) {
	walkable := &domain.Location{Object: &domain.ObjectInfo{Kind: "zona", Walkable: boolPtr(true)}}
	blocked := &domain.Location{Object: &domain.ObjectInfo{Kind: "zona", Walkable: boolPtr(false)}}
	unknown := &domain.Location{Object: &domain.ObjectInfo{Kind: "zona"}}

	assert.Equal(t, CellWalkable, Classify(walkable))
	assert.Equal(t, CellObstacle, Classify(blocked))
	// Unknown kind and unknown walkability defaults to blocking.
	assert.Equal(t, CellObstacle, Classify(unknown))
}

// Totality: every combination of kind bucket, walkable flag and furniture
// presence yields exactly one of the five categories.
func TestClassifyTotality(t *testing.T) {
	kinds := []string{"", "mueble", "salida", "muro", "pasillo", "???", "ESTANTERIA"}
	walkables := []*bool{nil, boolPtr(true), boolPtr(false)}
	furnitures := []*domain.Furniture{nil, {ID: 9}}

	valid := map[CellCategory]bool{
		CellUndefined: true,
		CellFurniture: true,
		CellExit:      true,
		CellObstacle:  true,
		CellWalkable:  true,
	}

	for _, kind := range kinds {
		for _, w := range walkables {
			for _, f := range furnitures {
				loc := &domain.Location{
					Object:    &domain.ObjectInfo{Kind: kind, Walkable: w},
					Furniture: f,
				}
				got := Classify(loc)
				assert.True(t, valid[got], "kind=%q walkable=%v furniture=%v -> %v", kind, w, f, got)
			}
		}
	}
}

func TestClassifyAtOutsidePayload(t *testing.T) {
	idx := NewLocationIndex(domain.Grid{Width: 2, Height: 2}, nil)
	assert.Equal(t, CellUndefined, idx.ClassifyAt(0, 0))
}
