package mapgrid

import (
	"strings"

	"github.com/poe/almacen/internal/domain"
)

// CellCategory is the visual role of one grid cell.
type CellCategory int

const (
	CellUndefined CellCategory = iota
	CellFurniture
	CellExit
	CellObstacle
	CellWalkable
)

var categoryNames = map[CellCategory]string{
	CellUndefined: "undefined",
	CellFurniture: "furniture",
	CellExit:      "exit",
	CellObstacle:  "obstacle",
	CellWalkable:  "walkable",
}

func (c CellCategory) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "undefined"
}

// kindMatch reports whether the lowercased object kind contains any of the
// given backend category substrings.
func kindMatch(kind string, subs ...string) bool {
	k := strings.ToLower(kind)
	for _, s := range subs {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// Classify maps a located cell to its visual category. First match wins:
//
//  1. no location or no object        -> Undefined
//  2. furniture present               -> Furniture (wins over object kind)
//  3. kind ~ mueble/estanteria        -> Furniture
//  4. kind ~ salida/entrada           -> Exit
//  5. kind ~ muro/pared/obstaculo     -> Obstacle
//  6. kind ~ pasillo/camino/caminable -> Walkable
//  7. walkable flag set               -> Walkable or Obstacle
//  8. otherwise                       -> Obstacle
//
// Total over its domain: every input yields exactly one category.
func Classify(loc *domain.Location) CellCategory {
	if loc == nil || loc.Object == nil {
		return CellUndefined
	}
	if loc.Furniture != nil {
		return CellFurniture
	}

	kind := loc.Object.Kind
	switch {
	case kindMatch(kind, "mueble", "estanteria"):
		return CellFurniture
	case kindMatch(kind, "salida", "entrada"):
		return CellExit
	case kindMatch(kind, "muro", "pared", "obstaculo"):
		return CellObstacle
	case kindMatch(kind, "pasillo", "camino", "caminable"):
		return CellWalkable
	}

	if loc.Object.Walkable != nil {
		if *loc.Object.Walkable {
			return CellWalkable
		}
		return CellObstacle
	}

	// Unknown kind, unknown walkability: treat as blocking.
	return CellObstacle
}

// ClassifyAt classifies the cell at (x,y) in the index.
func (idx *LocationIndex) ClassifyAt(x, y int) CellCategory {
	loc, ok := idx.Get(x, y)
	if !ok {
		return Classify(nil)
	}
	return Classify(&loc)
}
