package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poe/almacen/internal/domain"
	"github.com/poe/almacen/internal/mapgrid"
	"github.com/poe/almacen/internal/route"
)

func walkable(b bool) *bool { return &b }

func testIndex() *mapgrid.LocationIndex {
	grid := domain.Grid{ID: 1, Name: "Bodega", Width: 4, Height: 3}
	locs := []domain.Location{
		{X: 0, Y: 0, Object: &domain.ObjectInfo{Kind: "muro", Walkable: walkable(false)}},
		{X: 3, Y: 0, Object: &domain.ObjectInfo{Kind: "salida"}},
		{X: 1, Y: 1, Furniture: &domain.Furniture{ID: 5, Kind: "gondola", Points: []domain.ReplenishmentPoint{
			{ID: 11, Product: &domain.Product{ID: 7, Name: "Leche"}},
		}}},
		{X: 0, Y: 2, Object: &domain.ObjectInfo{Kind: "pasillo", Walkable: walkable(true)}},
	}
	return mapgrid.NewLocationIndex(grid, locs)
}

func TestGridPlain(t *testing.T) {
	r := New(false)
	out := r.Grid(testIndex(), nil, mapgrid.Markers(testIndex()))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	// Row 0: wall, two undefined cells, exit.
	assert.Equal(t, glyphObstacle+glyphUndefined+glyphUndefined+glyphExit, lines[0])
	// Row 1: furniture cell carries the product marker.
	assert.Equal(t, glyphUndefined+glyphMarker+glyphUndefined+glyphUndefined, lines[1])
	// Row 2: walkable corridor.
	assert.Equal(t, glyphWalkable+glyphUndefined+glyphUndefined+glyphUndefined, lines[2])
}

func TestGridRouteOverlay(t *testing.T) {
	rt := domain.Route{
		TaskID: 4,
		Coordinates: []domain.RouteCoordinate{
			{X: 0, Y: 2, Sequence: 1},
			{X: 1, Y: 2, Sequence: 2},
			{X: 2, Y: 2, Sequence: 3},
		},
	}
	out := New(false).Grid(testIndex(), route.Build(rt), nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, glyphStart+glyphRoute+glyphEnd+glyphUndefined, lines[2])
}

func TestGridUnavailable(t *testing.T) {
	idx := mapgrid.FromView(domain.MapView{Message: "sin mapa"})
	out := New(false).Grid(idx, nil, nil)
	assert.Equal(t, "Mapa no disponible", out)
}

func TestTasksPlain(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Status: domain.StatusPending, CreatedAt: time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
			Products: []domain.TaskProduct{{Name: "Leche", Quantity: 6, ShelfUnit: "2", Level: 1}}},
		{ID: 2, Status: domain.StatusInProgress, Assignee: "Ana Soto"},
	}
	out := New(false).Tasks(tasks)

	assert.Contains(t, out, "#1  Pendiente")
	assert.Contains(t, out, "6x Leche (estanteria 2, nivel 1)")
	assert.Contains(t, out, "#2  En progreso  Ana Soto")
	assert.Contains(t, out, "2 total  1 pendientes  1 en progreso  0 completadas")

	assert.Equal(t, "No hay tareas", New(false).Tasks(nil))
}

func TestRouteSummary(t *testing.T) {
	rt := domain.Route{
		TaskID:           4,
		AlgorithmName:    "vecino_mas_cercano",
		TotalDistance:    42.5,
		EstimatedMinutes: 12,
		Coordinates:      []domain.RouteCoordinate{{X: 0, Y: 0, Sequence: 1}},
		VisitedPoints: []domain.PointVisit{
			{Order: 1, Product: "Leche", Quantity: 4, Furniture: "Gondola 1"},
			{Order: 2, Product: "Pan"},
		},
	}
	out := New(false).RouteSummary(rt)

	assert.Contains(t, out, "Ruta tarea #4")
	assert.Contains(t, out, "vecino_mas_cercano")
	assert.Contains(t, out, "1. Leche x4 - Gondola 1")
	assert.Contains(t, out, "2. Pan")

	assert.Equal(t, "Sin ruta generada", New(false).RouteSummary(domain.Route{}))
}

func TestWriter(t *testing.T) {
	var buf strings.Builder
	w := NewWriter(&buf)
	w.Header("Puntos de reposicion")
	w.Println("(1,2) mueble #3")
	w.Item("#4 Leche")
	w.Line()
	w.Empty("No hay puntos")

	out := buf.String()
	assert.Contains(t, out, "PUNTOS DE REPOSICION\n")
	assert.Contains(t, out, "(1,2) mueble #3\n")
	assert.Contains(t, out, "  #4 Leche\n")
	assert.Contains(t, out, "No hay puntos\n")
}

func TestLegend(t *testing.T) {
	out := New(false).Legend(true)
	assert.Contains(t, out, "transitable")
	assert.Contains(t, out, "ruta")

	assert.NotContains(t, New(false).Legend(false), "inicio")
}
