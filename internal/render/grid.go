package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/poe/almacen/internal/domain"
	"github.com/poe/almacen/internal/mapgrid"
	"github.com/poe/almacen/internal/route"
)

// Renderer handles output formatting. With pretty off it emits plain ASCII
// suitable for pipes and tests.
type Renderer struct {
	pretty bool
}

// New creates a new renderer.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// cell glyphs, one per category. Route cells override their category glyph.
const (
	glyphWalkable  = "·"
	glyphObstacle  = "█"
	glyphFurniture = "▒"
	glyphExit      = "E"
	glyphUndefined = " "
	glyphRoute     = "*"
	glyphStart     = "S"
	glyphEnd       = "F"
	glyphMarker    = "P"
)

func (r *Renderer) paint(glyph string, c *color.Color) string {
	if !r.pretty || c == nil {
		return glyph
	}
	return c.Sprint(glyph)
}

var (
	colorFurniture = color.New(color.FgYellow)
	colorObstacle  = color.New(color.FgHiBlack)
	colorExit      = color.New(color.FgCyan)
	colorRoute     = color.New(color.FgBlue)
	colorStart     = color.New(color.FgGreen, color.Bold)
	colorEnd       = color.New(color.FgRed, color.Bold)
	colorMarker    = color.New(color.FgMagenta, color.Bold)
)

// Grid renders the warehouse map with the route overlay and product markers
// on top. Row 0 prints first so the layout matches the backend's coordinate
// system (y grows downward).
func (r *Renderer) Grid(idx *mapgrid.LocationIndex, overlay *route.Overlay, markers []mapgrid.Marker) string {
	g := idx.Grid()
	if !idx.Available() {
		return "Mapa no disponible"
	}

	marked := make(map[domain.CellKey]bool, len(markers))
	for _, m := range markers {
		marked[m.Cell] = true
	}

	var start, end domain.CellKey
	hasEnds := false
	if overlay != nil && overlay.Start() != nil && overlay.End() != nil {
		start = cellOf(*overlay.Start())
		end = cellOf(*overlay.End())
		hasEnds = true
	}

	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			k := domain.Key(x, y)
			sb.WriteString(r.cellGlyph(idx, overlay, marked, k, hasEnds, start, end))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Renderer) cellGlyph(idx *mapgrid.LocationIndex, overlay *route.Overlay, marked map[domain.CellKey]bool, k domain.CellKey, hasEnds bool, start, end domain.CellKey) string {
	if hasEnds {
		if k == start {
			return r.paint(glyphStart, colorStart)
		}
		if k == end {
			return r.paint(glyphEnd, colorEnd)
		}
	}
	if marked[k] {
		return r.paint(glyphMarker, colorMarker)
	}
	if overlay != nil && overlay.OnRoute(k) {
		return r.paint(glyphRoute, colorRoute)
	}

	switch idx.ClassifyAt(k.X, k.Y) {
	case mapgrid.CellFurniture:
		return r.paint(glyphFurniture, colorFurniture)
	case mapgrid.CellExit:
		return r.paint(glyphExit, colorExit)
	case mapgrid.CellObstacle:
		return r.paint(glyphObstacle, colorObstacle)
	case mapgrid.CellWalkable:
		return glyphWalkable
	default:
		return glyphUndefined
	}
}

// cellOf maps a pixel-space overlay point back to its grid cell.
func cellOf(p route.Point) domain.CellKey {
	return domain.Key(int(p.X)/route.CellSize, int(p.Y)/route.CellSize)
}

// Legend explains the grid glyphs.
func (r *Renderer) Legend(withRoute bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s transitable  %s obstaculo  %s mueble  %s salida  %s producto\n",
		glyphWalkable, r.paint(glyphObstacle, colorObstacle), r.paint(glyphFurniture, colorFurniture),
		r.paint(glyphExit, colorExit), r.paint(glyphMarker, colorMarker))
	if withRoute {
		fmt.Fprintf(&sb, "%s ruta  %s inicio  %s fin\n",
			r.paint(glyphRoute, colorRoute), r.paint(glyphStart, colorStart), r.paint(glyphEnd, colorEnd))
	}
	return sb.String()
}
