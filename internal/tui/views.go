package tui

import (
	"fmt"
	"strings"

	"github.com/poe/almacen/internal/domain"
	"github.com/poe/almacen/internal/mapgrid"
	"github.com/poe/almacen/internal/render"
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Hasta luego\n"
	}
	if !m.ready {
		return fmt.Sprintf("\n  %s Cargando...", m.spinner.View())
	}
	if m.expired {
		return m.viewExpired()
	}

	switch m.view {
	case ViewMap:
		return m.viewMap()
	case ViewRoute:
		return m.viewRoute()
	case ViewHelp:
		return m.viewHelp()
	default:
		return m.viewTasks()
	}
}

func (m Model) header(title string) string {
	role := string(m.svc.User.Role)
	who := fmt.Sprintf("%s (%s)", m.svc.User.Name, role)
	return titleStyle.Render(title) + "  " + infoStyle.Render(who) + "\n\n"
}

func (m Model) footer(help string) string {
	var b strings.Builder
	if m.err != nil {
		b.WriteString(errorStyle.Render("  "+m.err.Error()) + "\n")
	}
	if m.busy {
		b.WriteString(fmt.Sprintf("  %s trabajando...\n", m.spinner.View()))
	}
	b.WriteString(helpStyle.Render("  " + help))
	return b.String()
}

func (m Model) viewExpired() string {
	var b strings.Builder
	b.WriteString(m.header("Almacen"))
	b.WriteString(errorStyle.Render("  Sesion expirada. Vuelve a iniciar sesion con: almacen login") + "\n")
	b.WriteString(helpStyle.Render("  q: salir"))
	return b.String()
}

func (m Model) viewTasks() string {
	var b strings.Builder
	b.WriteString(m.header("Tareas"))

	if len(m.taskList) == 0 {
		b.WriteString(infoStyle.Render("  No hay tareas\n"))
	}
	for i, t := range m.taskList {
		cursor := "  "
		style := infoStyle
		if i == m.selectedIdx {
			cursor = "▶ "
			style = activeStyle
		}
		line := fmt.Sprintf("%s%s #%d  %s", cursor, render.StatusIcon(t.Status), t.ID, t.Status.Label())
		if t.Assignee != "" {
			line += "  " + t.Assignee
		}
		b.WriteString(style.Render(line) + "\n")
	}

	met := domain.Metrics(m.taskList)
	b.WriteString("\n" + infoStyle.Render(fmt.Sprintf(
		"  %d total │ %d pendientes │ %d en progreso │ %d completadas",
		met.Total, met.Pending, met.InProgress, met.Completed)) + "\n")

	help := "j/k: mover │ s: iniciar │ c: completar │ r: reiniciar │ 2: mapa │ 3: ruta │ q: salir"
	if m.svc.User.Role == domain.RoleSupervisor {
		help = "j/k: mover │ s/c/r: estado │ R: resetear todas │ 2: mapa │ q: salir"
	}
	b.WriteString(m.footer(help))
	return b.String()
}

func (m Model) viewMap() string {
	var b strings.Builder
	b.WriteString(m.header("Mapa"))

	if m.index == nil {
		b.WriteString(fmt.Sprintf("  %s Cargando mapa...\n", m.spinner.View()))
		b.WriteString(m.footer("1: tareas │ q: salir"))
		return b.String()
	}
	if !m.index.Available() {
		// Empty state, not an error: the fetch succeeded but there is no
		// renderable grid (no points assigned yet).
		msg := m.mapMessage
		if msg == "" {
			msg = "No hay puntos asignados"
		}
		b.WriteString(infoStyle.Render("  "+msg) + "\n")
		b.WriteString(m.footer("ctrl+r: actualizar │ 1: tareas │ q: salir"))
		return b.String()
	}

	grid := m.renderer.Grid(m.index, m.overlay, mapgrid.Markers(m.index))
	grid = m.markCursor(grid)
	b.WriteString(boxStyle.Render(grid) + "\n")
	b.WriteString(infoStyle.Render("  "+strings.TrimRight(m.renderer.Legend(m.overlay != nil), "\n")) + "\n")

	if n := m.sel.Count(); n > 0 {
		b.WriteString(activeStyle.Render(fmt.Sprintf("  %d puntos seleccionados", n)) + "\n")
		for i, sp := range m.sel.Points() {
			name := ""
			if sp.Point.Product != nil {
				name = sp.Point.Product.Name
			}
			cursor := "  "
			style := infoStyle
			if i == m.selIdx {
				cursor = "▶ "
				style = activeStyle
			}
			b.WriteString(style.Render(fmt.Sprintf("  %s#%d %s x%d", cursor, sp.Point.ID, name, sp.Quantity)) + "\n")
		}
	}

	if m.editing {
		b.WriteString("\n  cantidad: " + m.qtyInput.View() + "\n")
	}

	help := "h/j/k/l: cursor │ espacio: mueble │ p: punto │ tab/+/-/d: seleccion │ e: cantidad │ x: limpiar │ 1: tareas"
	if m.svc.User.Role == domain.RoleSupervisor {
		help += " │ n: crear tarea"
	}
	b.WriteString(m.footer(help))
	return b.String()
}

// markCursor overlays the cursor glyph on the rendered grid. The grid is one
// rune per cell, so the cursor position maps straight to row/column.
func (m Model) markCursor(grid string) string {
	lines := strings.Split(grid, "\n")
	if m.cursor.Y >= len(lines) {
		return grid
	}
	runes := []rune(lines[m.cursor.Y])
	if m.cursor.X >= len(runes) {
		return grid
	}
	runes[m.cursor.X] = '◆'
	lines[m.cursor.Y] = string(runes)
	return strings.Join(lines, "\n")
}

func (m Model) viewRoute() string {
	var b strings.Builder
	b.WriteString(m.header("Ruta"))

	active, ok := m.svc.Ctrl.Active().Get()
	if !ok {
		b.WriteString(infoStyle.Render("  Inicia una tarea para ver su ruta") + "\n")
		b.WriteString(m.footer("1: tareas │ q: salir"))
		return b.String()
	}

	if m.curRoute.Empty() {
		if m.canGenerate {
			b.WriteString(infoStyle.Render(fmt.Sprintf("  Tarea #%d sin ruta.", active.ID)) + "\n")
			b.WriteString(activeStyle.Render("  g: generar ruta") + "\n")
		} else {
			b.WriteString(fmt.Sprintf("  %s Buscando ruta...\n", m.spinner.View()))
		}
		b.WriteString(m.footer("g: generar │ 1: tareas │ q: salir"))
		return b.String()
	}

	m.viewport.SetContent(m.renderer.RouteSummary(m.curRoute))
	b.WriteString(boxStyle.Width(m.width-4).Render(m.viewport.View()) + "\n")
	b.WriteString(m.footer("scroll: ver detalle │ 2: mapa │ 1: tareas │ q: salir"))
	return b.String()
}

func (m Model) viewHelp() string {
	help := `
  Cliente de almacen

  VISTAS
    1/t       Tareas
    2/m       Mapa
    3/v       Ruta
    ?         Ayuda

  TAREAS
    j/k       Navegar
    s         Iniciar tarea
    c         Completar tarea
    r         Reiniciar tarea
    R         Resetear todas (supervisor)

  MAPA
    h/j/k/l   Mover cursor
    espacio   Seleccionar mueble
    p         Seleccionar punto suelto
    tab       Recorrer seleccion
    +/-       Ajustar cantidad
    d         Quitar punto
    e         Editar cantidad
    x         Limpiar seleccion
    n         Crear tarea (supervisor)

  RUTA
    g         Generar ruta de la tarea activa

  GENERAL
    ctrl+r    Actualizar tareas y mapa
`
	return titleStyle.Render("Ayuda") + "\n" + infoStyle.Render(help) + helpStyle.Render("\n  pulsa cualquier tecla para volver")
}
