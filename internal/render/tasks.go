package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/poe/almacen/internal/domain"
)

// Tasks formats a task list.
func (r *Renderer) Tasks(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return "No hay tareas"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Tareas\n"))
		width := TermWidth(60)
		if width > 60 {
			width = 60
		}
		sb.WriteString(strings.Repeat("─", width) + "\n")
	}

	for _, t := range tasks {
		r.formatTask(&sb, t)
	}

	m := domain.Metrics(tasks)
	fmt.Fprintf(&sb, "\n%d total  %d pendientes  %d en progreso  %d completadas\n",
		m.Total, m.Pending, m.InProgress, m.Completed)
	return sb.String()
}

func (r *Renderer) formatTask(sb *strings.Builder, t domain.Task) {
	label := t.Status.Label()
	if r.pretty {
		switch t.Status {
		case domain.StatusInProgress:
			label = color.YellowString(label)
		case domain.StatusCompleted:
			label = color.GreenString(label)
		case domain.StatusCancelled:
			label = color.RedString(label)
		}
	}

	fmt.Fprintf(sb, "%s #%d  %s", StatusIcon(t.Status), t.ID, label)
	if t.Assignee != "" {
		fmt.Fprintf(sb, "  %s", t.Assignee)
	}
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(sb, "  %s", t.CreatedAt.Format("2006-01-02 15:04"))
	}
	sb.WriteString("\n")

	for _, p := range t.Products {
		fmt.Fprintf(sb, "    %dx %s (estanteria %s, nivel %d)\n", p.Quantity, p.Name, p.ShelfUnit, p.Level)
	}
}

// RouteSummary formats the route header and its visit list in walking order.
func (r *Renderer) RouteSummary(rt domain.Route) string {
	if rt.Empty() {
		return "Sin ruta generada"
	}

	var sb strings.Builder
	header := fmt.Sprintf("Ruta tarea #%d", rt.TaskID)
	if r.pretty {
		header = color.CyanString(header)
	}
	sb.WriteString(header + "\n")

	if rt.AlgorithmName != "" {
		fmt.Fprintf(&sb, "Algoritmo: %s\n", rt.AlgorithmName)
	}
	if rt.TotalDistance > 0 {
		fmt.Fprintf(&sb, "Distancia: %.1f\n", rt.TotalDistance)
	}
	if rt.EstimatedMinutes > 0 {
		fmt.Fprintf(&sb, "Tiempo estimado: %.1f min\n", rt.EstimatedMinutes)
	}

	for _, v := range rt.VisitedPoints {
		fmt.Fprintf(&sb, "  %d. %s", v.Order, v.Product)
		if v.Quantity > 0 {
			fmt.Fprintf(&sb, " x%d", v.Quantity)
		}
		if v.Furniture != "" {
			fmt.Fprintf(&sb, " - %s", v.Furniture)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Reponedores formats the worker list for task assignment.
func (r *Renderer) Reponedores(list []domain.Reponedor) string {
	if len(list) == 0 {
		return "No hay reponedores"
	}
	var sb strings.Builder
	for _, rep := range list {
		fmt.Fprintf(&sb, "#%d  %s  %s", rep.ID, rep.Name, rep.Email)
		if rep.State != "" {
			fmt.Fprintf(&sb, "  (%s)", rep.State)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
