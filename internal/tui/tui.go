// Package tui provides the interactive warehouse client using Bubble Tea.
package tui

import (
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/domain"
	"github.com/poe/almacen/internal/mapgrid"
	"github.com/poe/almacen/internal/render"
	"github.com/poe/almacen/internal/route"
	"github.com/poe/almacen/internal/selection"
	"github.com/poe/almacen/internal/tasks"
)

// pollInterval is how often the task list re-fetches in the background.
const pollInterval = 5 * time.Minute

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// View represents the current view mode
type View int

const (
	ViewTasks View = iota
	ViewMap
	ViewRoute
	ViewHelp
)

// Services bundles the backend services the TUI drives.
type Services struct {
	User   domain.User
	Ctrl   *tasks.Controller
	Maps   *api.MapService
	Routes *api.RouteService
	Tasks  *api.TaskService
}

// Model is the main TUI model
type Model struct {
	svc Services

	// State
	view        View
	taskList    []domain.Task
	selectedIdx int
	index       *mapgrid.LocationIndex
	mapMessage  string
	overlay     *route.Overlay
	curRoute    domain.Route
	canGenerate bool
	sel         *selection.Model
	selIdx      int
	cursor      domain.CellKey
	err         error
	expired     bool
	busy        bool
	ready       bool
	quitting    bool

	// Quantity entry
	editing  bool
	editFor  domain.ReplenishmentPoint
	editCell domain.CellKey
	qtyInput textinput.Model

	// Components
	spinner  spinner.Model
	viewport viewport.Model
	renderer *render.Renderer
	width    int
	height   int
}

// New creates the TUI model for an authenticated user.
func New(svc Services) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "cantidad"
	ti.CharLimit = 5
	ti.Width = 8

	return Model{
		svc:      svc,
		view:     ViewTasks,
		spinner:  s,
		qtyInput: ti,
		sel:      selection.New(),
		// Plain glyphs: the cursor overlay indexes the grid by rune, which
		// ANSI color sequences would break.
		renderer: render.New(false),
	}
}

// Init starts the initial fetches and the poll loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadTasks(),
		m.loadMap(),
		tickCmd(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			cmd := m.updateQuantityEntry(msg)
			return m, cmd
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		headerHeight := 5
		footerHeight := 3
		m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight)

	case tasksMsg:
		m.taskList = msg
		if m.selectedIdx >= len(m.taskList) {
			m.selectedIdx = 0
		}

	case mapMsg:
		m.index = msg.index
		m.mapMessage = msg.message
		m.cursor = domain.Key(0, 0)

	case routeMsg:
		m.curRoute = msg.route
		m.canGenerate = msg.canGenerate
		m.overlay = nil
		if !msg.route.Empty() {
			m.overlay = route.Build(msg.route)
		}

	case mutationDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.err = nil
		cmds = append(cmds, m.loadTasks())
		if msg.clearRoute {
			m.curRoute = domain.Route{}
			m.overlay = nil
		}
		if msg.fetchRoute {
			cmds = append(cmds, m.loadRoute())
		}
		if msg.clearSelects {
			m.sel.Clear()
		}

	case errMsg:
		m.fail(msg)
		return m, nil

	case tickMsg:
		// Session expiry latches: polling stops until a fresh login.
		if !m.expired {
			cmds = append(cmds, m.loadTasks(), tickCmd())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.view == ViewRoute {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) fail(err error) {
	m.busy = false
	m.err = err
	if errors.Is(err, api.ErrSessionExpired) {
		m.expired = true
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return tea.Quit, true

	case "?":
		if m.view == ViewHelp {
			m.view = ViewTasks
		} else {
			m.view = ViewHelp
		}
		return nil, true

	case "ctrl+r":
		// Manual refresh, same fetches the poll tick runs.
		if m.expired {
			return nil, true
		}
		return tea.Batch(m.loadTasks(), m.loadMap()), true

	case "1", "t":
		m.view = ViewTasks
		return nil, true
	case "2", "m":
		m.view = ViewMap
		return nil, true
	case "3", "v":
		m.view = ViewRoute
		return m.maybeLoadRoute(), true
	}

	switch m.view {
	case ViewTasks:
		return m.handleTasksKey(msg)
	case ViewMap:
		return m.handleMapKey(msg)
	case ViewRoute:
		if msg.String() == "g" && m.canGenerate && !m.busy && !m.expired {
			if active, ok := m.svc.Ctrl.Active().Get(); ok {
				m.busy = true
				return m.generateRoute(active.ID), true
			}
		}
		return nil, false
	case ViewHelp:
		m.view = ViewTasks
		return nil, true
	}
	return nil, false
}

func (m *Model) handleTasksKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "up", "k":
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return nil, true
	case "down", "j":
		if m.selectedIdx < len(m.taskList)-1 {
			m.selectedIdx++
		}
		return nil, true
	case "s":
		return m.mutate(func(t domain.Task) tea.Cmd { return m.startTask(t.ID) }), true
	case "c":
		return m.mutate(func(t domain.Task) tea.Cmd { return m.completeTask(t.ID) }), true
	case "r":
		return m.mutate(func(t domain.Task) tea.Cmd { return m.restartTask(t.ID) }), true
	case "R":
		if m.svc.User.Role == domain.RoleSupervisor && !m.busy && !m.expired {
			m.busy = true
			return m.resetAll(), true
		}
		return nil, true
	}
	return nil, false
}

// mutate runs a lifecycle action on the selected task unless one is already
// in flight.
func (m *Model) mutate(action func(domain.Task) tea.Cmd) tea.Cmd {
	if m.busy || m.expired || len(m.taskList) == 0 {
		return nil
	}
	m.busy = true
	return action(m.taskList[m.selectedIdx])
}

func (m *Model) handleMapKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.index == nil || !m.index.Available() {
		return nil, false
	}
	g := m.index.Grid()

	switch msg.String() {
	case "left", "h":
		if m.cursor.X > 0 {
			m.cursor.X--
		}
		return nil, true
	case "right", "l":
		if m.cursor.X < g.Width-1 {
			m.cursor.X++
		}
		return nil, true
	case "up", "k":
		if m.cursor.Y > 0 {
			m.cursor.Y--
		}
		return nil, true
	case "down", "j":
		if m.cursor.Y < g.Height-1 {
			m.cursor.Y++
		}
		return nil, true

	case " ":
		if loc, ok := m.index.At(m.cursor); ok && loc.Furniture != nil {
			m.sel.ToggleFurniture(loc)
			m.clampSelIdx()
		}
		return nil, true

	case "p":
		// Single-point toggle: just the first product point of the unit,
		// without the furniture cascade.
		if loc, ok := m.index.At(m.cursor); ok && loc.Furniture != nil {
			if points := loc.Furniture.ProductPoints(); len(points) > 0 {
				m.sel.ToggleSinglePoint(points[0])
				m.clampSelIdx()
			}
		}
		return nil, true

	case "e":
		if loc, ok := m.index.At(m.cursor); ok && loc.Furniture != nil {
			points := loc.Furniture.ProductPoints()
			if len(points) > 0 {
				m.editing = true
				m.editFor = points[0]
				m.editCell = m.cursor
				m.qtyInput.SetValue("")
				m.qtyInput.Focus()
			}
		}
		return nil, true

	case "tab":
		if n := m.sel.Count(); n > 0 {
			m.selIdx = (m.selIdx + 1) % n
		}
		return nil, true

	case "+", "=":
		if sp, ok := m.highlighted(); ok {
			m.sel.UpdateQuantity(sp.Point.ID, sp.Quantity+1)
		}
		return nil, true

	case "-":
		if sp, ok := m.highlighted(); ok {
			m.sel.UpdateQuantity(sp.Point.ID, sp.Quantity-1)
		}
		return nil, true

	case "d":
		if sp, ok := m.highlighted(); ok {
			m.sel.RemovePoint(sp.Point.ID)
			m.clampSelIdx()
		}
		return nil, true

	case "x":
		m.sel.Clear()
		m.selIdx = 0
		return nil, true

	case "n":
		if m.svc.User.Role == domain.RoleSupervisor && !m.busy {
			points, err := m.sel.ForSubmit()
			if err != nil {
				m.err = err
				return nil, true
			}
			m.busy = true
			return m.createTask(points), true
		}
		return nil, true
	}
	return nil, false
}

// highlighted returns the selection entry under the list cursor.
func (m *Model) highlighted() (selection.SelectedPoint, bool) {
	points := m.sel.Points()
	if m.selIdx < 0 || m.selIdx >= len(points) {
		return selection.SelectedPoint{}, false
	}
	return points[m.selIdx], true
}

func (m *Model) clampSelIdx() {
	if n := m.sel.Count(); m.selIdx >= n {
		m.selIdx = 0
	}
}

func (m *Model) updateQuantityEntry(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		if qty, err := strconv.Atoi(m.qtyInput.Value()); err == nil && m.editFor.Product != nil {
			m.sel.SetGroupQuantity(m.editCell, m.editFor.Product.Name, qty)
		}
		m.editing = false
		m.qtyInput.Blur()
		return nil
	case "esc":
		m.editing = false
		m.qtyInput.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.qtyInput, cmd = m.qtyInput.Update(msg)
	return cmd
}

// maybeLoadRoute fetches the route for the active task when entering the
// route view. Routes only exist for the task in progress.
func (m *Model) maybeLoadRoute() tea.Cmd {
	active, ok := m.svc.Ctrl.Active().Get()
	if !ok || !m.svc.Ctrl.Active().RouteAllowed(active.ID) {
		return nil
	}
	return m.loadRoute()
}

// Run starts the TUI.
func Run(svc Services) error {
	p := tea.NewProgram(New(svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
