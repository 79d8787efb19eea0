package ui

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"calselect/internal/config"
	"calselect/internal/domain"
	"calselect/internal/eventbus"
	"calselect/internal/grid"
	"calselect/internal/selector"
	"calselect/internal/ui/views"
)

// ReadyMarker is printed once the first frame is drawn in e2e mode
const ReadyMarker = "__READY__"

const statusTimeout = 3 * time.Second

// Model represents the UI state
type Model struct {
	bus      eventbus.EventBus
	config   *config.Config
	sel      *selector.Selector
	grid     grid.Grid
	geometry views.Geometry
	palette  views.Palette

	width  int
	height int
	keys   keyMap
	help   help.Model

	cursorCol int
	cursorRow int

	// selections as last reported by notifications
	shown map[domain.SelectionID]selector.Selection

	status    string
	statusErr bool
	statusSeq int

	dragging    bool // left button held since a press inside the grid
	inPagerMode bool // tracks if we're currently in pager mode
	readyMarker bool

	renderer    *views.Renderer
	pager       *Pager
	now         func() time.Time
	unsubscribe []func()

	// Program reference for terminal management
	program *tea.Program
}

// Option configures a Model
type Option func(*Model)

// WithClock replaces time.Now for "today"
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// WithReadyMarker makes View print ReadyMarker on the help line
func WithReadyMarker() Option {
	return func(m *Model) {
		m.readyMarker = true
	}
}

// NewModel creates a new UI model showing the week containing display.
// The model subscribes to selection notifications on bus; call Close to
// unsubscribe.
func NewModel(bus eventbus.EventBus, cfg *config.Config, sel *selector.Selector, display time.Time, opts ...Option) (*Model, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return nil, fmt.Errorf("invalid grid settings: %w", err)
	}

	m := &Model{
		bus:      bus,
		config:   cfg,
		sel:      sel,
		grid:     grid.New(display, layout),
		palette:  views.Palette{HueOffset: cfg.UI.HueOffset},
		keys:     defaultKeyMap(),
		help:     help.New(),
		shown:    make(map[domain.SelectionID]selector.Selection),
		renderer: views.NewRenderer(),
		pager:    NewPager(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.placeCursor(display)
	m.relayout()

	for _, t := range []eventbus.EventType{
		eventbus.EventSelectionCreated,
		eventbus.EventSelectionUpdated,
		eventbus.EventSelectionRemoved,
	} {
		m.unsubscribe = append(m.unsubscribe, bus.Subscribe(t, m.onSelectionEvent))
	}

	// Selections made before the model existed
	for _, s := range sel.All() {
		m.shown[s.ID] = s
	}
	return m, nil
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Close drops the model's bus subscriptions
func (m *Model) Close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
}

// onSelectionEvent runs synchronously inside Selector calls, so Get
// already reflects the change being announced.
func (m *Model) onSelectionEvent(e eventbus.DomainEvent) {
	se, ok := e.(eventbus.SelectionEvent)
	if !ok {
		return
	}
	id := se.SelectionID()

	switch e.Type() {
	case eventbus.EventSelectionCreated, eventbus.EventSelectionUpdated:
		if s, ok := m.sel.Get(id); ok {
			m.shown[id] = s
		}
	case eventbus.EventSelectionRemoved:
		delete(m.shown, id)
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("calselect")
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.inPagerMode {
			return m, nil
		}
		return m.handleMouse(msg)

	case EventMsg:
		return m.handleEvent(msg.Event)

	case pagerMsg:
		if msg.err != nil {
			slog.Warn("pager failed", "what", msg.what, "error", msg.err)
			return m, m.flashError(fmt.Errorf("%s: %w", msg.what, msg.err))
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		// Only the newest message may clear itself
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)

	case key.Matches(msg, m.keys.Begin):
		return m, m.beginAtCursor(false)
	case key.Matches(msg, m.keys.Add):
		return m, m.beginAtCursor(true)
	case key.Matches(msg, m.keys.Release):
		m.sel.ReleaseSelection()

	case key.Matches(msg, m.keys.StartEarly):
		m.nudgeStart(-1)
	case key.Matches(msg, m.keys.StartLate):
		m.nudgeStart(1)
	case key.Matches(msg, m.keys.EndEarly):
		m.nudgeEnd(-1)
	case key.Matches(msg, m.keys.EndLate):
		m.nudgeEnd(1)

	case key.Matches(msg, m.keys.Remove):
		m.removeAtCursor()
	case key.Matches(msg, m.keys.Clear):
		m.sel.Clear()
		return m, m.flash("cleared")

	case key.Matches(msg, m.keys.NextWeek):
		m.setGrid(m.grid.Shift(1))
	case key.Matches(msg, m.keys.PrevWeek):
		m.setGrid(m.grid.Shift(-1))
	case key.Matches(msg, m.keys.Today):
		now := m.now()
		m.setGrid(grid.New(now, m.grid.Layout))
		m.placeCursor(now)
		m.geometry = m.geometry.Follow(m.cursorRow)

	case key.Matches(msg, m.keys.Agenda):
		content := m.renderer.RenderAgenda(m.grid, m.sortedSelections(), m.palette)
		return m, m.showInPager("agenda", content)
	case key.Matches(msg, m.keys.Help):
		return m, m.showInPager("help", renderHelpContent(m.keys))
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.geometry = m.geometry.Scroll(-1)
		case tea.MouseButtonWheelDown:
			m.geometry = m.geometry.Scroll(1)
		case tea.MouseButtonLeft:
			col, row, ok := m.geometry.CellAt(msg.X, msg.Y)
			if !ok {
				return m, nil
			}
			m.cursorCol, m.cursorRow = col, row
			m.dragging = true
			return m, m.beginAtCursor(msg.Shift || msg.Ctrl || msg.Alt)
		}

	case tea.MouseActionMotion:
		if !m.dragging {
			return m, nil
		}
		col, row, ok := m.geometry.CellAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.cursorCol, m.cursorRow = col, row
		m.dragCurrent()

	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			m.sel.ReleaseSelection()
		}
	}
	return m, nil
}

// handleEvent processes events forwarded from other goroutines
func (m *Model) handleEvent(e eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch ev := e.(type) {
	case eventbus.ConfigChangedEvent:
		cfg, ok := ev.Config.(*config.Config)
		if !ok {
			return m, nil
		}
		layout, err := cfg.Layout()
		if err != nil {
			return m, m.flashError(err)
		}
		m.config = cfg
		m.palette.HueOffset = cfg.UI.HueOffset
		m.setGrid(m.grid.WithLayout(layout))
		slog.Info("applied reloaded config", "path", ev.Path)
		return m, m.flash("config reloaded")

	case eventbus.ErrorEvent:
		if ev.Err != nil {
			return m, m.flashError(fmt.Errorf("%s: %w", ev.Message, ev.Err))
		}
		return m, m.flashError(fmt.Errorf("%s", ev.Message))
	}
	return m, nil
}

func (m *Model) beginAtCursor(additive bool) tea.Cmd {
	cell, ok := m.grid.Cell(m.cursorCol, m.cursorRow)
	if !ok {
		return nil
	}
	id, err := m.sel.BeginSelection(cell.Start, cell.End, additive)
	if err != nil {
		slog.Error("begin selection failed", "error", err)
		return m.flashError(err)
	}
	slog.Debug("selection begun", "id", id, "start", cell.Start, "additive", additive)
	return nil
}

func (m *Model) moveCursor(dc, dr int) {
	m.cursorCol = clamp(m.cursorCol+dc, 0, m.grid.Days-1)
	m.cursorRow = clamp(m.cursorRow+dr, 0, m.grid.Rows()-1)
	m.geometry = m.geometry.Follow(m.cursorRow)
	m.dragCurrent()
}

// dragCurrent stretches the held selection to the cursor cell
func (m *Model) dragCurrent() {
	id, ok := m.sel.CurrentSelection()
	if !ok {
		return
	}
	cell, ok := m.grid.Cell(m.cursorCol, m.cursorRow)
	if !ok {
		return
	}
	m.sel.DragTo(id, cell.Start, cell.End)
}

func (m *Model) nudgeStart(dir int) {
	id, ok := m.sel.EditingSelection()
	if !ok {
		return
	}
	if s, ok := m.sel.Get(id); ok {
		m.sel.UpdateSelectionStart(id, s.Start.Add(time.Duration(dir)*m.grid.Spacing))
	}
}

func (m *Model) nudgeEnd(dir int) {
	id, ok := m.sel.EditingSelection()
	if !ok {
		return
	}
	if s, ok := m.sel.Get(id); ok {
		m.sel.UpdateSelectionEnd(id, s.End.Add(time.Duration(dir)*m.grid.Spacing))
	}
}

// removeAtCursor removes the selection under the cursor, or the one being
// edited when the cursor is on an empty cell
func (m *Model) removeAtCursor() {
	if id, ok := m.selectionAtCursor(); ok {
		m.sel.RemoveSelection(id)
		return
	}
	if id, ok := m.sel.EditingSelection(); ok {
		m.sel.RemoveSelection(id)
	}
}

func (m *Model) selectionAtCursor() (domain.SelectionID, bool) {
	for _, s := range m.sortedSelections() {
		if m.grid.Covers(m.cursorCol, m.cursorRow, s.Range()) {
			return s.ID, true
		}
	}
	return 0, false
}

func (m *Model) setGrid(g grid.Grid) {
	m.grid = g
	m.cursorCol = clamp(m.cursorCol, 0, g.Days-1)
	m.cursorRow = clamp(m.cursorRow, 0, g.Rows()-1)
	m.relayout()
}

// placeCursor puts the cursor on t's cell, or on t's day column when t
// falls outside the visible hours
func (m *Model) placeCursor(t time.Time) {
	if col, row, ok := m.grid.CellAt(t); ok {
		m.cursorCol, m.cursorRow = col, row
		return
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	col := 0
	for c := 0; c < m.grid.Days; c++ {
		if m.grid.Day(c).Equal(day) {
			col = c
		}
	}
	m.cursorCol, m.cursorRow = col, 0
}

func (m *Model) relayout() {
	offset := m.geometry.Offset
	m.geometry = views.NewGeometry(m.width, m.height, m.grid.Days, m.grid.Rows())
	m.geometry.Offset = offset
	m.geometry = m.geometry.Follow(m.cursorRow)
}

func (m *Model) showInPager(what, content string) tea.Cmd {
	if !m.pager.Available() {
		return m.flashError(fmt.Errorf("%s: %w", what, errNoProgram))
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.Show(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerMsg{what: what, err: err}
	}
}

func (m *Model) flash(text string) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = false
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m *Model) flashError(err error) tea.Cmd {
	cmd := m.flash(err.Error())
	m.statusErr = true
	return cmd
}

func (m *Model) sortedSelections() []selector.Selection {
	out := make([]selector.Selection, 0, len(m.shown))
	for _, s := range m.shown {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b selector.Selection) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (m *Model) summary() string {
	text := fmt.Sprintf("%d selection(s)", len(m.shown))
	if id, ok := m.sel.EditingSelection(); ok {
		if s, ok := m.shown[id]; ok {
			text += fmt.Sprintf(" · editing %s–%s", s.Start.Format("Mon 15:04"), s.End.Format("15:04"))
		}
	}
	if cell, ok := m.grid.Cell(m.cursorCol, m.cursorRow); ok {
		text += " · " + cell.Start.Format("Mon 02 15:04")
	}
	return text
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	status := m.status
	if status == "" {
		status = m.summary()
	}

	var editing domain.SelectionID
	if id, ok := m.sel.EditingSelection(); ok {
		editing = id
	}

	state := views.ViewState{
		Width:      m.width,
		Height:     m.height,
		Grid:       m.grid,
		Geometry:   m.geometry,
		Selections: m.sortedSelections(),
		Editing:    editing,
		CursorCol:  m.cursorCol,
		CursorRow:  m.cursorRow,
		Today:      m.now(),
		Status:     status,
		StatusErr:  m.statusErr && m.status != "",
		Palette:    m.palette,
	}
	if m.config.UI.ShowHelp {
		state.HelpView = m.help.View(m.keys)
	}
	if m.readyMarker {
		state.Marker = ReadyMarker
	}
	return m.renderer.Render(state)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
