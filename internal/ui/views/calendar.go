package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"calselect/internal/domain"
	"calselect/internal/grid"
	"calselect/internal/selector"
)

const (
	gutterWidth   = 6 // "HH:MM "
	headerLines   = 2 // title, day names
	footerLines   = 2 // status, help
	minColWidth   = 6
	maxColWidth   = 14
	defaultWidth  = 80
	defaultHeight = 24
)

// Geometry maps grid cells to terminal coordinates and back
type Geometry struct {
	Left     int // x of the first day column
	Top      int // y of the first visible grid row
	ColWidth int
	Days     int
	Rows     int
	Visible  int // rows that fit on screen
	Offset   int // first visible row
}

// NewGeometry sizes a grid of days x rows for a terminal of width x height
func NewGeometry(width, height, days, rows int) Geometry {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	colWidth := (width - 2 - gutterWidth) / days
	colWidth = max(minColWidth, min(maxColWidth, colWidth))

	visible := height - headerLines - footerLines
	visible = max(1, min(rows, visible))

	return Geometry{
		Left:     1 + gutterWidth, // Main style pads one column
		Top:      headerLines,
		ColWidth: colWidth,
		Days:     days,
		Rows:     rows,
		Visible:  visible,
	}
}

// Follow returns a copy scrolled just enough to keep row on screen
func (g Geometry) Follow(row int) Geometry {
	if row < g.Offset {
		g.Offset = row
	}
	if row >= g.Offset+g.Visible {
		g.Offset = row - g.Visible + 1
	}
	g.Offset = max(0, min(g.Offset, g.Rows-g.Visible))
	return g
}

// Scroll moves the viewport by delta rows
func (g Geometry) Scroll(delta int) Geometry {
	g.Offset = max(0, min(g.Offset+delta, g.Rows-g.Visible))
	return g
}

// CellAt hit-tests terminal coordinates
func (g Geometry) CellAt(x, y int) (col, row int, ok bool) {
	if x < g.Left || y < g.Top {
		return 0, 0, false
	}
	col = (x - g.Left) / g.ColWidth
	row = y - g.Top
	if col >= g.Days || row >= g.Visible {
		return 0, 0, false
	}
	return col, row + g.Offset, true
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width      int
	Height     int
	Grid       grid.Grid
	Geometry   Geometry
	Selections []selector.Selection
	Editing    domain.SelectionID
	CursorCol  int
	CursorRow  int
	Today      time.Time
	Status     string
	StatusErr  bool
	HelpView   string // rendered key help; empty shows the "?" hint
	Palette    Palette
	Marker     string // appended after the help line
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	var content strings.Builder

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")
	content.WriteString(r.renderHeader(state))
	content.WriteString("\n")

	geo := state.Geometry
	for i := 0; i < geo.Visible; i++ {
		content.WriteString(r.renderRow(state, geo.Offset+i))
		content.WriteString("\n")
	}

	if state.StatusErr {
		content.WriteString(r.styles.StatusError.Render(state.Status))
	} else {
		content.WriteString(r.styles.Status.Render(state.Status))
	}
	content.WriteString("\n")

	help := state.HelpView
	if help == "" {
		help = r.styles.Help.Render("Press ? for help")
	}
	content.WriteString(help)
	if state.Marker != "" {
		content.WriteString(" " + state.Marker)
	}

	return r.styles.Main.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	g := state.Grid
	first := g.Day(0)
	last := g.Day(g.Days - 1)
	logo := r.styles.Title.Render("calselect")
	week := fmt.Sprintf("%s – %s", first.Format("Mon 02 Jan"), last.Format("Mon 02 Jan 2006"))

	var scroll []string
	if state.Geometry.Offset > 0 {
		scroll = append(scroll, "↑")
	}
	if state.Geometry.Offset+state.Geometry.Visible < state.Geometry.Rows {
		scroll = append(scroll, "↓")
	}

	line := fmt.Sprintf("%s  %s", logo, week)
	if len(scroll) > 0 {
		line += "  " + r.styles.Scroll.Render(strings.Join(scroll, " "))
	}
	return line
}

func (r *Renderer) renderHeader(state ViewState) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	for col := 0; col < state.Grid.Days; col++ {
		day := state.Grid.Day(col)
		style := r.styles.Header
		if sameDay(day, state.Today) {
			style = r.styles.Today
		}
		b.WriteString(fit(style, " "+day.Format("Mon 02"), state.Geometry.ColWidth))
	}
	return b.String()
}

func (r *Renderer) renderRow(state ViewState, row int) string {
	var b strings.Builder
	b.WriteString(fit(r.styles.RowLabel, state.Grid.RowLabel(row), gutterWidth))

	for col := 0; col < state.Grid.Days; col++ {
		cursor := col == state.CursorCol && row == state.CursorRow
		b.WriteString(r.renderCell(state, col, row, cursor))
	}
	return b.String()
}

func (r *Renderer) renderCell(state ViewState, col, row int, cursor bool) string {
	width := state.Geometry.ColWidth
	cell, _ := state.Grid.Cell(col, row)

	for _, s := range state.Selections {
		if !state.Grid.Covers(col, row, s.Range()) {
			continue
		}
		style := state.Palette.Style(s.ID, s.ID == state.Editing)
		if cursor {
			style = style.Reverse(true)
		}

		// Label the cell where the selection starts, or the first visible one
		text := ""
		startsHere := cell.Contains(s.Start) || (row == state.Geometry.Offset && s.Start.Before(cell.Start))
		switch {
		case s.Start.Equal(s.End):
			text = "▏" + s.Start.Format("15:04")
		case startsHere:
			text = " " + s.Start.Format("15:04")
		}
		return fit(style, text, width)
	}

	if cursor {
		return fit(r.styles.Cursor, " ·", width)
	}
	return fit(r.styles.Empty, " ·", width)
}

// fit renders text in style, padded or truncated to exactly width cells
func fit(style lipgloss.Style, text string, width int) string {
	if rs := []rune(text); len(rs) > width {
		text = string(rs[:width])
	}
	return style.Width(width).Render(text)
}

func sameDay(a, b time.Time) bool {
	if b.IsZero() {
		return false
	}
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
