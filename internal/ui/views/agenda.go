package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"calselect/internal/grid"
	"calselect/internal/selector"
)

// RenderAgenda lists the selections that start inside g's week, grouped by
// day, for display in the pager.
func (r *Renderer) RenderAgenda(g grid.Grid, sels []selector.Selection, palette Palette) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render("Agenda"))
	b.WriteString("  ")
	b.WriteString(r.styles.Dim.Render(fmt.Sprintf("%s – %s",
		g.Day(0).Format("Mon 02 Jan"), g.Day(g.Days-1).Format("Mon 02 Jan 2006"))))
	b.WriteString("\n")

	listed := 0
	for col := 0; col < g.Days; col++ {
		day := g.Day(col)
		next := g.Day(col + 1)

		var lines []string
		for _, s := range sels {
			if s.Start.Before(day) || !s.Start.Before(next) {
				continue
			}
			swatch := palette.Style(s.ID, false).Render("  ")
			span := fmt.Sprintf("%s–%s", s.Start.Format("15:04"), s.End.Format("15:04"))
			if !sameDay(s.Start, s.End) && s.End.After(s.Start) {
				span = fmt.Sprintf("%s–%s", s.Start.Format("15:04"), s.End.Format("Mon 15:04"))
			}
			lines = append(lines, fmt.Sprintf("  %s %s  %s", swatch, span,
				r.styles.Dim.Render(fmt.Sprintf("(%s) #%d", s.Duration(), s.ID))))
		}
		if len(lines) == 0 {
			continue
		}

		b.WriteString("\n")
		b.WriteString(r.styles.Header.Render(day.Format("Monday 02 January")))
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, lines...))
		b.WriteString("\n")
		listed += len(lines)
	}

	if listed == 0 {
		b.WriteString("\n")
		b.WriteString(r.styles.Dim.Render("No selections this week."))
		b.WriteString("\n")
	}
	return b.String()
}
