package grid

import (
	"fmt"
	"time"

	"calselect/internal/domain"
)

// Layout describes the visible part of each day and how it is subdivided
type Layout struct {
	DayStart  time.Duration // offset from midnight of the first row
	DayEnd    time.Duration // offset from midnight where the last row ends
	Spacing   time.Duration // height of one row
	Days      int           // number of day columns
	WeekStart time.Weekday
}

// DefaultLayout is 06:00 to 20:00 in 30 minute rows, one week starting Monday
func DefaultLayout() Layout {
	return Layout{
		DayStart:  6 * time.Hour,
		DayEnd:    20 * time.Hour,
		Spacing:   30 * time.Minute,
		Days:      7,
		WeekStart: time.Monday,
	}
}

// Validate checks the layout can be drawn
func (l Layout) Validate() error {
	switch {
	case l.DayStart < 0 || l.DayEnd > 24*time.Hour:
		return fmt.Errorf("day window %s-%s is outside 00:00-24:00", l.DayStart, l.DayEnd)
	case l.DayStart >= l.DayEnd:
		return fmt.Errorf("day start %s must be before day end %s", l.DayStart, l.DayEnd)
	case l.Spacing < 10*time.Minute || l.Spacing > 24*time.Hour:
		return fmt.Errorf("spacing %s must be between 10m and 24h", l.Spacing)
	case (l.DayEnd-l.DayStart)%l.Spacing != 0:
		return fmt.Errorf("spacing %s does not divide the day window %s", l.Spacing, l.DayEnd-l.DayStart)
	case l.Days < 1 || l.Days > 14:
		return fmt.Errorf("display days %d must be between 1 and 14", l.Days)
	}
	return nil
}

// Grid is a layout anchored on a concrete first day
type Grid struct {
	Layout
	anchor time.Time // midnight of the first column
}

// New anchors layout on the week containing display
func New(display time.Time, layout Layout) Grid {
	return Grid{Layout: layout, anchor: WeekStart(display, layout.WeekStart)}
}

// WeekStart returns midnight of the last ws on or before t
func WeekStart(t time.Time, ws time.Weekday) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	back := (int(midnight.Weekday()) - int(ws) + 7) % 7
	return midnight.AddDate(0, 0, -back)
}

// Anchor is midnight of the first displayed day
func (g Grid) Anchor() time.Time {
	return g.anchor
}

// Rows is the number of cells per column
func (g Grid) Rows() int {
	return int((g.DayEnd - g.DayStart) / g.Spacing)
}

// Day returns midnight of column col
func (g Grid) Day(col int) time.Time {
	return g.anchor.AddDate(0, 0, col)
}

// Cell returns the time span covered by the cell at (col, row)
func (g Grid) Cell(col, row int) (domain.TimeRange, bool) {
	if col < 0 || col >= g.Days || row < 0 || row >= g.Rows() {
		return domain.TimeRange{}, false
	}
	start := g.Day(col).Add(g.DayStart + time.Duration(row)*g.Spacing)
	return domain.TimeRange{Start: start, End: start.Add(g.Spacing)}, true
}

// CellAt finds the cell containing t
func (g Grid) CellAt(t time.Time) (col, row int, ok bool) {
	for col = 0; col < g.Days; col++ {
		day := g.Day(col)
		if t.Before(day) || !t.Before(g.Day(col+1)) {
			continue
		}
		offset := t.Sub(day) - g.DayStart
		if offset < 0 || t.Sub(day) >= g.DayEnd {
			return 0, 0, false
		}
		return col, int(offset / g.Spacing), true
	}
	return 0, 0, false
}

// Covers reports whether the cell at (col, row) intersects r
func (g Grid) Covers(col, row int, r domain.TimeRange) bool {
	cell, ok := g.Cell(col, row)
	if !ok {
		return false
	}
	if r.Start.Equal(r.End) {
		return cell.Contains(r.Start)
	}
	return cell.Overlaps(r)
}

// Shift moves the anchor by whole weeks
func (g Grid) Shift(weeks int) Grid {
	g.anchor = g.anchor.AddDate(0, 0, 7*weeks)
	return g
}

// WithLayout keeps the anchor's week and swaps the layout
func (g Grid) WithLayout(layout Layout) Grid {
	return New(g.anchor, layout)
}

// RowLabel is the text printed left of a row; empty rows keep the column readable
func (g Grid) RowLabel(row int) string {
	offset := g.DayStart + time.Duration(row)*g.Spacing
	clock := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(offset)

	switch g.Spacing {
	case 30 * time.Minute:
		if offset%time.Hour == 0 {
			return clock.Format("15:04")
		}
		return ""
	case 15 * time.Minute:
		if offset%(30*time.Minute) == 0 {
			return clock.Format("15:04")
		}
		return ""
	default:
		return clock.Format("15:04")
	}
}
