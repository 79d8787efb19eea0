package domain

import "time"

// SelectionID identifies a live selection. Zero is never allocated.
type SelectionID int64

// TimeRange is a half-open span on the shared timeline
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps reports whether the two ranges share an open interior
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Contains reports whether t falls in [Start, End)
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}
