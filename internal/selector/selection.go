package selector

import (
	"time"

	"calselect/internal/domain"
)

// Selection is one time range owned by a Selector.
//
// Start and End move as the user drags; InitialStart and InitialEnd keep the
// bounds the selection was created with and never change.
type Selection struct {
	ID           domain.SelectionID
	Start        time.Time
	End          time.Time
	InitialStart time.Time
	InitialEnd   time.Time
}

func newSelection(id domain.SelectionID, start, end time.Time) *Selection {
	return &Selection{
		ID:           id,
		Start:        start,
		End:          end,
		InitialStart: start,
		InitialEnd:   end,
	}
}

// Range returns the current bounds
func (s Selection) Range() domain.TimeRange {
	return domain.TimeRange{Start: s.Start, End: s.End}
}

// InitialDuration is the width the selection was created with
func (s Selection) InitialDuration() time.Duration {
	return s.InitialEnd.Sub(s.InitialStart)
}

// Duration is the current width
func (s Selection) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
