package selector

import (
	"fmt"
	"time"

	"calselect/internal/domain"
)

type overlap int

const (
	overlapNone overlap = iota
	overlapContained
	overlapRight // other starts inside moved and runs past its end
	overlapLeft  // other ends inside moved and starts before it
)

// classify says how other sits relative to moved. The cases are checked in
// this order so a pair only ever matches one of them.
func classify(moved, other domain.TimeRange) overlap {
	if !other.Start.Before(moved.Start) && !other.End.After(moved.End) {
		return overlapContained
	}
	if !moved.Overlaps(other) {
		return overlapNone
	}
	if other.Start.Before(moved.End) && !other.End.Before(moved.End) {
		return overlapRight
	}
	if other.End.After(moved.Start) && !other.Start.After(moved.Start) {
		return overlapLeft
	}
	return overlapNone
}

// reconcile trims or removes every selection overlapping moved, then
// re-checks each trimmed selection the same way until nothing changes.
func (s *Selector) reconcile(moved domain.SelectionID) {
	n := len(s.selections)
	limit := n*n + n + 1

	queue := []domain.SelectionID{moved}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > limit {
			panic(fmt.Sprintf("selector: reconciliation did not converge after %d steps", steps))
		}

		id := queue[0]
		queue = queue[1:]

		m, ok := s.selections[id]
		if !ok {
			continue
		}
		bounds := m.Range()

		for _, otherID := range s.Selections() {
			if otherID == id {
				continue
			}
			other, ok := s.selections[otherID]
			if !ok {
				continue
			}

			switch classify(bounds, other.Range()) {
			case overlapContained:
				s.logger.Debug("selector: removing enclosed selection", "id", otherID, "by", id)
				s.RemoveSelection(otherID)
			case overlapRight:
				if s.shrinkStart(other, bounds.End) {
					queue = append(queue, otherID)
				}
			case overlapLeft:
				if s.shrinkEnd(other, bounds.Start) {
					queue = append(queue, otherID)
				}
			}
		}
	}
}

// shrinkStart moves sel's start to t, or removes sel if that leaves nothing.
// Reports whether sel survived.
func (s *Selector) shrinkStart(sel *Selection, t time.Time) bool {
	if !t.Before(sel.End) {
		s.logger.Debug("selector: shrink would empty selection, removing", "id", sel.ID)
		s.RemoveSelection(sel.ID)
		return false
	}
	applyStart(sel, t)
	s.touch(sel.ID)
	return true
}

// shrinkEnd moves sel's end to t, or removes sel if that leaves nothing.
func (s *Selector) shrinkEnd(sel *Selection, t time.Time) bool {
	if !t.After(sel.Start) {
		s.logger.Debug("selector: shrink would empty selection, removing", "id", sel.ID)
		s.RemoveSelection(sel.ID)
		return false
	}
	applyEnd(sel, t)
	s.touch(sel.ID)
	return true
}
