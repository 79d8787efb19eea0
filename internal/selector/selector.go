package selector

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"calselect/internal/domain"
)

// Publisher is the part of the event bus the selector needs.
// Publish must not return before every subscriber has handled the event.
type Publisher interface {
	Publish(event domain.DomainEvent)
}

// Selector holds the live selections and keeps them from overlapping.
// It is not safe for concurrent use.
type Selector struct {
	selections map[domain.SelectionID]*Selection
	current    domain.SelectionID // being dragged, 0 if none
	editing    domain.SelectionID // last mutated, 0 if none

	bus          Publisher
	logger       *slog.Logger
	idSource     IDSource
	maxIDRetries int
}

// Option configures a Selector
type Option func(*Selector)

// WithLogger sets the logger used for debug tracing
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

// WithIDSource replaces the random id generator
func WithIDSource(src IDSource) Option {
	return func(s *Selector) {
		s.idSource = src
	}
}

// WithMaxIDRetries sets how many ids BeginSelection may draw
func WithMaxIDRetries(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.maxIDRetries = n
		}
	}
}

// New creates a selector that publishes its notifications on bus
func New(bus Publisher, opts ...Option) *Selector {
	s := &Selector{
		selections:   make(map[domain.SelectionID]*Selection),
		bus:          bus,
		logger:       slog.Default(),
		idSource:     randomIDSource,
		maxIDRetries: DefaultMaxIDRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BeginSelection creates a selection over [start, end].
// Unless additive is set, every existing selection is removed first.
func (s *Selector) BeginSelection(start, end time.Time, additive bool) (domain.SelectionID, error) {
	mustBeSet(start, end)

	if !additive {
		for _, id := range s.Selections() {
			s.RemoveSelection(id)
		}
	}

	id, err := s.allocateID()
	if err != nil {
		return 0, err
	}

	if end.Before(start) {
		start, end = end, start
	}
	s.selections[id] = newSelection(id, start, end)
	s.editing = id
	s.current = id
	s.logger.Debug("selector: begin", "id", id, "start", start, "end", end, "additive", additive)

	s.bus.Publish(domain.SelectionCreatedEvent{ID: id})
	s.bus.Publish(domain.SelectionUpdatedEvent{ID: id})

	// An additive selection can land on top of existing ones
	s.reconcile(id)
	return id, nil
}

// Get returns a copy of the selection, or false if id is not live
func (s *Selector) Get(id domain.SelectionID) (Selection, bool) {
	sel, ok := s.selections[id]
	if !ok {
		return Selection{}, false
	}
	return *sel, true
}

// Selections returns a snapshot of the live ids ordered by start time
func (s *Selector) Selections() []domain.SelectionID {
	all := s.All()
	ids := make([]domain.SelectionID, len(all))
	for i, sel := range all {
		ids[i] = sel.ID
	}
	return ids
}

// All returns copies of every live selection ordered by start time
func (s *Selector) All() []Selection {
	all := make([]Selection, 0, len(s.selections))
	for _, sel := range s.selections {
		all = append(all, *sel)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Start.Equal(all[j].Start) {
			return all[i].Start.Before(all[j].Start)
		}
		return all[i].ID < all[j].ID
	})
	return all
}

// Len returns the number of live selections
func (s *Selector) Len() int {
	return len(s.selections)
}

// CurrentSelection returns the selection being dragged
func (s *Selector) CurrentSelection() (domain.SelectionID, bool) {
	return s.current, s.current != 0
}

// EditingSelection returns the selection most recently changed
func (s *Selector) EditingSelection() (domain.SelectionID, bool) {
	return s.editing, s.editing != 0
}

// ReleaseSelection marks the end of a drag. It publishes nothing.
func (s *Selector) ReleaseSelection() {
	s.current = 0
}

// RemoveSelection deletes id. Unknown ids are ignored.
func (s *Selector) RemoveSelection(id domain.SelectionID) {
	if s.editing == id {
		s.editing = 0
	}
	if _, ok := s.selections[id]; !ok {
		return
	}
	delete(s.selections, id)
	s.logger.Debug("selector: remove", "id", id)
	s.bus.Publish(domain.SelectionRemovedEvent{ID: id})
}

// Clear removes every selection, one notification each
func (s *Selector) Clear() {
	for _, id := range s.Selections() {
		s.RemoveSelection(id)
	}
}

// UpdateSelection sets both bounds, swapping them if end is before start
func (s *Selector) UpdateSelection(id domain.SelectionID, start, end time.Time) {
	mustBeSet(start, end)

	sel, ok := s.selections[id]
	if !ok {
		s.logger.Debug("selector: update of unknown selection", "id", id)
		return
	}
	if end.Before(start) {
		start, end = end, start
	}
	if sel.Start.Equal(start) && sel.End.Equal(end) {
		return
	}
	sel.Start = start
	sel.End = end

	s.touch(id)
	s.reconcile(id)
}

// UpdateSelectionStart moves the leading edge. Moving it onto or past the end
// re-anchors the selection at start with its initial duration.
func (s *Selector) UpdateSelectionStart(id domain.SelectionID, start time.Time) {
	mustBeSet(start)

	sel, ok := s.selections[id]
	if !ok {
		s.logger.Debug("selector: start update of unknown selection", "id", id)
		return
	}
	if sel.Start.Equal(start) {
		return
	}
	applyStart(sel, start)

	s.touch(id)
	s.reconcile(id)
}

// UpdateSelectionEnd moves the trailing edge. Moving it onto or before the
// start re-anchors the selection so it ends at end with its initial duration.
func (s *Selector) UpdateSelectionEnd(id domain.SelectionID, end time.Time) {
	mustBeSet(end)

	sel, ok := s.selections[id]
	if !ok {
		s.logger.Debug("selector: end update of unknown selection", "id", id)
		return
	}
	if sel.End.Equal(end) {
		return
	}
	applyEnd(sel, end)

	s.touch(id)
	s.reconcile(id)
}

// DragTo stretches id to cover the cell under the pointer without ever
// shrinking below the cell the drag started on.
func (s *Selector) DragTo(id domain.SelectionID, cellStart, cellEnd time.Time) {
	sel, ok := s.selections[id]
	if !ok {
		return
	}
	start := cellStart
	if sel.InitialStart.Before(start) {
		start = sel.InitialStart
	}
	end := cellEnd
	if sel.InitialEnd.After(end) {
		end = sel.InitialEnd
	}
	s.UpdateSelection(id, start, end)
}

func applyStart(sel *Selection, start time.Time) {
	if start.Before(sel.End) {
		sel.Start = start
		return
	}
	sel.Start = start
	sel.End = start.Add(sel.InitialDuration())
}

func applyEnd(sel *Selection, end time.Time) {
	if end.After(sel.Start) {
		sel.End = end
		return
	}
	sel.End = end
	sel.Start = end.Add(-sel.InitialDuration())
}

// touch records id as edited and announces the new bounds
func (s *Selector) touch(id domain.SelectionID) {
	s.editing = id
	s.bus.Publish(domain.SelectionUpdatedEvent{ID: id})
}

// mustBeSet panics on zero instants; they only come from a caller bug
func mustBeSet(ts ...time.Time) {
	for _, t := range ts {
		if t.IsZero() {
			panic(fmt.Sprintf("selector: zero time.Time passed as a selection bound (%v)", ts))
		}
	}
}
