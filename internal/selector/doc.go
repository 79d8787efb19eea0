// Package selector keeps the set of time-range selections drawn on the
// calendar grid.
//
// A [Selector] owns every [Selection]. Callers (the UI) translate pointer
// input into instants and call BeginSelection, DragTo, UpdateSelection*,
// ReleaseSelection and RemoveSelection. Every structural change is announced
// on the bus as a "create", "update" or "remove" event carrying the
// selection's id, and the UI re-renders from those.
//
// # Invariant
//
// When any exported method returns, no two live selections overlap:
// for distinct A and B, A.End <= B.Start or B.End <= A.Start.
//
// # Reconciliation
//
// After a selection M moves, every other selection S is compared with M's
// new bounds:
//   - S inside M: S is removed
//   - S starts inside M: S's start is moved to M.End
//   - S ends inside M: S's end is moved to M.Start
//
// A trim that would leave S empty removes it instead. Trimmed selections are
// queued and checked again, so the pass runs until nothing overlaps.
//
// # Notifications
//
// The bus delivers synchronously. A new selection produces "create" then
// "update"; reconciliation events follow the moved selection's own "update"
// in the order the neighbours were visited (by start time). Handlers may read
// from the selector but must not mutate it.
package selector
