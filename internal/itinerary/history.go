package itinerary

import "github.com/alexanderramin/itinera/internal/domain"

// History is a linear undo/redo stack of itinerary snapshots. Snapshots are
// immutable, so the stacks hold them by value without copying.
type History struct {
	past    []domain.Itinerary
	present domain.Itinerary
	future  []domain.Itinerary // nearest redo state last
}

// NewHistory starts a history at initial with nothing to undo or redo.
func NewHistory(initial domain.Itinerary) *History {
	return &History{present: initial}
}

// Present returns the current snapshot.
func (h *History) Present() domain.Itinerary { return h.present }

// Commit makes next the current snapshot and drops any redo states.
func (h *History) Commit(next domain.Itinerary) {
	h.past = append(h.past, h.present)
	h.present = next
	h.future = nil
}

// Undo steps back one snapshot. It reports false when there is nothing to undo.
func (h *History) Undo() bool {
	if len(h.past) == 0 {
		return false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, h.present)
	h.present = prev
	return true
}

// Redo re-applies the most recently undone snapshot.
func (h *History) Redo() bool {
	if len(h.future) == 0 {
		return false
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, h.present)
	h.present = next
	return true
}

// Reset replaces the whole history with a single snapshot, as a fresh
// generation does.
func (h *History) Reset(state domain.Itinerary) {
	h.past = nil
	h.future = nil
	h.present = state
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Depth returns the number of undo and redo steps available.
func (h *History) Depth() (undo, redo int) { return len(h.past), len(h.future) }
