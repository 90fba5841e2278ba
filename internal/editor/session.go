// Package editor holds one interactive editing session over an itinerary:
// the undo history, the suggestion pools and the transient view state that
// never becomes part of a snapshot.
package editor

import (
	"errors"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/itinerary"
)

var (
	// ErrRequestInFlight is returned by BeginRequest while another
	// collaborator request is outstanding.
	ErrRequestInFlight = errors.New("a request is already in progress")

	// ErrNothingParsed is returned when collaborator text contained no day
	// headers. The current itinerary is left unchanged.
	ErrNothingParsed = errors.New("no itinerary found in text")
)

// ViewState is editor state that is not part of the itinerary: which
// activity is being edited and which one owns the visible alternatives.
type ViewState struct {
	EditingActivityID string
	AlternativesFor   string
	Dirty             bool
}

// Session is single-threaded: callers apply edits from one event loop.
// Collaborator results are applied when they arrive, last write wins.
type Session struct {
	history *itinerary.History
	pools   itinerary.Pools
	view    ViewState
	pending string
}

// NewSession starts a session at the given itinerary with empty history.
func NewSession(it domain.Itinerary) *Session {
	return &Session{
		history: itinerary.NewHistory(it),
		pools: itinerary.Pools{
			Alternatives: map[string][]domain.PoolItem{},
			Events:       map[string][]domain.PoolItem{},
		},
	}
}

// Itinerary returns the current snapshot.
func (s *Session) Itinerary() domain.Itinerary { return s.history.Present() }

// Pools returns the current suggestion pools.
func (s *Session) Pools() itinerary.Pools { return s.pools }

// View returns the transient view state.
func (s *Session) View() ViewState { return s.view }

// Apply runs cmd against the current snapshot and commits the result when it
// changed anything. It reports whether a commit happened.
func (s *Session) Apply(cmd itinerary.Command) bool {
	prev := s.history.Present()
	next := cmd.Apply(prev)
	if !itinerary.Changed(prev, next) {
		return false
	}
	s.commit(next)
	return true
}

// Drop reconciles a completed drag gesture and commits the result.
func (s *Session) Drop(ev itinerary.DragEvent) bool {
	next, ok := itinerary.Reconcile(s.history.Present(), s.pools, ev)
	if !ok {
		return false
	}
	s.commit(next)
	return true
}

func (s *Session) Undo() bool {
	if !s.history.Undo() {
		return false
	}
	s.view.Dirty = true
	return true
}

func (s *Session) Redo() bool {
	if !s.history.Redo() {
		return false
	}
	s.view.Dirty = true
	return true
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// ReplaceFromText adopts a freshly generated itinerary. History starts over
// and the pools are cleared because their keys refer to the old ids.
func (s *Session) ReplaceFromText(text string) error {
	it := itinerary.Parse(text)
	if it.IsEmpty() {
		return ErrNothingParsed
	}
	s.history.Reset(it)
	s.clearPools()
	s.view = ViewState{Dirty: true}
	return nil
}

// RefineFromText commits a refined itinerary on top of the history so the
// refinement can be undone. Manual edits made since the request started are
// overwritten.
func (s *Session) RefineFromText(text string) error {
	it := itinerary.Parse(text)
	if it.IsEmpty() {
		return ErrNothingParsed
	}
	s.commit(it)
	s.clearPools()
	s.view.EditingActivityID = ""
	s.view.AlternativesFor = ""
	return nil
}

// SetAlternatives replaces the alternatives pool of an activity and makes it
// the visible one.
func (s *Session) SetAlternatives(activityID string, items []domain.PoolItem) {
	s.pools.Alternatives[activityID] = append([]domain.PoolItem(nil), items...)
	s.view.AlternativesFor = activityID
}

// HideAlternatives closes the visible alternatives pool. Its items stay
// cached until the pools are cleared.
func (s *Session) HideAlternatives() { s.view.AlternativesFor = "" }

// SetEvents replaces the events pool of a day.
func (s *Session) SetEvents(dayID string, items []domain.PoolItem) {
	s.pools.Events[dayID] = append([]domain.PoolItem(nil), items...)
}

// StartEditing marks an activity as open in the inline editor.
func (s *Session) StartEditing(activityID string) { s.view.EditingActivityID = activityID }

// StopEditing closes the inline editor.
func (s *Session) StopEditing() { s.view.EditingActivityID = "" }

// MarkSaved clears the dirty flag after the itinerary was persisted.
func (s *Session) MarkSaved() { s.view.Dirty = false }

// BeginRequest claims the single collaborator slot for the named request
// ("generate", "refine", ...). Callers disable their triggers while it is held.
func (s *Session) BeginRequest(name string) error {
	if s.pending != "" {
		return ErrRequestInFlight
	}
	s.pending = strings.TrimSpace(name)
	if s.pending == "" {
		s.pending = "request"
	}
	return nil
}

// EndRequest releases the collaborator slot.
func (s *Session) EndRequest() { s.pending = "" }

// Pending returns the name of the outstanding request, or "".
func (s *Session) Pending() string { return s.pending }

func (s *Session) commit(next domain.Itinerary) {
	s.history.Commit(next)
	s.view.Dirty = true
}

func (s *Session) clearPools() {
	s.pools.Alternatives = map[string][]domain.PoolItem{}
	s.pools.Events = map[string][]domain.PoolItem{}
}
