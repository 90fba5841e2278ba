package itinerary

import "github.com/alexanderramin/itinera/internal/domain"

// ContainerKind tags what a drag container holds.
type ContainerKind string

const (
	// ContainerDays is the list of days itself.
	ContainerDays ContainerKind = "days"
	// ContainerDay is the activity list of one day; ID is the day id.
	ContainerDay ContainerKind = "day"
	// ContainerAlternatives is the alternatives pool of one activity; ID is
	// the activity id.
	ContainerAlternatives ContainerKind = "alternatives"
	// ContainerEvents is the events pool of one day; ID is the day id.
	ContainerEvents ContainerKind = "events"
)

// ContainerRef identifies a drag source or drop target.
type ContainerRef struct {
	Kind ContainerKind
	ID   string
}

// DayRef returns a reference to the activity list of a day.
func DayRef(dayID string) ContainerRef { return ContainerRef{Kind: ContainerDay, ID: dayID} }

// DaysRef returns a reference to the day list.
func DaysRef() ContainerRef { return ContainerRef{Kind: ContainerDays} }

// AlternativesRef returns a reference to the alternatives pool of an activity.
func AlternativesRef(activityID string) ContainerRef {
	return ContainerRef{Kind: ContainerAlternatives, ID: activityID}
}

// EventsRef returns a reference to the events pool of a day.
func EventsRef(dayID string) ContainerRef { return ContainerRef{Kind: ContainerEvents, ID: dayID} }

// IsPool reports whether the container is a read-only suggestion pool.
func (c ContainerRef) IsPool() bool {
	return c.Kind == ContainerAlternatives || c.Kind == ContainerEvents
}

// PayloadKind is the kind of element being dragged.
type PayloadKind string

const (
	PayloadDays       PayloadKind = "days"
	PayloadActivities PayloadKind = "activities"
)

// DragEvent is one completed drag gesture. A nil Destination means the
// gesture was cancelled or dropped outside any container.
type DragEvent struct {
	Payload          PayloadKind
	Source           ContainerRef
	SourceIndex      int
	Destination      *ContainerRef
	DestinationIndex int
}

// Pools holds the suggestion lists that can be dragged into days. They are
// never part of the itinerary.
type Pools struct {
	Alternatives map[string][]domain.PoolItem // by activity id
	Events       map[string][]domain.PoolItem // by day id
}

// Item returns the pool item at idx of the pool named by ref.
func (p Pools) Item(ref ContainerRef, idx int) (domain.PoolItem, bool) {
	var list []domain.PoolItem
	switch ref.Kind {
	case ContainerAlternatives:
		list = p.Alternatives[ref.ID]
	case ContainerEvents:
		list = p.Events[ref.ID]
	default:
		return domain.PoolItem{}, false
	}
	if idx < 0 || idx >= len(list) {
		return domain.PoolItem{}, false
	}
	return list[idx], true
}

// Reconcile turns a drag gesture into exactly one edit command and returns the
// resulting snapshot. The boolean is false when the gesture maps to no change.
//
// Pool sources are classified before same-list and cross-list moves, so a
// pool is never mistaken for a day. Pools are not drop targets.
func Reconcile(it domain.Itinerary, pools Pools, ev DragEvent) (domain.Itinerary, bool) {
	if ev.Destination == nil {
		return it, false
	}
	dst := *ev.Destination

	var next domain.Itinerary
	switch {
	case ev.Payload == PayloadDays:
		next = ReorderDays(it, ev.SourceIndex, ev.DestinationIndex)
	case ev.Payload != PayloadActivities || dst.Kind != ContainerDay:
		return it, false
	case ev.Source.IsPool():
		item, ok := pools.Item(ev.Source, ev.SourceIndex)
		if !ok {
			return it, false
		}
		next = PromoteFromPool(it, item, dst.ID, ev.DestinationIndex)
	case ev.Source.Kind != ContainerDay:
		return it, false
	case ev.Source.ID == dst.ID:
		next = ReorderActivities(it, dst.ID, ev.SourceIndex, ev.DestinationIndex)
	default:
		next = MoveActivity(it, ev.Source.ID, ev.SourceIndex, dst.ID, ev.DestinationIndex)
	}
	return next, Changed(it, next)
}

// Changed reports whether a command produced a new snapshot. Commands return
// their input as-is when they are no-ops, so comparing the backing arrays is
// enough.
func Changed(prev, next domain.Itinerary) bool {
	if len(prev.Days) != len(next.Days) {
		return true
	}
	if len(prev.Days) == 0 {
		return false
	}
	return &prev.Days[0] != &next.Days[0]
}
