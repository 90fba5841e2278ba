package itinerary

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
)

// All commands are total: an unknown id or an out-of-range index returns the
// input unchanged. None of them mutate their argument; changed days get fresh
// slices and untouched days are shared with the previous snapshot.

// AddDay appends an empty day titled "Day N+1".
func AddDay(it domain.Itinerary) domain.Itinerary {
	day := domain.Day{
		ID:         domain.NewID(),
		Title:      fmt.Sprintf("Day %d", len(it.Days)+1),
		Activities: []domain.Activity{},
	}
	days := make([]domain.Day, len(it.Days), len(it.Days)+1)
	copy(days, it.Days)
	return domain.Itinerary{Days: append(days, day)}
}

// DeleteDay removes the day with the given id.
func DeleteDay(it domain.Itinerary, dayID string) domain.Itinerary {
	idx := it.DayIndex(dayID)
	if idx < 0 {
		return it
	}
	return domain.Itinerary{Days: removeAt(it.Days, idx)}
}

// RenameDay replaces the title of the given day. Renaming to the current
// title is a no-op.
func RenameDay(it domain.Itinerary, dayID, title string) domain.Itinerary {
	if di := it.DayIndex(dayID); di < 0 || it.Days[di].Title == title {
		return it
	}
	return updateDay(it, dayID, func(d domain.Day) domain.Day {
		d.Title = title
		return d
	})
}

// AddActivity appends a new activity to the given day. Blank text is a no-op.
func AddActivity(it domain.Itinerary, dayID, text string) domain.Itinerary {
	text = strings.TrimSpace(text)
	if text == "" {
		return it
	}
	return updateDay(it, dayID, func(d domain.Day) domain.Day {
		d.Activities = insertAt(d.Activities, len(d.Activities), domain.Activity{
			ID:   domain.NewID(),
			Text: text,
		})
		return d
	})
}

// ActivityPatch is a partial update for an activity. Nil fields are left as
// they are. ClearPlace removes the place and takes precedence over Place.
// Times are stored as given; validation is left to readers.
type ActivityPatch struct {
	Text       *string
	Start      *string
	End        *string
	Place      *domain.Place
	ClearPlace bool
}

// IsEmpty reports whether applying the patch would change nothing.
func (p ActivityPatch) IsEmpty() bool {
	return p.Text == nil && p.Start == nil && p.End == nil && p.Place == nil && !p.ClearPlace
}

func (p ActivityPatch) apply(a domain.Activity) domain.Activity {
	if p.Text != nil {
		a.Text = *p.Text
	}
	if p.Start != nil {
		a.Start = *p.Start
	}
	if p.End != nil {
		a.End = *p.End
	}
	if p.Place != nil {
		place := *p.Place
		a.Place = &place
	}
	if p.ClearPlace {
		a.Place = nil
	}
	return a
}

// EditActivity merges patch into the matching activity of the given day. A
// patch that leaves every field as it was is a no-op.
func EditActivity(it domain.Itinerary, dayID, activityID string, patch ActivityPatch) domain.Itinerary {
	di := it.DayIndex(dayID)
	if di < 0 || patch.IsEmpty() {
		return it
	}
	ai := activityIndex(it.Days[di], activityID)
	if ai < 0 {
		return it
	}
	day := it.Days[di]
	patched := patch.apply(day.Activities[ai])
	if sameActivity(patched, day.Activities[ai]) {
		return it
	}
	acts := make([]domain.Activity, len(day.Activities))
	copy(acts, day.Activities)
	acts[ai] = patched
	day.Activities = acts
	return replaceDay(it, di, day)
}

// DeleteActivity removes the activity from the given day.
func DeleteActivity(it domain.Itinerary, dayID, activityID string) domain.Itinerary {
	di := it.DayIndex(dayID)
	if di < 0 {
		return it
	}
	ai := activityIndex(it.Days[di], activityID)
	if ai < 0 {
		return it
	}
	day := it.Days[di]
	day.Activities = removeAt(day.Activities, ai)
	return replaceDay(it, di, day)
}

// ReorderDays moves the day at from to position to; the days in between
// shift by one slot.
func ReorderDays(it domain.Itinerary, from, to int) domain.Itinerary {
	if from == to || !validMove(len(it.Days), from, to) {
		return it
	}
	return domain.Itinerary{Days: reorder(it.Days, from, to)}
}

// ReorderActivities moves an activity within a single day.
func ReorderActivities(it domain.Itinerary, dayID string, from, to int) domain.Itinerary {
	di := it.DayIndex(dayID)
	if di < 0 || from == to || !validMove(len(it.Days[di].Activities), from, to) {
		return it
	}
	day := it.Days[di]
	day.Activities = reorder(day.Activities, from, to)
	return replaceDay(it, di, day)
}

// MoveActivity removes the activity at fromIndex of the source day and
// inserts it at toIndex of the destination day, clamping toIndex to
// [0, len(destination)]. Moving within one day is a reorder.
func MoveActivity(it domain.Itinerary, fromDayID string, fromIndex int, toDayID string, toIndex int) domain.Itinerary {
	if fromDayID == toDayID {
		di := it.DayIndex(fromDayID)
		if di < 0 {
			return it
		}
		return ReorderActivities(it, fromDayID, fromIndex, clamp(toIndex, 0, len(it.Days[di].Activities)-1))
	}

	si := it.DayIndex(fromDayID)
	ti := it.DayIndex(toDayID)
	if si < 0 || ti < 0 {
		return it
	}
	src := it.Days[si]
	if fromIndex < 0 || fromIndex >= len(src.Activities) {
		return it
	}
	moving := src.Activities[fromIndex]
	dst := it.Days[ti]

	src.Activities = removeAt(src.Activities, fromIndex)
	dst.Activities = insertAt(dst.Activities, clamp(toIndex, 0, len(dst.Activities)), moving)

	days := make([]domain.Day, len(it.Days))
	copy(days, it.Days)
	days[si] = src
	days[ti] = dst
	return domain.Itinerary{Days: days}
}

// PromoteFromPool inserts a copy of a pool template into the destination day
// at toIndex (clamped) under a fresh id. The pool item itself is not touched,
// so the same suggestion can be promoted any number of times.
func PromoteFromPool(it domain.Itinerary, item domain.PoolItem, toDayID string, toIndex int) domain.Itinerary {
	di := it.DayIndex(toDayID)
	if di < 0 {
		return it
	}
	act := domain.Activity{
		ID:    domain.NewID(),
		Text:  item.Text,
		Start: item.Start,
		End:   item.End,
	}
	if item.Place != nil {
		place := *item.Place
		act.Place = &place
	}
	day := it.Days[di]
	day.Activities = insertAt(day.Activities, clamp(toIndex, 0, len(day.Activities)), act)
	return replaceDay(it, di, day)
}

func updateDay(it domain.Itinerary, dayID string, fn func(domain.Day) domain.Day) domain.Itinerary {
	di := it.DayIndex(dayID)
	if di < 0 {
		return it
	}
	return replaceDay(it, di, fn(it.Days[di]))
}

func replaceDay(it domain.Itinerary, idx int, day domain.Day) domain.Itinerary {
	days := make([]domain.Day, len(it.Days))
	copy(days, it.Days)
	days[idx] = day
	return domain.Itinerary{Days: days}
}

func sameActivity(a, b domain.Activity) bool {
	if a.ID != b.ID || a.Text != b.Text || a.Start != b.Start || a.End != b.End {
		return false
	}
	if a.Place == nil || b.Place == nil {
		return a.Place == b.Place
	}
	return *a.Place == *b.Place
}

func activityIndex(d domain.Day, id string) int {
	for i, a := range d.Activities {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func validMove(n, from, to int) bool {
	return from >= 0 && from < n && to >= 0 && to < n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// reorder returns a new slice with the element at from moved to to.
func reorder[T any](list []T, from, to int) []T {
	moved := list[from]
	return insertAt(removeAt(list, from), to, moved)
}

func removeAt[T any](list []T, idx int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}

func insertAt[T any](list []T, idx int, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:idx]...)
	out = append(out, v)
	return append(out, list[idx:]...)
}
