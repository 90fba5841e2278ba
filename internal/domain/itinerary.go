package domain

import (
	"fmt"
	"math"
)

// Place is an immutable location attached to an activity.
type Place struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Validate checks that the coordinates are finite and inside the geographic range.
func (p Place) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("place %q: latitude %v out of range", p.Name, p.Lat)
	}
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("place %q: longitude %v out of range", p.Name, p.Lng)
	}
	return nil
}

// Activity is a single scheduled item inside a day. Start and End hold
// "HH:MM" strings; an empty string means the time is absent.
type Activity struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Place *Place `json:"place,omitempty"`
}

// Day is an ordered list of activities. Its position in the itinerary, not a
// stored field, determines which trip day it is.
type Day struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

// Itinerary is an ordered sequence of days. Values are treated as immutable
// snapshots: edits build a new Itinerary and share untouched days.
type Itinerary struct {
	Days []Day `json:"days"`
}

// IsEmpty reports whether the itinerary has no days.
func (it Itinerary) IsEmpty() bool {
	return len(it.Days) == 0
}

// DayIndex returns the position of the day with the given id, or -1.
func (it Itinerary) DayIndex(id string) int {
	for i, d := range it.Days {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// FindActivity locates an activity by id across all days.
// Returns the day index and activity index, or -1, -1.
func (it Itinerary) FindActivity(id string) (int, int) {
	for di, d := range it.Days {
		for ai, a := range d.Activities {
			if a.ID == id {
				return di, ai
			}
		}
	}
	return -1, -1
}

// ActivityCount returns the total number of activities across all days.
func (it Itinerary) ActivityCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.Activities)
	}
	return n
}

// ValidateIDs checks that every day and activity carries a non-empty id and
// that ids are pairwise distinct.
func (it Itinerary) ValidateIDs() error {
	dayIDs := make(map[string]bool, len(it.Days))
	actIDs := make(map[string]bool)
	for i, d := range it.Days {
		if d.ID == "" {
			return fmt.Errorf("days[%d]: id is required", i)
		}
		if dayIDs[d.ID] {
			return fmt.Errorf("days[%d]: duplicate day id %q", i, d.ID)
		}
		dayIDs[d.ID] = true
		for j, a := range d.Activities {
			if a.ID == "" {
				return fmt.Errorf("days[%d].activities[%d]: id is required", i, j)
			}
			if actIDs[a.ID] {
				return fmt.Errorf("days[%d].activities[%d]: duplicate activity id %q", i, j, a.ID)
			}
			actIDs[a.ID] = true
		}
	}
	return nil
}
