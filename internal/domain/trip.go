package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Trip is a saved itinerary together with the preferences that produced it.
type Trip struct {
	ID        string
	ShortID   string
	Name      string
	StartDate *time.Time
	Prefs     TripPrefs
	Itinerary Itinerary
	RawText   string // last text returned by the model
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. ROME01, JAPAN24).
func (t *Trip) ValidateShortID() error {
	if t.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(t.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. ROME01)", t.ShortID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (t *Trip) DisplayID() string {
	if t.ShortID != "" {
		return t.ShortID
	}
	if len(t.ID) >= 8 {
		return t.ID[:8]
	}
	return t.ID
}

// DayDate returns the calendar date of the day at index i, or nil when the
// trip has no start date.
func (t *Trip) DayDate(i int) *time.Time {
	if t.StartDate == nil {
		return nil
	}
	d := t.StartDate.AddDate(0, 0, i)
	return &d
}
