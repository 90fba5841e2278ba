// Package export renders a committed itinerary into calendar, document and
// data formats. Day and activity order are emitted exactly as stored; times
// that are not valid "HH:MM" strings are treated as absent.
package export

import (
	"fmt"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
)

// Meta is trip information shown alongside the itinerary.
type Meta struct {
	Title     string
	StartDate *time.Time
	Countries []string
	Pace      string
}

// MetaFromTrip builds document metadata from a saved trip.
func MetaFromTrip(t *domain.Trip) Meta {
	return Meta{
		Title:     domain.CoalesceStr(t.Name, "Trip Itinerary"),
		StartDate: t.StartDate,
		Countries: t.Prefs.Countries,
		Pace:      string(t.Prefs.Pace),
	}
}

func (m Meta) title() string {
	return domain.CoalesceStr(m.Title, "Trip Itinerary")
}

// dayDate returns the date of the day at index i, or nil without a start.
func (m Meta) dayDate(i int) *time.Time {
	if m.StartDate == nil {
		return nil
	}
	d := m.StartDate.AddDate(0, 0, i)
	return &d
}

// dayLabel is "Day 2 · Tue, Sep 2" or "Day 2".
func (m Meta) dayLabel(i int) string {
	label := fmt.Sprintf("Day %d", i+1)
	if d := m.dayDate(i); d != nil {
		label += " · " + d.Format("Mon, Jan 2")
	}
	return label
}

// dateRange is "Sep 1, 2025 to Sep 7, 2025" or "".
func (m Meta) dateRange(days int) string {
	if m.StartDate == nil {
		return ""
	}
	from := m.StartDate.Format("Jan 2, 2006")
	if days <= 1 {
		return from
	}
	return from + " to " + m.StartDate.AddDate(0, 0, days-1).Format("Jan 2, 2006")
}
