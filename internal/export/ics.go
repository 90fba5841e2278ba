package export

import (
	"errors"
	"strconv"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
	ics "github.com/arran4/golang-ical"
)

// ErrNoStartDate is returned when a calendar is requested for a trip
// without a start date.
var ErrNoStartDate = errors.New("trip has no start date")

const (
	icsProdID       = "-//itinera//EN"
	icsUIDDomain    = "itinera"
	icsLocalLayout  = "20060102T150405"
	defaultStartHr  = 10
	defaultDuration = time.Hour
)

// ICS renders the itinerary as an iCalendar file with one event per
// activity. Day i falls on start+i. A missing or invalid start time becomes
// 10:00 and a missing end becomes start plus one hour. Event times are
// floating local times; now stamps DTSTAMP.
func ICS(it domain.Itinerary, start, now time.Time) (string, error) {
	if start.IsZero() {
		return "", ErrNoStartDate
	}
	y, m, d := start.Date()
	base := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	cal := ics.NewCalendarFor(icsUIDDomain)
	cal.SetProductId(icsProdID)
	cal.SetCalscale("GREGORIAN")
	for di, day := range it.Days {
		date := base.AddDate(0, 0, di)
		for _, a := range day.Activities {
			from, to := eventBounds(date, a)
			ev := cal.AddEvent(day.ID + "-" + a.ID + "@" + icsUIDDomain)
			ev.SetDtStampTime(now)
			// SetStartAt/SetEndAt convert to UTC; floating times are set raw.
			ev.SetProperty(ics.ComponentPropertyDtStart, from.Format(icsLocalLayout))
			ev.SetProperty(ics.ComponentPropertyDtEnd, to.Format(icsLocalLayout))
			ev.SetSummary(a.Text)
			if a.Place != nil {
				ev.SetLocation(locationText(a.Place))
				ev.SetProperty(ics.ComponentPropertyGeo, formatCoord(a.Place.Lat)+";"+formatCoord(a.Place.Lng))
			}
			if day.Title != "" {
				ev.SetProperty(ics.ComponentPropertyCategories, day.Title)
			}
		}
	}
	return cal.Serialize(), nil
}

func eventBounds(date time.Time, a domain.Activity) (time.Time, time.Time) {
	from := date.Add(defaultStartHr * time.Hour)
	if c := domain.ClockOrNil(a.Start); c != nil {
		from = date.Add(time.Duration(c.Minutes()) * time.Minute)
	}
	to := from.Add(defaultDuration)
	if c := domain.ClockOrNil(a.End); c != nil {
		to = date.Add(time.Duration(c.Minutes()) * time.Minute)
		if !to.After(from) {
			to = to.AddDate(0, 0, 1)
		}
	}
	return from, to
}

func locationText(p *domain.Place) string {
	if p.Address != "" && p.Address != p.Name {
		return p.Name + ", " + p.Address
	}
	return p.Name
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
