package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/itinera/internal/domain"
)

var testShortIDCounter atomic.Int64

// TripOption customizes a trip built by NewTestTrip.
type TripOption func(*domain.Trip)

func WithShortID(id string) TripOption {
	return func(t *domain.Trip) {
		t.ShortID = id
	}
}

func WithStartDate(d time.Time) TripOption {
	return func(t *domain.Trip) {
		t.StartDate = &d
	}
}

func WithPrefs(p domain.TripPrefs) TripOption {
	return func(t *domain.Trip) {
		t.Prefs = p
	}
}

func WithItinerary(it domain.Itinerary) TripOption {
	return func(t *domain.Trip) {
		t.Itinerary = it
	}
}

func WithRawText(s string) TripOption {
	return func(t *domain.Trip) {
		t.RawText = s
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

// NewTestTrip returns a trip with a unique short id and an empty itinerary.
func NewTestTrip(name string, opts ...TripOption) *domain.Trip {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Trip{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		Itinerary: domain.Itinerary{Days: []domain.Day{}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// DayOption customizes a day built by NewTestDay.
type DayOption func(*domain.Day)

// WithActivity appends an activity with a fresh id.
func WithActivity(text, start, end string) DayOption {
	return func(d *domain.Day) {
		d.Activities = append(d.Activities, domain.Activity{
			ID:    domain.NewID(),
			Text:  text,
			Start: start,
			End:   end,
		})
	}
}

// WithPlacedActivity appends an activity located at place.
func WithPlacedActivity(text string, place domain.Place) DayOption {
	return func(d *domain.Day) {
		p := place
		d.Activities = append(d.Activities, domain.Activity{
			ID:    domain.NewID(),
			Text:  text,
			Place: &p,
		})
	}
}

func NewTestDay(title string, opts ...DayOption) domain.Day {
	d := domain.Day{ID: domain.NewID(), Title: title, Activities: []domain.Activity{}}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewTestItinerary builds an itinerary from days.
func NewTestItinerary(days ...domain.Day) domain.Itinerary {
	if days == nil {
		days = []domain.Day{}
	}
	return domain.Itinerary{Days: days}
}
