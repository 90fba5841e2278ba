package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
)

// Convert turns a validated ImportSchema into a trip ready for persistence.
// Call ValidateImportSchema first; Convert assumes the document is valid.
// Blank ids are minted and blank day titles become "Day N".
func Convert(schema *ImportSchema) (*domain.Trip, error) {
	var startDate *time.Time
	if schema.StartDate != "" {
		t, err := time.Parse(time.DateOnly, schema.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing startDate: %w", err)
		}
		startDate = &t
	}

	days := make([]domain.Day, 0, len(schema.Days))
	for i, d := range schema.Days {
		day := domain.Day{
			ID:         orNewID(d.ID),
			Title:      domain.CoalesceStr(strings.TrimSpace(d.Title), fmt.Sprintf("Day %d", i+1)),
			Activities: make([]domain.Activity, 0, len(d.Activities)),
		}
		for _, a := range d.Activities {
			act := domain.Activity{
				ID:    orNewID(a.ID),
				Text:  strings.TrimSpace(a.Text),
				Start: a.Start,
				End:   a.End,
			}
			if a.Place != nil {
				p := *a.Place
				act.Place = &p
			}
			day.Activities = append(day.Activities, act)
		}
		days = append(days, day)
	}

	return &domain.Trip{
		Name:      strings.TrimSpace(schema.Title),
		StartDate: startDate,
		Itinerary: domain.Itinerary{Days: days},
	}, nil
}

func orNewID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return domain.NewID()
}
