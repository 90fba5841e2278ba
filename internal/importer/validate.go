package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
)

// ValidateImportSchema checks the document before conversion and returns
// every problem found, not just the first.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if schema.StartDate != "" {
		if _, err := time.Parse(time.DateOnly, schema.StartDate); err != nil {
			errs = append(errs, fmt.Errorf("startDate: invalid date format %q (expected YYYY-MM-DD)", schema.StartDate))
		}
	}
	if len(schema.Days) == 0 {
		errs = append(errs, fmt.Errorf("days: at least one day is required"))
	}

	dayIDs := make(map[string]bool)
	actIDs := make(map[string]bool)
	for i, d := range schema.Days {
		path := fmt.Sprintf("days[%d]", i)
		if d.ID != "" {
			if dayIDs[d.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate day id %q", path, d.ID))
			}
			dayIDs[d.ID] = true
		}
		for j, a := range d.Activities {
			errs = append(errs, validateActivity(fmt.Sprintf("%s.activities[%d]", path, j), a, actIDs)...)
		}
	}

	return errs
}

func validateActivity(path string, a ActivityImport, seen map[string]bool) []error {
	var errs []error

	if a.ID != "" {
		if seen[a.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate activity id %q", path, a.ID))
		}
		seen[a.ID] = true
	}
	if strings.TrimSpace(a.Text) == "" {
		errs = append(errs, fmt.Errorf("%s.text is required", path))
	}
	if a.Start != "" && !domain.ValidClock(a.Start) {
		errs = append(errs, fmt.Errorf("%s.start: invalid time %q (expected HH:MM)", path, a.Start))
	}
	if a.End != "" && !domain.ValidClock(a.End) {
		errs = append(errs, fmt.Errorf("%s.end: invalid time %q (expected HH:MM)", path, a.End))
	}
	if a.Place != nil {
		if strings.TrimSpace(a.Place.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.place.name is required", path))
		}
		if err := a.Place.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s.place: %w", path, err))
		}
	}

	return errs
}
