package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
)

func resolveTrip(ctx context.Context, app *App, ref string) (*domain.Trip, error) {
	t, err := app.Trips.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolving trip %q: %w", ref, err)
	}
	return t, nil
}

// resolveDay resolves a day reference which can be:
//   - A 1-based position ("2")
//   - A day id or unique id prefix
func resolveDay(it domain.Itinerary, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(it.Days) {
			return -1, fmt.Errorf("day %d out of range (trip has %d days)", n, len(it.Days))
		}
		return n - 1, nil
	}
	match := -1
	for i, d := range it.Days {
		if d.ID == ref {
			return i, nil
		}
		if ref != "" && strings.HasPrefix(d.ID, ref) {
			if match >= 0 {
				return -1, fmt.Errorf("day id prefix %q is ambiguous", ref)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("day not found: %q", ref)
	}
	return match, nil
}

// resolveActivity resolves an activity reference which can be:
//   - "day.position" with 1-based numbers ("2.3" is the third activity of day 2)
//   - An activity id or unique id prefix
func resolveActivity(it domain.Itinerary, ref string) (int, int, error) {
	ref = strings.TrimSpace(ref)
	if dayPart, actPart, ok := strings.Cut(ref, "."); ok {
		dn, err1 := strconv.Atoi(dayPart)
		an, err2 := strconv.Atoi(actPart)
		if err1 == nil && err2 == nil {
			di, err := resolveDay(it, dayPart)
			if err != nil {
				return -1, -1, err
			}
			if an < 1 || an > len(it.Days[di].Activities) {
				return -1, -1, fmt.Errorf("activity %d.%d out of range (day %d has %d activities)",
					dn, an, dn, len(it.Days[di].Activities))
			}
			return di, an - 1, nil
		}
	}

	if di, ai := it.FindActivity(ref); di >= 0 {
		return di, ai, nil
	}
	mdi, mai := -1, -1
	for di, d := range it.Days {
		for ai, a := range d.Activities {
			if ref != "" && strings.HasPrefix(a.ID, ref) {
				if mdi >= 0 {
					return -1, -1, fmt.Errorf("activity id prefix %q is ambiguous", ref)
				}
				mdi, mai = di, ai
			}
		}
	}
	if mdi < 0 {
		return -1, -1, fmt.Errorf("activity not found: %q (use day.position, e.g. 2.3)", ref)
	}
	return mdi, mai, nil
}

// parsePosition reads an optional 1-based insert position; 0 means append.
func parsePosition(s string, length int) (int, error) {
	if s == "" {
		return length, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("position %q must be a positive number", s)
	}
	return n - 1, nil
}
