package domain

import (
	"fmt"
	"strings"
)

// DefaultTripDays is used when preferences do not name a positive trip length.
const DefaultTripDays = 7

// TripPrefs are the user's inputs for generating an itinerary. Every field is
// optional; the model infers sensible defaults for blanks.
type TripPrefs struct {
	Pace              TravelPace `json:"travelPace,omitempty"`
	Interests         []string   `json:"interests,omitempty"`
	Budget            Budget     `json:"budget,omitempty"`
	Style             string     `json:"travelStyle,omitempty"`
	Days              int        `json:"tripLength,omitempty"`
	Countries         []string   `json:"countries,omitempty"`
	PrioritizedCities []string   `json:"prioritizedCities,omitempty"`
}

// Normalize trims list entries, drops blanks and applies the default length.
func (p TripPrefs) Normalize() TripPrefs {
	p.Pace = TravelPace(strings.ToLower(strings.TrimSpace(string(p.Pace))))
	p.Budget = Budget(strings.ToLower(strings.TrimSpace(string(p.Budget))))
	p.Style = strings.TrimSpace(p.Style)
	p.Interests = cleanList(p.Interests)
	p.Countries = cleanList(p.Countries)
	p.PrioritizedCities = cleanList(p.PrioritizedCities)
	p.Days = IntOrDefault(p.Days, DefaultTripDays)
	return p
}

// Validate rejects values outside the known enumerations. Blank values pass.
func (p TripPrefs) Validate() error {
	if p.Pace != "" && !ValidPaces[string(p.Pace)] {
		return fmt.Errorf("pace: invalid value %q (relaxed|balanced|packed)", p.Pace)
	}
	if p.Budget != "" && !ValidBudgets[string(p.Budget)] {
		return fmt.Errorf("budget: invalid value %q (shoestring|moderate|luxury)", p.Budget)
	}
	if p.Days < 0 {
		return fmt.Errorf("trip length must not be negative")
	}
	return nil
}

// SplitList splits a comma-separated flag value into trimmed entries.
func SplitList(s string) []string {
	return cleanList(strings.Split(s, ","))
}

func cleanList(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
