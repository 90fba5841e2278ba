package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
)

// itinerarySystemPromptTemplate pins the canonical text format the parser
// expects. %d is the number of days.
const itinerarySystemPromptTemplate = `You are a travel planner. Produce a human-readable itinerary using EXACTLY this format:
**Day 1: <Concise title>**
- <activity 1>
- <activity 2>
...
**Day 2: <Concise title>**
- <activity>
...
Rules: 1) Use only "- " bullet lines under each day. 2) No extra commentary before or after. 3) Title case for day titles. 4) Generate exactly %d days.`

const refineSystemPrompt = `You are revising an existing itinerary. Keep the same format and day count. Only change what the user requests. Output format MUST remain:
**Day X: Title** then "- " bullets.`

const eventsSystemPrompt = `You return STRICT JSON only. No commentary.`

const alternativesSystemPrompt = `You suggest alternative travel activities. Return STRICT JSON only, with this shape:
{"alternatives":["...","..."]}
Each alternative is a short activity description (under 12 words) that fits the same time slot and location. No commentary.`

const unspecified = "(unspecified)"

func buildItinerarySystemPrompt(days int) string {
	return fmt.Sprintf(itinerarySystemPromptTemplate, domain.IntOrDefault(days, domain.DefaultTripDays))
}

func buildItineraryUserPrompt(p domain.TripPrefs) string {
	length := unspecified
	if p.Days > 0 {
		length = fmt.Sprintf("%d", p.Days)
	}
	var b strings.Builder
	b.WriteString("Preferences (any may be blank):\n")
	fmt.Fprintf(&b, "- Pace: %s\n", orUnspecified(string(p.Pace)))
	fmt.Fprintf(&b, "- Interests: %s\n", joinOrUnspecified(p.Interests))
	fmt.Fprintf(&b, "- Budget: %s\n", orUnspecified(string(p.Budget)))
	fmt.Fprintf(&b, "- Style: %s\n", orUnspecified(p.Style))
	fmt.Fprintf(&b, "- Trip length: %s days\n", length)
	fmt.Fprintf(&b, "- Countries: %s\n", joinOrUnspecified(p.Countries))
	fmt.Fprintf(&b, "- Prioritized cities: %s\n", joinOrUnspecified(p.PrioritizedCities))
	b.WriteString("\nPlease produce the itinerary in the required format. ")
	b.WriteString("If fields are unspecified, infer reasonable defaults for the destination mix and pacing.")
	return b.String()
}

func buildRefineUserPrompt(current, request string) string {
	return fmt.Sprintf(`Existing itinerary (do not add any text before or after):
%s

User request for changes: %s

Re-output the full itinerary with the requested changes, preserving the required format exactly.`, current, request)
}

func buildEventsUserPrompt(q EventQuery) string {
	date := q.Date
	if date == "" {
		date = "(a specific day)"
	}
	return fmt.Sprintf(`Give up to %d notable happenings for travelers in or near %s on %s. Include local holidays/observances, farmers' markets, fairs, festivals, museum/night events, sports or concerts as applicable. Return compact JSON only, with this shape:
{"events":[{"name":"...","when":"YYYY-MM-DD or time window","venue":"...","url":"optional"}]}
If there are no specific events, return {"events":[]} strictly.`, maxEvents, q.Location, date)
}

func buildAlternativesUserPrompt(a domain.Activity, dayTitle string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Activity: %s\n", a.Text)
	if dayTitle != "" {
		fmt.Fprintf(&b, "Day: %s\n", dayTitle)
	}
	if a.Place != nil {
		fmt.Fprintf(&b, "Location: %s\n", domain.CoalesceStr(a.Place.Address, a.Place.Name))
	}
	if a.Start != "" || a.End != "" {
		fmt.Fprintf(&b, "Time: %s-%s\n", orUnspecified(a.Start), orUnspecified(a.End))
	}
	fmt.Fprintf(&b, "Suggest %d alternatives.", maxAlternatives)
	return b.String()
}

func orUnspecified(s string) string {
	return domain.CoalesceStr(strings.TrimSpace(s), unspecified)
}

func joinOrUnspecified(list []string) string {
	if len(list) == 0 {
		return unspecified
	}
	return strings.Join(list, ", ")
}
