package export

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
)

// Markdown renders a printable document: title, date range and one section
// per day with times, places and durations. Unlike itinerary.Render, this
// output is for people and is not meant to be parsed back.
func Markdown(it domain.Itinerary, meta Meta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", meta.title())

	var facts []string
	if r := meta.dateRange(len(it.Days)); r != "" {
		facts = append(facts, r)
	}
	facts = append(facts, fmt.Sprintf("%d days", len(it.Days)))
	if len(meta.Countries) > 0 {
		facts = append(facts, strings.Join(meta.Countries, ", "))
	}
	if meta.Pace != "" {
		facts = append(facts, "pace: "+meta.Pace)
	}
	fmt.Fprintf(&b, "_%s_\n", strings.Join(facts, " · "))

	for i, day := range it.Days {
		fmt.Fprintf(&b, "\n## %s · %s\n\n", meta.dayLabel(i), day.Title)
		if len(day.Activities) == 0 {
			b.WriteString("_Free day_\n")
			continue
		}
		for _, a := range day.Activities {
			b.WriteString("- ")
			if r := timeRange(a); r != "" {
				fmt.Fprintf(&b, "**%s** ", r)
			}
			b.WriteString(a.Text)
			if a.Place != nil {
				fmt.Fprintf(&b, " _(%s)_", a.Place.Name)
			}
			b.WriteString("\n")
		}
		if total := DayMinutes(day); total > 0 {
			fmt.Fprintf(&b, "\nEstimated total: %s\n", FormatMinutes(total))
		}
	}
	return b.String()
}
