package itinerary

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
)

// Render serializes the itinerary into the canonical text format used to give
// the model context for refinement:
//
//	**Day 1: Arrival**
//	- Check in
//
// Day numbers reflect the current position, not any stored value. Times and
// places are not part of the text format and are dropped.
func Render(it domain.Itinerary) string {
	blocks := make([]string, 0, len(it.Days))
	for i, d := range it.Days {
		var b strings.Builder
		fmt.Fprintf(&b, "**Day %d: %s**\n", i+1, d.Title)
		lines := make([]string, 0, len(d.Activities))
		for _, a := range d.Activities {
			lines = append(lines, "- "+a.Text)
		}
		b.WriteString(strings.Join(lines, "\n"))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}
