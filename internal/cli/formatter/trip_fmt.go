package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/export"
)

// TripListRow is one line of the trip list.
type TripListRow struct {
	Trip          domain.Trip
	DayCount      int
	ActivityCount int
}

// FormatTripList renders the saved trips inside a bordered box.
func FormatTripList(rows []TripListRow, now time.Time) string {
	headers := []string{"ID", "NAME", "DAYS", "ACTIVITIES", "STARTS", "UPDATED"}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			StyleBlue.Render(r.Trip.DisplayID()),
			Bold(r.Trip.Name),
			strconv.Itoa(r.DayCount),
			strconv.Itoa(r.ActivityCount),
			StartDateStyled(r.Trip.StartDate, now),
			Dim(RelativeDateFrom(r.Trip.UpdatedAt, now)),
		})
	}
	return RenderBox("Trips", RenderTable(headers, cells))
}

// FormatTrip renders a trip with numbered days and activities. Activity
// numbers ("2.3") are the references the edit commands accept.
func FormatTrip(t *domain.Trip, now time.Time) string {
	var b strings.Builder
	b.WriteString(Bold(t.Name) + "  " + StyleBlue.Render(t.DisplayID()) + "\n")
	fmt.Fprintf(&b, "%s  %s   %s  %s   %s  %s\n",
		Dim("START"), StartDateStyled(t.StartDate, now),
		Dim("PACE"), PaceBadge(t.Prefs.Pace),
		Dim("BUDGET"), BudgetBadge(t.Prefs.Budget))
	if len(t.Prefs.Countries) > 0 {
		fmt.Fprintf(&b, "%s  %s\n", Dim("WHERE"), strings.Join(t.Prefs.Countries, ", "))
	}

	if t.Itinerary.IsEmpty() {
		b.WriteString("\n" + Dim("No days yet. Add one with: itinera day add "+t.DisplayID()) + "\n")
		return RenderBox("", strings.TrimRight(b.String(), "\n"))
	}

	for i, d := range t.Itinerary.Days {
		b.WriteString("\n")
		b.WriteString(formatDay(t, i, d))
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

func formatDay(t *domain.Trip, i int, d domain.Day) string {
	var b strings.Builder
	head := StyleHeader.Render(fmt.Sprintf("DAY %d", i+1)) + "  " + Bold(d.Title)
	if date := t.DayDate(i); date != nil {
		head += "  " + Dim(date.Format("Mon, Jan 2"))
	}
	if mins := export.DayMinutes(d); mins > 0 {
		head += "  " + Dim("~"+export.FormatMinutes(mins))
	}
	b.WriteString(head + "\n")

	if len(d.Activities) == 0 {
		b.WriteString("  " + Dim("Free day") + "\n")
		return b.String()
	}
	for j, a := range d.Activities {
		ref := fmt.Sprintf("%d.%d", i+1, j+1)
		when := TimeRange(a.Start, a.End)
		fmt.Fprintf(&b, "  %-5s %-11s %s\n", Dim(ref), StyleGreen.Render(when), StyleFg.Render(a.Text))
		if a.Place != nil {
			fmt.Fprintf(&b, "  %-5s %-11s %s\n", "", "", PlaceLine(*a.Place))
		}
	}
	return b.String()
}

// FormatPlaces renders geocoder results as a numbered table.
func FormatPlaces(places []domain.Place) string {
	if len(places) == 0 {
		return Dim("No places found.")
	}
	rows := make([][]string, 0, len(places))
	for i, p := range places {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			Bold(p.Name),
			Dim(fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lng)),
			Truncate(p.Address, 60),
		})
	}
	return RenderTable([]string{"#", "NAME", "COORDINATES", "ADDRESS"}, rows)
}

// FormatPool renders a suggestion pool under a header.
func FormatPool(title string, items []domain.PoolItem) string {
	var b strings.Builder
	b.WriteString(Header(title) + "\n")
	if len(items) == 0 {
		b.WriteString(Dim("Nothing suggested."))
		return b.String()
	}
	for i, it := range items {
		when := TimeRange(it.Start, it.End)
		if when != "" {
			when = StyleGreen.Render(when) + " "
		}
		fmt.Fprintf(&b, "%s %s%s\n", Dim(fmt.Sprintf("%d.", i+1)), when, it.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatEvents renders suggested events with their venue and link.
func FormatEvents(location, date string, events []domain.Event) string {
	title := "Events in " + location
	if date != "" {
		title += " on " + date
	}
	var b strings.Builder
	b.WriteString(Header(title) + "\n")
	if len(events) == 0 {
		b.WriteString(Dim("No events found."))
		return b.String()
	}
	for i, e := range events {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%d.", i+1)), Bold(e.Name))
		var meta []string
		if e.When != "" {
			meta = append(meta, e.When)
		}
		if e.Venue != "" {
			meta = append(meta, e.Venue)
		}
		if len(meta) > 0 {
			b.WriteString("   " + Dim(strings.Join(meta, " · ")) + "\n")
		}
		if e.URL != "" {
			b.WriteString("   " + StyleBlue.Render(e.URL) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
