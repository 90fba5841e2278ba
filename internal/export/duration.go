package export

import (
	"fmt"

	"github.com/alexanderramin/itinera/internal/domain"
)

// ActivityMinutes is the length of an activity. Both times must be valid;
// an end before the start wraps past midnight.
func ActivityMinutes(a domain.Activity) int {
	start, end := domain.ClockOrNil(a.Start), domain.ClockOrNil(a.End)
	if start == nil || end == nil {
		return 0
	}
	d := end.Minutes() - start.Minutes()
	if d < 0 {
		d += 24 * 60
	}
	return d
}

// DayMinutes sums the activity lengths of a day.
func DayMinutes(d domain.Day) int {
	total := 0
	for _, a := range d.Activities {
		total += ActivityMinutes(a)
	}
	return total
}

// FormatMinutes renders 135 as "2h 15m", 120 as "2h" and 45 as "45m".
func FormatMinutes(mins int) string {
	h, m := mins/60, mins%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// timeRange is "09:00–11:30", "09:00–—" or "" when neither time is set.
func timeRange(a domain.Activity) string {
	if a.Start == "" && a.End == "" {
		return ""
	}
	return domain.CoalesceStr(a.Start, "—") + "–" + domain.CoalesceStr(a.End, "—")
}
