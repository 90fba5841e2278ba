package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/itinera/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns "Today", "In 3d", "2w ago" and so on, relative to now.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// StartDateStyled renders a trip start with its relative distance. Starts
// within a week are yellow; past starts are dim and drop the distance.
func StartDateStyled(start *time.Time, now time.Time) string {
	if start == nil {
		return Dim("--")
	}
	date := start.Format("Jan 2, 2006")
	days := start.Sub(now).Hours() / 24
	if days < -1 {
		return StyleDim.Render(date)
	}
	if days <= 7 {
		date = StyleYellow.Render(date)
	}
	return date + " " + Dim("("+RelativeDateFrom(*start, now)+")")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// TimeRange renders an activity's times as "09:00–11:30", "09:00" or "".
func TimeRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + "–" + end
	case start != "":
		return start
	case end != "":
		return "until " + end
	default:
		return ""
	}
}

// PlaceLine renders "📍 Name · 41.90000, 12.50000".
func PlaceLine(p domain.Place) string {
	return StylePurple.Render("📍 "+p.Name) + Dim(fmt.Sprintf(" · %.5f, %.5f", p.Lat, p.Lng))
}

// Truncate shortens s to at most n visible runes, ending with "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
