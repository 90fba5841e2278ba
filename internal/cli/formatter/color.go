package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/alexanderramin/itinera/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ColorProfile picks the profile for CLI output. NO_COLOR wins; otherwise
// termenv honors CLICOLOR/CLICOLOR_FORCE and the terminal's capabilities.
func ColorProfile() termenv.Profile {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ApplyColorProfile installs ColorProfile as the lipgloss default.
func ApplyColorProfile() {
	lipgloss.SetColorProfile(ColorProfile())
}

// UseColor reports whether styled output should be produced for a session.
func UseColor(interactive bool) bool {
	return interactive && ColorProfile() != termenv.Ascii
}

// PaceBadge returns a colored pace label such as "● Relaxed".
func PaceBadge(p domain.TravelPace) string {
	switch p {
	case domain.PaceRelaxed:
		return StyleGreen.Render("● Relaxed")
	case domain.PaceBalanced:
		return StyleBlue.Render("● Balanced")
	case domain.PacePacked:
		return StyleYellow.Render("● Packed")
	default:
		return StyleDim.Render("--")
	}
}

// BudgetBadge renders the budget as one to three currency signs.
func BudgetBadge(b domain.Budget) string {
	switch b {
	case domain.BudgetShoestring:
		return StyleGreen.Render("$")
	case domain.BudgetModerate:
		return StyleYellow.Render("$$")
	case domain.BudgetLuxury:
		return StylePurple.Render("$$$")
	default:
		return StyleDim.Render("--")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Success renders a green confirmation line.
func Success(text string) string {
	return StyleGreen.Render("✔ ") + text
}
