package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/domain"
)

// itineraHuhTheme returns a custom huh theme using the Gruvbox palette.
func itineraHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// prefsInput is the string-typed backing store for the preferences form.
type prefsInput struct {
	Name      string
	Countries string
	Cities    string
	Days      string
	Pace      string
	Budget    string
	Interests string
	Style     string
	Start     string
}

// prefs converts the form values into trip preferences.
func (in prefsInput) prefs() (domain.TripPrefs, error) {
	p := domain.TripPrefs{
		Pace:              domain.TravelPace(in.Pace),
		Budget:            domain.Budget(in.Budget),
		Style:             in.Style,
		Interests:         domain.SplitList(in.Interests),
		Countries:         domain.SplitList(in.Countries),
		PrioritizedCities: domain.SplitList(in.Cities),
	}
	if s := strings.TrimSpace(in.Days); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return domain.TripPrefs{}, fmt.Errorf("invalid trip length %q", in.Days)
		}
		p.Days = n
	}
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return domain.TripPrefs{}, err
	}
	return p, nil
}

// startDate parses the optional start date field.
func (in prefsInput) startDate() (*time.Time, error) {
	return parseOptionalDate(in.Start)
}

// wizardTripPrefs creates the huh form that collects trip preferences.
func wizardTripPrefs(in *prefsInput) *huh.Form {
	if in.Pace == "" {
		in.Pace = string(domain.PaceBalanced)
	}
	if in.Budget == "" {
		in.Budget = string(domain.BudgetModerate)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Where to? (countries, comma separated)").
				Placeholder("Italy, France").
				Value(&in.Countries),
			huh.NewInput().
				Title("Cities you don't want to miss").
				Placeholder("Rome, Florence").
				Value(&in.Cities),
			huh.NewInput().
				Title("How many days?").
				Placeholder(strconv.Itoa(domain.DefaultTripDays)).
				Value(&in.Days).
				Validate(validatePositiveInt),
			dateInput("Start Date (YYYY-MM-DD, blank for none)", "", &in.Start),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Pace").
				Options(
					huh.NewOption("Relaxed", string(domain.PaceRelaxed)),
					huh.NewOption("Balanced", string(domain.PaceBalanced)),
					huh.NewOption("Packed", string(domain.PacePacked)),
				).
				Value(&in.Pace),
			huh.NewSelect[string]().
				Title("Budget").
				Options(
					huh.NewOption("Shoestring", string(domain.BudgetShoestring)),
					huh.NewOption("Moderate", string(domain.BudgetModerate)),
					huh.NewOption("Luxury", string(domain.BudgetLuxury)),
				).
				Value(&in.Budget),
			huh.NewInput().
				Title("Interests").
				Placeholder("food, museums, hiking").
				Value(&in.Interests),
			huh.NewInput().
				Title("Travel style").
				Placeholder("slow travel with lots of walking").
				Value(&in.Style),
			huh.NewInput().
				Title("Trip name (blank to derive one)").
				Value(&in.Name),
		),
	).WithTheme(itineraHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(itineraHuhTheme()).WithShowHelp(false)
}

// dateInput returns a huh.Input for an optional date field with YYYY-MM-DD validation.
func dateInput(title, placeholder string, value *string) *huh.Input {
	if placeholder == "" {
		placeholder = "2025-09-01"
	}
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateOptionalDate)
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return &d, nil
}
