package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/export"
	"github.com/alexanderramin/itinera/internal/importer"
	"github.com/alexanderramin/itinera/internal/itinerary"
)

func newTripCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Manage trips",
	}

	cmd.AddCommand(
		newTripNewCmd(app),
		newTripImportCmd(app),
		newTripListCmd(app),
		newTripShowCmd(app),
		newTripRefineCmd(app),
		newTripRenameCmd(app),
		newTripRemoveCmd(app),
		newTripStartDateCmd(app),
	)

	return cmd
}

// prefsFlagSet binds the trip preference flags onto in.
func prefsFlagSet(in *prefsInput) *pflag.FlagSet {
	fs := pflag.NewFlagSet("prefs", pflag.ContinueOnError)
	fs.StringVar(&in.Name, "name", "", "Trip name (derived from the destination when blank)")
	fs.StringVar(&in.Countries, "countries", "", "Countries to visit, comma separated")
	fs.StringVar(&in.Cities, "cities", "", "Cities to prioritize, comma separated")
	fs.StringVar(&in.Days, "days", "", "Trip length in days")
	fs.StringVar(&in.Pace, "pace", "", "Travel pace (relaxed|balanced|packed)")
	fs.StringVar(&in.Budget, "budget", "", "Budget (shoestring|moderate|luxury)")
	fs.StringVar(&in.Interests, "interests", "", "Interests, comma separated")
	fs.StringVar(&in.Style, "style", "", "Free-form travel style")
	fs.StringVar(&in.Start, "start", "", "Start date (YYYY-MM-DD)")
	return fs
}

func newTripNewCmd(app *App) *cobra.Command {
	var in prefsInput
	var shortID string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new trip itinerary",
		Long: `Generate a new trip itinerary from travel preferences.

Without preference flags in an interactive terminal a form asks for them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("countries") && !cmd.Flags().Changed("cities") && app.interactive() {
				if err := wizardTripPrefs(&in).Run(); err != nil {
					return err
				}
			}
			prefs, err := in.prefs()
			if err != nil {
				return err
			}
			start, err := in.startDate()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Planning your trip...", app.interactive())
			t, err := app.Trips.Generate(ctx, prefs, in.Name, strings.ToUpper(shortID))
			stop()
			if err != nil {
				return err
			}
			if start != nil {
				if t, err = app.Trips.SetStartDate(ctx, t.ID, start); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created trip %s [%s]\n\n", t.Name, t.DisplayID())
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTrip(t, app.now()))
			return nil
		},
	}

	cmd.Flags().AddFlagSet(prefsFlagSet(&in))
	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 letters + 2-4 digits, e.g. ROME01)")

	return cmd
}

func newTripImportCmd(app *App) *cobra.Command {
	var name, shortID, start string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create a trip from itinerary text or a JSON export (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			t, err := tripFromImport(args[0], text)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("start") {
				if t.StartDate, err = parseOptionalDate(start); err != nil {
					return err
				}
			}
			t.ShortID = strings.ToUpper(shortID)
			t.Name = domain.CoalesceStr(strings.TrimSpace(name), t.Name, "Imported trip")

			if err := app.Trips.Create(cmd.Context(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported trip %s [%s] with %d days\n", t.Name, t.DisplayID(), len(t.Itinerary.Days))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Trip name (default: the file's title)")
	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 letters + 2-4 digits)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")

	return cmd
}

// tripFromImport reads a JSON trip document or, failing the JSON sniff,
// itinerary text.
func tripFromImport(source, text string) (*domain.Trip, error) {
	if !importer.LooksLikeJSON([]byte(text)) {
		it := itinerary.Parse(text)
		if it.IsEmpty() {
			return nil, fmt.Errorf("no days found in %s", source)
		}
		return &domain.Trip{Itinerary: it, RawText: text}, nil
	}

	schema, err := importer.ParseImportSchema([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid trip file %s:\n%w", source, errors.Join(errs...))
	}
	t, err := importer.Convert(schema)
	if err != nil {
		return nil, err
	}
	t.RawText = itinerary.Render(t.Itinerary)
	return t, nil
}

func newTripListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List trips",
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := app.Trips.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No trips found.")
				return nil
			}

			rows := make([]formatter.TripListRow, len(summaries))
			for i, s := range summaries {
				rows[i] = formatter.TripListRow{Trip: s.Trip, DayCount: s.DayCount, ActivityCount: s.ActivityCount}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTripList(rows, app.now()))
			return nil
		},
	}
}

func newTripShowCmd(app *App) *cobra.Command {
	var text, pretty bool

	cmd := &cobra.Command{
		Use:   "show TRIP",
		Short: "Show a trip itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case text:
				fmt.Fprint(out, itinerary.Render(t.Itinerary))
			case pretty:
				md, err := renderMarkdown(export.Markdown(t.Itinerary, export.MetaFromTrip(t)), formatter.UseColor(app.interactive()))
				if err != nil {
					return err
				}
				fmt.Fprint(out, md)
			default:
				fmt.Fprintln(out, formatter.FormatTrip(t, app.now()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "Print the plain day/bullet text")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Render as styled markdown")
	cmd.MarkFlagsMutuallyExclusive("text", "pretty")

	return cmd
}

const markdownWidth = 80

// renderMarkdown renders md for the terminal. A fixed standard style keeps
// glamour from querying the terminal background.
func renderMarkdown(md string, color bool) (string, error) {
	style := styles.NoTTYStyle
	if color {
		style = styles.DarkStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(markdownWidth),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func newTripRefineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refine TRIP REQUEST...",
		Short: "Ask the model to rework a trip",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTrip(ctx, app, args[0])
			if err != nil {
				return err
			}
			request := strings.Join(args[1:], " ")

			stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Refining...", app.interactive())
			t, err = app.Trips.Refine(ctx, t.ID, request)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTrip(t, app.now()))
			return nil
		},
	}
}

func newTripRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename TRIP NAME...",
		Short: "Rename a trip",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTrip(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err = app.Trips.Rename(ctx, t.ID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed trip [%s] to %s\n", t.DisplayID(), t.Name)
			return nil
		},
	}
}

func newTripRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "rm TRIP",
		Aliases: []string{"remove"},
		Short:   "Delete a trip",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTrip(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !force && app.interactive() {
				confirmed := false
				if err := wizardConfirm(fmt.Sprintf("Delete %s?", t.Name), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Trips.Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted trip %s [%s]\n", t.Name, t.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}

func newTripStartDateCmd(app *App) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "start-date TRIP [YYYY-MM-DD]",
		Short: "Set or clear the first day's calendar date",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := resolveTrip(ctx, app, args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 && !clear {
				return fmt.Errorf("a date or --clear is required")
			}
			var start = t.StartDate
			if clear {
				start = nil
			} else if start, err = parseOptionalDate(args[1]); err != nil {
				return err
			}

			t, err = app.Trips.SetStartDate(ctx, t.ID, start)
			if err != nil {
				return err
			}
			if t.StartDate == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared start date of %s\n", t.Name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s starts %s\n", t.Name, t.StartDate.Format("Mon, Jan 2 2006"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the start date")

	return cmd
}
