package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/export"
)

func newExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a trip as calendar, PDF, JSON or markdown",
	}
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output file (default: stdout, or <trip>.pdf for pdf)")

	cmd.AddCommand(
		newExportFormatCmd(app, &output, "ics", "Export as an iCalendar file", func(w io.Writer, t *domain.Trip) error {
			if t.StartDate == nil {
				return fmt.Errorf("trip %s has no start date (set one with \"trip start-date\")", t.DisplayID())
			}
			cal, err := export.ICS(t.Itinerary, *t.StartDate, app.now())
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, cal)
			return err
		}),
		newExportFormatCmd(app, &output, "pdf", "Export as a printable PDF", func(w io.Writer, t *domain.Trip) error {
			return export.PDF(w, t.Itinerary, export.MetaFromTrip(t))
		}),
		newExportFormatCmd(app, &output, "json", "Export as JSON", func(w io.Writer, t *domain.Trip) error {
			return export.JSON(w, t.Itinerary, export.MetaFromTrip(t))
		}),
		newExportFormatCmd(app, &output, "md", "Export as markdown", func(w io.Writer, t *domain.Trip) error {
			_, err := io.WriteString(w, export.Markdown(t.Itinerary, export.MetaFromTrip(t)))
			return err
		}),
	)

	return cmd
}

func newExportFormatCmd(app *App, output *string, format, short string, write func(io.Writer, *domain.Trip) error) *cobra.Command {
	return &cobra.Command{
		Use:   format + " TRIP",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			// Render fully before touching the output file.
			var buf bytes.Buffer
			if err := write(&buf, t); err != nil {
				return fmt.Errorf("exporting %s: %w", format, err)
			}

			path := *output
			if path == "" && format == "pdf" {
				path = strings.ToLower(t.DisplayID()) + ".pdf"
			}
			if path == "" || path == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
			return nil
		},
	}
}
