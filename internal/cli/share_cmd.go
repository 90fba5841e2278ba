package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/share"
)

func newShareCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share trips as self-contained tokens",
	}

	cmd.AddCommand(
		newShareEncodeCmd(app),
		newShareDecodeCmd(app),
		newShareQRCmd(app),
	)

	return cmd
}

func tripToken(t *domain.Trip) (string, error) {
	return share.Encode(share.Snapshot{StartDate: t.StartDate, Itinerary: t.Itinerary})
}

func newShareEncodeCmd(app *App) *cobra.Command {
	var link bool

	cmd := &cobra.Command{
		Use:   "encode TRIP",
		Short: "Print a share token for a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			token, err := tripToken(t)
			if err != nil {
				return err
			}
			if link {
				if token, err = share.Link(app.ShareBaseURL, token); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().BoolVar(&link, "link", false, "Print a full share link instead of the bare token")

	return cmd
}

func newShareDecodeCmd(app *App) *cobra.Command {
	var save bool
	var name string

	cmd := &cobra.Command{
		Use:   "decode TOKEN",
		Short: "Show, and optionally save, a shared itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := share.Decode(tokenFromArg(args[0]))
			if err != nil {
				return err
			}

			t := &domain.Trip{
				Name:      domain.CoalesceStr(strings.TrimSpace(name), "Shared trip"),
				StartDate: snap.StartDate,
				Itinerary: snap.Itinerary,
			}
			if save {
				if err := app.Trips.Create(cmd.Context(), t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved trip %s [%s]\n\n", t.Name, t.DisplayID())
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTrip(t, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Save the itinerary as a new trip")
	cmd.Flags().StringVar(&name, "name", "", "Name for the saved trip")

	return cmd
}

// tokenFromArg accepts either a bare token or a share link.
func tokenFromArg(arg string) string {
	if _, after, ok := strings.Cut(arg, "trip="); ok {
		token, _, _ := strings.Cut(after, "&")
		return token
	}
	return arg
}

func newShareQRCmd(app *App) *cobra.Command {
	var output string
	var size int

	cmd := &cobra.Command{
		Use:   "qr TRIP",
		Short: "Write a QR code PNG for a trip's share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			token, err := tripToken(t)
			if err != nil {
				return err
			}
			png, err := share.QRCode(app.ShareBaseURL, token, size)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.ToLower(t.DisplayID()) + "-qr.png"
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file (default <trip>-qr.png)")
	cmd.Flags().IntVar(&size, "size", 256, "Image size in pixels")

	return cmd
}
