package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errEditorNeedsTerminal = errors.New("the editor needs an interactive terminal (use the day and activity commands instead)")

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit TRIP",
		Short: "Open the interactive itinerary editor",
		Long: `Open the interactive itinerary editor.

Move with ↑/↓, pick up a day, activity or suggestion with space and drop it
with space at the new position. Press w to save; u and ctrl+r undo and redo.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errEditorNeedsTerminal
			}
			t, err := resolveTrip(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			p := tea.NewProgram(newEditorModel(app, t), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("running editor: %w", err)
			}
			if m, ok := final.(*editorModel); ok && m.session.View().Dirty {
				fmt.Fprintln(cmd.ErrOrStderr(), "Left the editor with unsaved changes.")
			}
			return nil
		},
	}
}
