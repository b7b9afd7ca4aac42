// Package browse provides the interactive map browser command.
package browse

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/mapnotes/internal/appcontext"
	"github.com/agentstation/mapnotes/internal/tui"
	"github.com/agentstation/mapnotes/pkg/logging"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// Options are resolved when the command runs, after flags are parsed.
type Options struct {
	PreviewWidth int
	// Logger replaces the default logger while the browser owns the
	// terminal.
	Logger zerolog.Logger
}

// NewCommand creates the browse command.
func NewCommand(app appcontext.Interface, resolve func() Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "browse",
		GroupID: "core",
		Short:   "Open the interactive map",
		Long: `Open the interactive map.

Move the cursor with the arrow keys or hjkl, pan with shift, zoom with + and -.
Enter on a pin opens its history; enter on an empty cell creates a marker there.
Mouse clicks work the same way. Press q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			opts := resolve()

			previous := *logging.Default()
			logging.SetDefault(opts.Logger)
			defer logging.SetDefault(previous)

			tuiOpts := []tui.Option{
				tui.WithLabel(app.ServerURL()),
				tui.WithPreviewWidth(opts.PreviewWidth),
			}
			if lat, lng, ok := centerFlags(cmd); ok {
				tuiOpts = append(tuiOpts, tui.WithCenter(markers.Coordinate{Lat: lat, Lng: lng}))
			}
			model := tui.New(client.Controller(), tuiOpts...)

			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(cmd.Context()),
			)
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().Float64("lat", 0, "latitude to center the map on")
	cmd.Flags().Float64("lng", 0, "longitude to center the map on")
	return cmd
}

// centerFlags returns the --lat/--lng pair when either was given.
func centerFlags(cmd *cobra.Command) (lat, lng float64, ok bool) {
	if !cmd.Flags().Changed("lat") && !cmd.Flags().Changed("lng") {
		return 0, 0, false
	}
	lat, _ = cmd.Flags().GetFloat64("lat")
	lng, _ = cmd.Flags().GetFloat64("lng")
	return lat, lng, true
}
