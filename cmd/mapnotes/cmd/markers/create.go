package markers

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mapnotes/internal/appcontext"
	"github.com/agentstation/mapnotes/internal/cmd/output"
	"github.com/agentstation/mapnotes/internal/notify"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// NewCreateCommand creates the create command.
func NewCreateCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "create --lat LAT --lng LNG",
		GroupID:     "core",
		Short:       "Create a marker",
		Args:        cobra.NoArgs,
		Annotations: annotate("Create marker"),
		Example: `  mapnotes create --lat 23.5 --lng 121.5 --text "night market"
  mapnotes create --lat 25.03 --lng 121.56 --image ./photo.jpg`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lat, _ := cmd.Flags().GetFloat64("lat")
			lng, _ := cmd.Flags().GetFloat64("lng")
			text, _ := cmd.Flags().GetString("text")
			image, err := loadImage(cmd)
			if err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			m, err := client.CreateMarker(cmd.Context(), markers.CreatePayload{
				Coordinate: markers.Coordinate{Lat: lat, Lng: lng},
				Text:       text,
				Image:      image,
			})
			if err != nil {
				return err
			}

			format := app.OutputFormat()
			if format.IsTable() {
				return app.Notifier().Notify(notify.Success("Marker #%d created at %s", m.ID, m.Coordinate()))
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), output.NewMarkerRow(m))
		},
	}
	cmd.Flags().Float64("lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64("lng", 0, "longitude in decimal degrees")
	cmd.Flags().String("text", "", "description")
	addImageFlag(cmd)
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}
