package markers

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mapnotes/internal/appcontext"
	"github.com/agentstation/mapnotes/internal/cmd/output"
)

// NewListCommand creates the list command.
func NewListCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		GroupID:     "core",
		Aliases:     []string{"ls"},
		Short:       "List every marker",
		Args:        cobra.NoArgs,
		Annotations: annotate("Load markers"),
		Example: `  mapnotes list              # Table with text previews
  mapnotes list -o wide      # Full text, image and creation time
  mapnotes list -o json      # Machine readable`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			ms, err := client.Markers(cmd.Context())
			if err != nil {
				return err
			}
			app.Logger().Debug().Int("count", len(ms)).Msg("Markers listed")
			return output.WriteMarkers(cmd.OutOrStdout(), app.OutputFormat(), ms, client.PreviewWidth())
		},
	}
}
