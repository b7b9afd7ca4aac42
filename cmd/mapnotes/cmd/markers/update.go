package markers

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mapnotes/internal/appcontext"
	"github.com/agentstation/mapnotes/internal/cmd/output"
	"github.com/agentstation/mapnotes/internal/notify"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "update <marker-id>",
		GroupID:     "core",
		Short:       "Append an update to a marker",
		Long:        "Append an update to a marker. At least one of --text or --image is required.",
		Args:        cobra.ExactArgs(1),
		Annotations: annotate("Post update"),
		Example: `  mapnotes update 12 --text "stall moved two rows east"
  mapnotes update 12 --image ./after.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			text, _ := cmd.Flags().GetString("text")
			image, err := loadImage(cmd)
			if err != nil {
				return err
			}

			payload := markers.UpdatePayload{Text: text, Image: image}
			if payload.Empty() {
				return errors.ErrEmptyUpdatePayload
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			u, err := client.PostUpdate(cmd.Context(), id, payload)
			if err != nil {
				return err
			}

			format := app.OutputFormat()
			if format.IsTable() {
				return app.Notifier().Notify(notify.Success("Update posted to marker #%d", id))
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), output.NewUpdateRow(u))
		},
	}
	cmd.Flags().String("text", "", "update text")
	addImageFlag(cmd)
	return cmd
}
