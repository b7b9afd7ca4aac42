package markers

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mapnotes/internal/appcontext"
	"github.com/agentstation/mapnotes/internal/cmd/output"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:         "history <marker-id>",
		GroupID:     "core",
		Short:       "Show a marker and its updates, oldest first",
		Args:        cobra.ExactArgs(1),
		Annotations: annotate("Load history"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			entries, err := client.History(cmd.Context(), id)
			if err != nil {
				return err
			}
			return output.WriteHistory(cmd.OutOrStdout(), app.OutputFormat(), entries)
		},
	}
}
