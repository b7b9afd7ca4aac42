// Package markers provides the one-shot marker commands: list, create,
// history and update.
package markers

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/mapnotes/internal/appcontext"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// OperationAnnotation names the user-facing operation of a command in its
// cobra annotations. Failure notices use it.
const OperationAnnotation = "mapnotes/operation"

func annotate(operation string) map[string]string {
	return map[string]string{OperationAnnotation: operation}
}

// parseID parses a marker id argument.
func parseID(arg string) (markers.ID, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("id", arg, "marker id must be a positive integer")
	}
	return markers.ID(id), nil
}

// loadImage reads the --image flag, if set.
func loadImage(cmd *cobra.Command) (*markers.Image, error) {
	path, _ := cmd.Flags().GetString("image")
	return markers.LoadImage(path)
}

func addImageFlag(cmd *cobra.Command) {
	cmd.Flags().String("image", "", "path to an image file to attach")
}

// NewCommands returns every marker command.
func NewCommands(app appcontext.Interface) []*cobra.Command {
	return []*cobra.Command{
		NewListCommand(app),
		NewCreateCommand(app),
		NewHistoryCommand(app),
		NewUpdateCommand(app),
	}
}
