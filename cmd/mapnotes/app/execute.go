package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/mapnotes/cmd/mapnotes/cmd/browse"
	"github.com/agentstation/mapnotes/cmd/mapnotes/cmd/markers"
	"github.com/agentstation/mapnotes/internal/cmd/hints"
	"github.com/agentstation/mapnotes/internal/cmd/output"
	"github.com/agentstation/mapnotes/internal/notify"
	"github.com/agentstation/mapnotes/pkg/constants"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/logging"
)

// reportedError marks an error that was already shown to the user as a
// notice.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// Execute runs the mapnotes CLI application with the given arguments.
// A failing command is reported as a notice on stderr before its error is
// returned.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil || cmd == nil {
		return err
	}
	if !errors.IsValidationFailure(err) && !errors.IsNetworkFailure(err) &&
		!errors.IsEmptyUpdatePayload(err) && !errors.IsCanceled(err) {
		return err
	}
	if nerr := a.Notifier().Notify(notify.FromError(operationName(cmd), err)); nerr != nil {
		return err
	}
	hctx := hints.Context{ServerURL: a.config.ServerURL, Operation: cmd.Name()}
	_ = hints.Write(cmd.ErrOrStderr(), a.OutputFormat(), hints.ForError(hctx, err))
	return reportedError{err}
}

// operationName is the user-facing name of what cmd does.
func operationName(cmd *cobra.Command) string {
	if cmd == nil {
		return "mapnotes"
	}
	if op := cmd.Annotations[markers.OperationAnnotation]; op != "" {
		return op
	}
	return cmd.Name()
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mapnotes",
		Short:   "Map annotation client",
		Version: a.version,
		Long: `mapnotes manages point markers on a shared map. Each marker carries a
description, an optional image and an append-only history of updates.

Use the subcommands for one-shot operations or "mapnotes browse" for the
interactive map.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.mapnotes.yaml)")
	flags.String("server", "", "marker backend URL (default "+constants.DefaultServerURL+")")
	flags.Duration("timeout", 0, "per-request timeout (default "+constants.DefaultRequestTimeout.String()+")")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("mapnotes {{.Version}}\n")
	if a.out != nil {
		rootCmd.SetOut(a.out)
	}

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if a.config.ConfigFile != "" && cmd.Flags().Changed("config") {
		cfg, err := loadConfig(a.config.ConfigFile)
		if err != nil {
			return err
		}
		a.config = cfg
	}

	format := mustGetString(cmd, "format")
	if _, err := output.ParseFormat(format); err != nil {
		return err
	}

	err := a.config.UpdateFromFlags(Flags{
		Verbose:  mustGetBool(cmd, "verbose"),
		Quiet:    mustGetBool(cmd, "quiet"),
		NoColor:  mustGetBool(cmd, "no-color"),
		Format:   format,
		LogLevel: mustGetString(cmd, "log-level"),
		Server:   mustGetString(cmd, "server"),
		Timeout:  mustGetDuration(cmd, "timeout"),
	})
	if err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	a.logger.Debug().
		Str("server", a.config.ServerURL).
		Dur("timeout", a.config.RequestTimeout).
		Str("config_file", a.config.ConfigFile).
		Msg("Configuration loaded")
	return nil
}

func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(markers.NewCommands(a)...)
	rootCmd.AddCommand(browse.NewCommand(a, func() browse.Options {
		return browse.Options{
			PreviewWidth: a.config.PreviewWidth,
			Logger:       NewBrowseLogger(a.config),
		}
	}))
	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit" yaml:"commit"`
				Date    string `json:"date" yaml:"date"`
				BuiltBy string `json:"built_by" yaml:"built_by"`
			}{a.version, a.commit, a.date, a.builtBy}

			format := a.OutputFormat()
			if format.IsTable() {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "mapnotes %s (commit %s, built %s by %s)\n",
					info.Version, info.Commit, info.Date, info.BuiltBy)
				return err
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), info)
		},
	}
}

// ExitOnError prints an error and exits with status 1. Errors already shown
// as a notice are not printed again.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	var reported reportedError
	if !errors.As(err, &reported) {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
	}
	os.Exit(1)
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
