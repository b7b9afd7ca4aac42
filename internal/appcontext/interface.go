// Package appcontext provides the application context interface used by all
// commands. Commands accept it instead of the concrete app so they can be
// tested against a mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/mapnotes"
	"github.com/agentstation/mapnotes/internal/cmd/output"
	"github.com/agentstation/mapnotes/internal/notify"
)

// Interface defines the dependencies commands need.
type Interface interface {
	// Client returns the marker client, creating it lazily if needed.
	// It is safe for concurrent use and only one instance is created.
	Client() (mapnotes.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, etc).
	OutputFormat() output.Format

	// Notifier returns where user-facing notices go.
	Notifier() notify.Writer

	// ServerURL returns the backend base URL in use.
	ServerURL() string

	// LogFile returns where the interactive browser writes logs, or ""
	// to discard them.
	LogFile() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
