// Package app provides the application context and dependency management
// for the mapnotes CLI. It centralizes configuration, logging and the
// lazily created marker client.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/mapnotes"
	"github.com/agentstation/mapnotes/internal/appcontext"
	"github.com/agentstation/mapnotes/internal/cmd/output"
	"github.com/agentstation/mapnotes/internal/notify"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/logging"
)

var _ appcontext.Interface = (*App)(nil)

// App represents the mapnotes application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// notices overrides the stderr notifier and out overrides stdout.
	notices notify.Writer
	out     io.Writer

	mu     sync.RWMutex
	client mapnotes.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// ServerURL returns the configured backend URL.
func (a *App) ServerURL() string { return a.config.ServerURL }

// LogFile returns the browser log file, if configured.
func (a *App) LogFile() string { return a.config.LogFile }

// OutputFormat returns the output format, detected from stdout when not set.
func (a *App) OutputFormat() output.Format {
	return output.DetectFormat(a.config.Format)
}

// Notifier returns a writer that prints notices to stderr.
func (a *App) Notifier() notify.Writer {
	if a.notices != nil {
		return a.notices
	}
	return notify.NewFormatWriter(os.Stderr, a.OutputFormat(), a.config.NoColor)
}

// Client returns the marker client, creating it lazily if needed.
func (a *App) Client() (mapnotes.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	c, err := mapnotes.New(a.clientOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", a.config.ServerURL, err)
	}
	a.client = c
	return c, nil
}

// Shutdown releases application resources.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.RLock()
	created := a.client != nil
	a.mu.RUnlock()

	logging.FromContext(ctx).Debug().Bool("client_created", created).Msg("Shutting down")
	return nil
}

func (a *App) clientOptions() []mapnotes.Option {
	opts := []mapnotes.Option{
		mapnotes.WithServerURL(a.config.ServerURL),
		mapnotes.WithTimeout(a.config.RequestTimeout),
		mapnotes.WithPreviewWidth(a.config.PreviewWidth),
	}
	if a.config.APIToken != "" {
		opts = append(opts, mapnotes.WithAPIToken(a.config.APIToken))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(c mapnotes.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

// WithNotifier sets where notices are written.
func WithNotifier(w notify.Writer) Option {
	return func(a *App) error {
		a.notices = w
		return nil
	}
}

// WithOutput sets where command output is written instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}
