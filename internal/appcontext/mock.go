package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/mapnotes"
	"github.com/agentstation/mapnotes/internal/cmd/output"
	"github.com/agentstation/mapnotes/internal/notify"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding field.
// If a field is nil or empty, the method returns a default value.
type Mock struct {
	ClientFunc func() (mapnotes.Client, error)
	Log        *zerolog.Logger
	Format     output.Format
	Notices    notify.Writer
	Server     string
	LogPath    string
}

var _ Interface = (*Mock)(nil)

// Client returns a client using the mock function or an error.
func (m *Mock) Client() (mapnotes.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return mapnotes.New()
}

// Logger returns the mock logger or a disabled one.
func (m *Mock) Logger() *zerolog.Logger {
	if m.Log != nil {
		return m.Log
	}
	nop := zerolog.Nop()
	return &nop
}

// OutputFormat returns the mock format, JSON by default.
func (m *Mock) OutputFormat() output.Format {
	if m.Format == "" {
		return output.FormatJSON
	}
	return m.Format
}

// Notifier returns the mock notice writer or notify.Discard.
func (m *Mock) Notifier() notify.Writer {
	if m.Notices != nil {
		return m.Notices
	}
	return notify.Discard
}

// ServerURL returns the mock server URL.
func (m *Mock) ServerURL() string { return m.Server }

// LogFile returns the mock log path.
func (m *Mock) LogFile() string { return m.LogPath }

// Version returns "test".
func (m *Mock) Version() string { return "test" }

// Commit returns "test".
func (m *Mock) Commit() string { return "test" }

// Date returns "test".
func (m *Mock) Date() string { return "test" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }
