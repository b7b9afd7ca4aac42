// Package constants provides shared constants used throughout the mapnotes codebase.
// This includes timeouts, display limits, file permissions, and the HTTP contract
// paths that must stay consistent between the library, the CLI and the TUI.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultRequestTimeout bounds a single round trip to the marker backend
	DefaultRequestTimeout = 15 * time.Second

	// CommandTimeout is the default timeout for one-shot CLI commands
	CommandTimeout = 1 * time.Minute

	// ShutdownTimeout is how long the CLI waits for cleanup after an error
	ShutdownTimeout = 5 * time.Second

	// NoticeDuration is how long a TUI notification stays on screen
	NoticeDuration = 4 * time.Second
)

// Display constants
const (
	// DefaultPreviewWidth is the display width a pin preview is truncated to
	DefaultPreviewWidth = 40

	// PreviewEllipsis terminates a truncated preview
	PreviewEllipsis = "…"

	// InitialEntryLabel labels the synthetic first history entry
	InitialEntryLabel = "(initial)"

	// UpdatedAtLayout is how update timestamps are shown in history views
	UpdatedAtLayout = "2006-01-02 15:04"
)

// Map defaults
const (
	// DefaultCenterLat is the latitude the map opens centred on
	DefaultCenterLat = 23.5

	// DefaultCenterLng is the longitude the map opens centred on
	DefaultCenterLng = 121.5

	// DefaultSpanDegrees is the latitude span visible at the default zoom
	DefaultSpanDegrees = 4.0
)

// HTTP contract constants
const (
	// DefaultServerURL is the backend base URL used when none is configured
	DefaultServerURL = "http://localhost:5000"

	// MarkersPath lists and creates markers
	MarkersPath = "/markers"

	// UpdatesPathFormat lists and creates updates for one marker
	UpdatesPathFormat = "/markers/%d/updates"

	// MaxUploadMemory is the in-memory threshold for parsing multipart forms
	MaxUploadMemory = 32 << 20

	// RequestIDHeader carries the per-request identifier
	RequestIDHeader = "X-Request-ID"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
