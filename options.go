package mapnotes

import (
	"net/http"
	"time"

	"github.com/agentstation/mapnotes/internal/syncer"
	"github.com/agentstation/mapnotes/pkg/constants"
)

// Option is a function that configures a Client.
type Option func(*config) error

// config holds the settings a Client is built from.
type config struct {
	serverURL    string
	apiToken     string
	timeout      time.Duration
	httpClient   *http.Client
	previewWidth int
	controller   syncer.Controller
}

func defaultConfig() *config {
	return &config{
		serverURL:    constants.DefaultServerURL,
		timeout:      constants.DefaultRequestTimeout,
		previewWidth: constants.DefaultPreviewWidth,
	}
}

// WithServerURL configures the marker backend base URL.
func WithServerURL(url string) Option {
	return func(c *config) error {
		c.serverURL = url
		return nil
	}
}

// WithAPIToken sends token as a Bearer token on every request.
func WithAPIToken(token string) Option {
	return func(c *config) error {
		c.apiToken = token
		return nil
	}
}

// WithTimeout bounds every backend round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		c.timeout = d
		return nil
	}
}

// WithHTTPClient replaces the HTTP client used for backend requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithPreviewWidth sets the display width pin previews are truncated to.
func WithPreviewWidth(width int) Option {
	return func(c *config) error {
		if width > 0 {
			c.previewWidth = width
		}
		return nil
	}
}

// WithController replaces the HTTP sync controller, typically with a fake.
// Server, token, timeout and HTTP client options are ignored when set.
func WithController(ctrl syncer.Controller) Option {
	return func(c *config) error {
		c.controller = ctrl
		return nil
	}
}
