// Package transport is the HTTP layer under the sync controller. It owns the
// base URL, per-request timeouts, request ids and the mapping from HTTP
// outcomes onto the mapnotes error taxonomy.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/mapnotes/pkg/constants"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/logging"
)

// Client performs JSON and multipart round trips against the marker backend.
type Client struct {
	base    *url.URL
	http    *http.Client
	auth    Authenticator
	token   string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithToken authenticates every request with token using auth. A nil
// authenticator defaults to BearerAuth.
func WithToken(token string, auth Authenticator) Option {
	return func(c *Client) {
		if auth == nil {
			auth = &BearerAuth{}
		}
		c.token = token
		c.auth = auth
	}
}

// New creates a transport client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = constants.DefaultServerURL
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.NewConfigError("server_url", "invalid URL "+baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.NewConfigError("server_url", "scheme must be http or https: "+baseURL, nil)
	}

	c := &Client{
		base:    base,
		http:    &http.Client{},
		auth:    &NoAuth{},
		timeout: constants.DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// ResolveURL turns a server-relative reference such as /uploads/a.png into an
// absolute URL. Absolute references and empty strings are returned unchanged.
func (c *Client) ResolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	return c.base.ResolveReference(u).String()
}

// GetJSON issues GET path and decodes the JSON response into target.
func (c *Client) GetJSON(ctx context.Context, operation, path string, target any) error {
	return c.do(ctx, operation, http.MethodGet, path, nil, "", target)
}

// PostMultipart issues POST path with form encoded as multipart/form-data and
// decodes the JSON response into target, which may be nil.
func (c *Client) PostMultipart(ctx context.Context, operation, path string, form *Form, target any) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return errors.WrapResource("encode", "form", path, err)
	}
	return c.do(ctx, operation, http.MethodPost, path, body, contentType, target)
}

// do runs a single round trip. It never retries.
func (c *Client) do(ctx context.Context, operation, method, path string, body []byte, contentType string, target any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)
	logger := logging.FromContext(ctx)
	endpoint := method + " " + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return errors.WrapResource("create", "request", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(constants.RequestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("endpoint", endpoint).Dur("elapsed", time.Since(start)).Msg("Request failed")
		return c.classify(ctx, operation, endpoint, err)
	}
	logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Request completed")

	return DecodeResponse(resp, operation, endpoint, target)
}

// classify maps a transport error onto the error taxonomy.
func (c *Client) classify(ctx context.Context, operation, endpoint string, err error) error {
	if ctx.Err() == context.DeadlineExceeded || isTimeout(err) {
		return errors.NewTimeoutError(operation, c.timeout.String(), err)
	}
	return errors.NewNetworkError(operation, endpoint, err)
}

// isTimeout reports whether err is a net-level timeout.
func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
