package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapnotes/pkg/constants"
	"github.com/agentstation/mapnotes/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Run("default server", func(t *testing.T) {
		c, err := New("")
		require.NoError(t, err)
		assert.Equal(t, constants.DefaultServerURL, c.BaseURL())
		assert.Equal(t, constants.DefaultRequestTimeout, c.Timeout())
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		c, err := New("http://example.com/api/")
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/api", c.BaseURL())
	})

	t.Run("bad scheme", func(t *testing.T) {
		_, err := New("ftp://example.com")
		var cfgErr *errors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "server_url", cfgErr.Component)
	})
}

func TestResolveURL(t *testing.T) {
	c, err := New("http://localhost:5000")
	require.NoError(t, err)

	assert.Equal(t, "", c.ResolveURL(""))
	assert.Equal(t, "http://localhost:5000/uploads/a.png", c.ResolveURL("/uploads/a.png"))
	assert.Equal(t, "https://cdn.example.com/b.png", c.ResolveURL("https://cdn.example.com/b.png"))
}

func TestGetJSON(t *testing.T) {
	var gotRequestID, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get(constants.RequestIDHeader)
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/markers", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1},{"id":2}]`)
	}, WithToken("secret", nil))

	var out []struct {
		ID int `json:"id"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "fetch markers", "/markers", &out))
	assert.Len(t, out, 2)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestPostMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(constants.MaxUploadMemory))
		assert.Equal(t, "23.5", r.FormValue("lat"))
		assert.Equal(t, "hello", r.FormValue("text"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "pic.png", header.Filename)
		assert.Equal(t, "PNG", string(content))

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":9}`)
	})

	form := NewForm().Field("lat", "23.5").Field("text", "hello").File("image", "pic.png", []byte("PNG"))
	var out struct {
		ID int `json:"id"`
	}
	require.NoError(t, c.PostMultipart(context.Background(), "create marker", "/markers", form, &out))
	assert.Equal(t, 9, out.ID)
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		network    bool
		validation bool
		message    string
	}{
		{"bad request with server message", 400, `{"error":"nothing to update"}`, false, true, "nothing to update"},
		{"not found", 404, `{"error":"marker not found"}`, false, true, "marker not found"},
		{"server error", 500, "boom", true, false, "boom"},
		{"unavailable empty body", 503, "", true, false, "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			err := c.GetJSON(context.Background(), "fetch markers", "/markers", nil)
			require.Error(t, err)
			assert.Equal(t, tt.network, errors.IsNetworkFailure(err))
			assert.Equal(t, tt.validation, errors.IsValidationFailure(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":`)
	})
	var out []map[string]any
	err := c.GetJSON(context.Background(), "fetch markers", "/markers", &out)
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.True(t, errors.IsNetworkFailure(err))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(50*time.Millisecond))
	defer close(release)

	err := c.GetJSON(context.Background(), "fetch updates", "/markers/1/updates", nil)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))
	assert.True(t, errors.IsNetworkFailure(err))
}

func TestCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.GetJSON(ctx, "fetch markers", "/markers", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
	assert.False(t, errors.IsTimeout(err))
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)
	err = c.GetJSON(context.Background(), "fetch markers", "/markers", nil)
	var netErr *errors.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Zero(t, netErr.StatusCode)
}

func TestHeaderAuth(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Api-Key")
		_, _ = io.WriteString(w, `[]`)
	}, WithToken("k", &HeaderAuth{Header: "X-Api-Key"}))

	require.NoError(t, c.GetJSON(context.Background(), "fetch markers", "/markers", nil))
	assert.Equal(t, "k", got)
}
