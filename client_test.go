package mapnotes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapnotes/internal/testutil"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/markers"
)

func TestNewDefaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, 40, c.PreviewWidth())
	assert.NotNil(t, c.Controller())
}

func TestNewInvalidServer(t *testing.T) {
	_, err := New(WithServerURL("ftp://nope"))
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestClientAgainstBackend(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.SeedMarker(23.5, 121.5, "A", "")

	c, err := New(WithServerURL(backend.URL), WithAPIToken("t"))
	require.NoError(t, err)
	ctx := context.Background()

	var loaded, created, posted int
	c.OnMarkersLoaded(func([]markers.Marker) { loaded++ })
	c.OnMarkerCreated(func(markers.Marker) { created++ })
	c.OnUpdatePosted(func(markers.Update) { posted++ })

	ms, err := c.Markers(ctx)
	require.NoError(t, err)
	require.Len(t, ms, 1)

	m, err := c.CreateMarker(ctx, markers.CreatePayload{
		Coordinate: markers.Coordinate{Lat: 23.5, Lng: 121.5},
		Text:       "test",
	})
	require.NoError(t, err)
	assert.Len(t, c.Cached(), 2)
	assert.Equal(t, 1, backend.Requests("GET /markers"), "creation adds to the cache without a reload")

	_, err = c.PostUpdate(ctx, m.ID, markers.UpdatePayload{Text: "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, backend.Requests("GET /markers"), "a posted update reloads exactly once")

	history, err := c.History(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "test", history[0].Text)
	assert.Equal(t, "B", history[1].Text)

	assert.Equal(t, 2, loaded)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, posted)
}

func TestPostUpdateEmpty(t *testing.T) {
	ctrl := testutil.NewController(markers.Marker{ID: 1, Text: "A"})
	c, err := New(WithController(ctrl))
	require.NoError(t, err)

	_, err = c.PostUpdate(context.Background(), 1, markers.UpdatePayload{Text: " "})
	assert.True(t, errors.IsEmptyUpdatePayload(err))
	assert.Zero(t, ctrl.Calls("FetchMarkers"))
}

func TestHistoryUnknownMarker(t *testing.T) {
	c, err := New(WithController(testutil.NewController()))
	require.NoError(t, err)

	_, err = c.History(context.Background(), 9)
	assert.True(t, errors.IsNotFound(err))
}

func TestHistoryLoadsCacheOnce(t *testing.T) {
	ctrl := testutil.NewController(markers.Marker{ID: 1, Text: "A"})
	ctrl.AddUpdate(1, "B")
	c, err := New(WithController(ctrl))
	require.NoError(t, err)

	history, err := c.History(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, 1, ctrl.Calls("FetchMarkers"))
}
