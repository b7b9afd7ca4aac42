package syncer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapnotes/internal/syncer"
	"github.com/agentstation/mapnotes/internal/testutil"
	"github.com/agentstation/mapnotes/internal/transport"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/markers"
)

func newController(t *testing.T) (*syncer.HTTP, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	client, err := transport.New(backend.URL)
	require.NoError(t, err)
	return syncer.New(client), backend
}

func TestFetchMarkers(t *testing.T) {
	ctrl, backend := newController(t)
	backend.SeedMarker(23.5, 121.5, "first", "/uploads/a.png")
	backend.SeedMarker(25.0, 121.0, "", "")

	got, err := ctrl.FetchMarkers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, markers.ID(1), got[0].ID)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, backend.URL+"/uploads/a.png", got[0].ImageURL)
	require.NotNil(t, got[0].CreatedAt)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 5, 5, 0, time.UTC), got[0].CreatedAt.Time)

	assert.False(t, got[1].HasImage())
}

func TestCreateMarkerRoundTrip(t *testing.T) {
	ctrl, backend := newController(t)

	m, err := ctrl.CreateMarker(context.Background(), markers.CreatePayload{
		Coordinate: markers.Coordinate{Lat: 23.5, Lng: 121.5},
		Text:       "test",
	})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, 23.5, m.Lat)
	assert.Equal(t, 121.5, m.Lng)
	assert.Equal(t, "test", m.Text)
	assert.Len(t, backend.Markers(), 1)
}

func TestCreateMarkerWithImage(t *testing.T) {
	ctrl, _ := newController(t)

	m, err := ctrl.CreateMarker(context.Background(), markers.CreatePayload{
		Coordinate: markers.Coordinate{Lat: 1, Lng: 2},
		Image:      &markers.Image{Filename: "cat.png", Content: []byte("png")},
	})
	require.NoError(t, err)
	assert.Contains(t, m.ImageURL, "/uploads/cat.png")
	assert.Empty(t, m.Text)
}

func TestCreateMarkerInvalidCoordinate(t *testing.T) {
	ctrl, backend := newController(t)

	_, err := ctrl.CreateMarker(context.Background(), markers.CreatePayload{
		Coordinate: markers.Coordinate{Lat: 91, Lng: 0},
	})
	assert.True(t, errors.IsValidationFailure(err))
	assert.Zero(t, backend.Requests("POST /markers"))
}

func TestFetchUpdatesOrder(t *testing.T) {
	ctrl, backend := newController(t)
	id := backend.SeedMarker(1, 1, "A", "")
	backend.SeedUpdate(id, "B", "")
	backend.SeedUpdate(id, "C", "")

	got, err := ctrl.FetchUpdates(context.Background(), markers.ID(id))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Text)
	assert.Equal(t, "C", got[1].Text)
	assert.Equal(t, markers.ID(id), got[0].MarkerID)
	assert.True(t, got[0].UpdatedAt.Time.Before(got[1].UpdatedAt.Time))
}

func TestPostUpdate(t *testing.T) {
	ctrl, backend := newController(t)
	id := backend.SeedMarker(1, 1, "A", "")

	u, err := ctrl.PostUpdate(context.Background(), markers.ID(id), "B", nil)
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, markers.ID(id), u.MarkerID)
	assert.Equal(t, "B", u.Text)
	assert.Len(t, backend.Updates(), 1)
}

func TestPostUpdateSendsTextAsEntered(t *testing.T) {
	ctrl, backend := newController(t)
	id := backend.SeedMarker(1, 1, "A", "")

	image := &markers.Image{Filename: "cat.png", Content: []byte("png")}
	_, err := ctrl.PostUpdate(context.Background(), markers.ID(id), "  ", image)
	require.NoError(t, err)

	require.Len(t, backend.Updates(), 1)
	assert.Equal(t, "  ", backend.Updates()[0].Text)
	assert.NotEmpty(t, backend.Updates()[0].ImagePath)
}

func TestPostUpdateEmptyPayload(t *testing.T) {
	ctrl, backend := newController(t)
	id := backend.SeedMarker(1, 1, "A", "")

	for _, text := range []string{"", "   \n"} {
		_, err := ctrl.PostUpdate(context.Background(), markers.ID(id), text, nil)
		assert.True(t, errors.IsEmptyUpdatePayload(err))
	}
	assert.Zero(t, backend.Requests("POST /markers/{id}/updates"))
}

func TestPostUpdateUnknownMarker(t *testing.T) {
	ctrl, _ := newController(t)

	_, err := ctrl.PostUpdate(context.Background(), 404, "B", nil)
	assert.True(t, errors.IsValidationFailure(err))
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "marker not found")
}

func TestServerFailureIsNetworkFailure(t *testing.T) {
	ctrl, backend := newController(t)
	backend.FailNext("GET /markers", 1)

	_, err := ctrl.FetchMarkers(context.Background())
	assert.True(t, errors.IsNetworkFailure(err))
	assert.False(t, errors.IsValidationFailure(err))

	_, err = ctrl.FetchMarkers(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, backend.Requests("GET /markers"))
}
