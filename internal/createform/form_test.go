package createform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapnotes/internal/mapbinding"
	"github.com/agentstation/mapnotes/internal/testutil"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/markers"
)

type nopWidget struct{ adds int }

func (w *nopWidget) AddPin(mapbinding.Pin)                    { w.adds++ }
func (w *nopWidget) RemovePin(markers.ID)                     {}
func (w *nopWidget) Project(markers.Coordinate) markers.Pixel { return markers.Pixel{} }

func TestSubmitRoundTrip(t *testing.T) {
	ctrl := testutil.NewController(markers.Marker{ID: 1}, markers.Marker{ID: 2})
	f := New(ctrl)
	w := &nopWidget{}
	b := mapbinding.New(w)
	b.RenderAll([]markers.Marker{{ID: 1}, {ID: 2}})
	before := w.adds

	f.Open(markers.Coordinate{Lat: 23.5, Lng: 121.5}, markers.Pixel{X: 10, Y: 4})
	f.SetText("test")
	cmd := f.Submit()
	require.NotNil(t, cmd)
	assert.True(t, f.Submitting())

	out, handled := f.Update(cmd())
	require.True(t, handled)
	require.NoError(t, out.Err)
	require.NotNil(t, out.Created)
	assert.NotZero(t, out.Created.ID)
	assert.Equal(t, 23.5, out.Created.Lat)
	assert.Equal(t, 121.5, out.Created.Lng)

	b.Add(*out.Created)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, before+1, w.adds)
	assert.Zero(t, ctrl.Calls("FetchMarkers"), "creation must not reload")

	assert.False(t, f.Visible())
	assert.Empty(t, f.Text())
}

func TestSubmitFailureKeepsData(t *testing.T) {
	ctrl := testutil.NewController()
	ctrl.CreateErr = &errors.NetworkError{Operation: "create marker", StatusCode: 502, Message: "bad gateway"}
	f := New(ctrl)

	f.Open(markers.Coordinate{Lat: 1, Lng: 2}, markers.Pixel{X: 3, Y: 4})
	f.SetText("keep me")
	out, handled := f.Update(f.Submit()())

	require.True(t, handled)
	assert.Nil(t, out.Created)
	assert.True(t, errors.IsNetworkFailure(out.Err))
	assert.True(t, f.Visible())
	assert.False(t, f.Submitting())
	assert.Equal(t, "keep me", f.Text())
	assert.Equal(t, markers.Coordinate{Lat: 1, Lng: 2}, f.Coordinate())
	assert.Equal(t, out.Err, f.Err())

	ctrl.CreateErr = nil
	out, _ = f.Update(f.Submit()())
	require.NotNil(t, out.Created)
	assert.Equal(t, "keep me", out.Created.Text)
}

func TestSubmitIgnoredWhileSubmittingOrHidden(t *testing.T) {
	f := New(testutil.NewController())
	assert.Nil(t, f.Submit())

	f.Open(markers.Coordinate{}, markers.Pixel{})
	require.NotNil(t, f.Submit())
	assert.Nil(t, f.Submit())
}

func TestSubmitWithImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	f := New(testutil.NewController())
	f.Open(markers.Coordinate{Lat: 1, Lng: 1}, markers.Pixel{})
	f.SetImagePath(path)
	out, _ := f.Update(f.Submit()())

	require.NotNil(t, out.Created)
	assert.Equal(t, "/uploads/cat.png", out.Created.ImageURL)
}

func TestSubmitMissingImage(t *testing.T) {
	ctrl := testutil.NewController()
	f := New(ctrl)
	f.Open(markers.Coordinate{}, markers.Pixel{})
	f.SetImagePath(filepath.Join(t.TempDir(), "missing.png"))

	out, _ := f.Update(f.Submit()())
	assert.Error(t, out.Err)
	assert.True(t, f.Visible())
	assert.Zero(t, ctrl.Calls("CreateMarker"))
}

func TestCancel(t *testing.T) {
	f := New(testutil.NewController())
	f.Open(markers.Coordinate{Lat: 1}, markers.Pixel{X: 1})
	f.SetText("draft")
	f.Cancel()
	assert.False(t, f.Visible())

	f.Open(markers.Coordinate{Lat: 2}, markers.Pixel{X: 2})
	assert.Empty(t, f.Text())
	assert.Equal(t, markers.Pixel{X: 2}, f.Anchor())
}

func TestOpenRefusedWhileCancelledSubmissionInFlight(t *testing.T) {
	f := New(testutil.NewController())
	require.True(t, f.Open(markers.Coordinate{Lat: 1}, markers.Pixel{X: 1}))
	cmd := f.Submit()
	require.NotNil(t, cmd)
	f.Cancel()

	assert.False(t, f.Open(markers.Coordinate{Lat: 2}, markers.Pixel{X: 2}))
	assert.False(t, f.Visible())

	out, _ := f.Update(cmd())
	require.NotNil(t, out.Created)
	assert.True(t, f.Open(markers.Coordinate{Lat: 2}, markers.Pixel{X: 2}))
}

func TestUpdateIgnoresForeignMessages(t *testing.T) {
	f := New(testutil.NewController())
	_, handled := f.Update("tick")
	assert.False(t, handled)
}
