package overlay

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapnotes/internal/testutil"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/markers"
)

var markerA = markers.Marker{ID: 7, Lat: 23.5, Lng: 121.5, Text: "A"}

func newFixture() (*Overlay, *testutil.Controller) {
	ctrl := testutil.NewController(markerA)
	ctrl.AddUpdate(markerA.ID, "B")
	ctrl.AddUpdate(markerA.ID, "C")
	return New(ctrl), ctrl
}

func texts(entries []markers.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Text)
	}
	return out
}

func TestOpenRendersInitialEntrySynchronously(t *testing.T) {
	o, _ := newFixture()
	cmd := o.Open(markerA)
	require.NotNil(t, cmd)

	assert.Equal(t, Loading, o.State())
	entries := o.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Initial)
	assert.Equal(t, "A", entries[0].Text)
}

func TestHistoryOrderIndependentOfFetchTiming(t *testing.T) {
	t.Run("fetch completes before the initial entry is read", func(t *testing.T) {
		o, _ := newFixture()
		cmd := o.Open(markerA)
		msg := cmd()
		_, handled := o.Update(msg)
		require.True(t, handled)
		assert.Equal(t, []string{"A", "B", "C"}, texts(o.Entries()))
	})

	t.Run("fetch completes after the initial entry is read", func(t *testing.T) {
		o, _ := newFixture()
		cmd := o.Open(markerA)
		assert.Equal(t, []string{"A"}, texts(o.Entries()))

		done := make(chan tea.Msg, 1)
		go func() { done <- cmd() }()
		o.Update(<-done)
		assert.Equal(t, []string{"A", "B", "C"}, texts(o.Entries()))
		assert.Equal(t, Ready, o.State())
	})
}

func TestDegradedFetch(t *testing.T) {
	o, ctrl := newFixture()
	ctrl.FetchUpdatesErr = &errors.NetworkError{Operation: "fetch updates", StatusCode: 500, Message: "boom"}

	out, _ := o.Update(o.Open(markerA)())

	assert.True(t, errors.IsNetworkFailure(out.FetchErr))
	assert.Equal(t, Ready, o.State(), "a failed fetch never leaves the overlay loading")
	assert.Equal(t, []string{"A"}, texts(o.Entries()))
	assert.Error(t, o.FetchErr())

	cmd, err := o.Submit("still works", "")
	require.NoError(t, err)
	assert.NotNil(t, cmd)
}

func TestEmptyPayloadGuard(t *testing.T) {
	o, ctrl := newFixture()
	o.Update(o.Open(markerA)())

	for _, text := range []string{"", "  \t"} {
		cmd, err := o.Submit(text, "")
		assert.Nil(t, cmd)
		assert.True(t, errors.IsEmptyUpdatePayload(err))
		assert.Equal(t, Ready, o.State())
	}
	assert.Zero(t, ctrl.Calls("PostUpdate"))
}

func TestSubmitOnlyFromReady(t *testing.T) {
	o, _ := newFixture()

	_, err := o.Submit("x", "")
	assert.ErrorIs(t, err, ErrNotOpen)

	cmd := o.Open(markerA)
	_, err = o.Submit("x", "")
	assert.ErrorIs(t, err, errors.ErrBusy)

	o.Update(cmd())
	_, err = o.Submit("x", "")
	require.NoError(t, err)
	assert.Equal(t, Submitting, o.State())

	_, err = o.Submit("y", "")
	assert.ErrorIs(t, err, errors.ErrBusy)
}

func TestSubmitSuccessCloses(t *testing.T) {
	o, ctrl := newFixture()
	o.Update(o.Open(markerA)())

	cmd, err := o.Submit("D", "")
	require.NoError(t, err)
	out, _ := o.Update(cmd())

	require.NotNil(t, out.Posted)
	assert.Equal(t, "D", out.Posted.Text)
	assert.Equal(t, markerA.ID, out.Posted.MarkerID)
	assert.Equal(t, Closed, o.State())
	assert.Empty(t, o.Entries())
	assert.Equal(t, 1, ctrl.Calls("PostUpdate"))
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	o, ctrl := newFixture()
	ctrl.PostErr = &errors.ValidationError{StatusCode: 400, Message: "nothing to update"}
	o.Update(o.Open(markerA)())

	cmd, err := o.Submit("draft", "")
	require.NoError(t, err)
	out, _ := o.Update(cmd())

	assert.True(t, errors.IsValidationFailure(out.SubmitErr))
	assert.Equal(t, Ready, o.State())
	text, image := o.Draft()
	assert.Equal(t, "draft", text)
	assert.Empty(t, image)
	assert.Equal(t, []string{"A", "B", "C"}, texts(o.Entries()))
}

func TestSubmitWithImageOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpg"), 0o644))

	o, _ := newFixture()
	o.Update(o.Open(markerA)())
	cmd, err := o.Submit("", path)
	require.NoError(t, err)

	out, _ := o.Update(cmd())
	require.NotNil(t, out.Posted)
	assert.Equal(t, "/uploads/photo.jpg", out.Posted.ImageURL)
}

func TestStaleFetchAfterClose(t *testing.T) {
	o, _ := newFixture()
	cmd := o.Open(markerA)
	o.Cancel()
	require.Equal(t, Closed, o.State())
	token := o.Token()

	out, handled := o.Update(cmd())
	assert.True(t, handled)
	assert.True(t, out.Stale)
	assert.Equal(t, Closed, o.State())
	assert.Empty(t, o.Entries())
	assert.Nil(t, o.FetchErr())
	assert.Equal(t, token, o.Token())
}

func TestStaleFetchFromPreviousSession(t *testing.T) {
	o, ctrl := newFixture()
	other := markers.Marker{ID: 8, Text: "X"}
	ctrl.AddUpdate(other.ID, "Y")

	first := o.Open(markerA)
	second := o.Open(other)

	out, _ := o.Update(first())
	assert.True(t, out.Stale)
	assert.Equal(t, Loading, o.State())
	assert.Equal(t, []string{"X"}, texts(o.Entries()))

	o.Update(second())
	assert.Equal(t, []string{"X", "Y"}, texts(o.Entries()))
}

func TestStaleSubmitAfterCancel(t *testing.T) {
	o, _ := newFixture()
	o.Update(o.Open(markerA)())
	cmd, err := o.Submit("late", "")
	require.NoError(t, err)
	o.Cancel()

	out, _ := o.Update(cmd())
	assert.True(t, out.Stale)
	assert.Nil(t, out.Posted)
	assert.Equal(t, Closed, o.State())
}

func TestForeignMessage(t *testing.T) {
	o, _ := newFixture()
	_, handled := o.Update(tea.KeyMsg{})
	assert.False(t, handled)
}
