package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapnotes/internal/store"
	"github.com/agentstation/mapnotes/internal/testutil"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/markers"
)

func seed() []markers.Marker {
	return []markers.Marker{
		{ID: 1, Lat: 23.5, Lng: 121.5, Text: "one"},
		{ID: 2, Lat: 24.0, Lng: 120.9, Text: "two"},
	}
}

func TestLoadAllReplaces(t *testing.T) {
	ctrl := testutil.NewController(seed()...)
	s := store.New(ctrl)
	s.Add(markers.Marker{ID: 99, Text: "stale"})

	got, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, s.Len())

	_, ok := s.Get(99)
	assert.False(t, ok, "a full reload wins over prior state")
	assert.Equal(t, 1, ctrl.Calls("FetchMarkers"))
}

func TestLoadAllFailureKeepsPreviousSet(t *testing.T) {
	ctrl := testutil.NewController(seed()...)
	s := store.New(ctrl)
	_, err := s.LoadAll(context.Background())
	require.NoError(t, err)

	ctrl.FetchMarkersErr = &errors.NetworkError{Operation: "fetch markers", StatusCode: 500, Message: "down"}
	_, err = s.LoadAll(context.Background())
	assert.True(t, errors.IsNetworkFailure(err))
	assert.Equal(t, 2, s.Len())
}

func TestAddAndGet(t *testing.T) {
	s := store.New(testutil.NewController())
	s.Add(markers.Marker{ID: 5, Text: "new"})

	m, ok := s.Get(5)
	require.True(t, ok)
	assert.Equal(t, "new", m.Text)

	s.Add(markers.Marker{ID: 5, Text: "again"})
	assert.Equal(t, 1, s.Len())
}

func TestClear(t *testing.T) {
	s := store.New(testutil.NewController())
	s.Replace(seed())
	s.Clear()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.List())
}

func TestListIsACopy(t *testing.T) {
	s := store.New(testutil.NewController())
	s.Replace(seed())

	list := s.List()
	list[0].Text = "mutated"

	m, _ := s.Get(1)
	assert.Equal(t, "one", m.Text)
}
