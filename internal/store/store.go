// Package store holds the client-side cache of markers currently rendered.
package store

import (
	"context"
	"sync"

	"github.com/agentstation/mapnotes/pkg/logging"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// Fetcher is the slice of the sync controller the store needs.
type Fetcher interface {
	FetchMarkers(ctx context.Context) ([]markers.Marker, error)
}

// Store is the authoritative local view of all markers. A full reload always
// replaces prior state; there is no merging.
type Store struct {
	mu      sync.RWMutex
	fetcher Fetcher
	markers []markers.Marker
	index   map[markers.ID]int
}

// New returns an empty store that reloads through fetcher.
func New(fetcher Fetcher) *Store {
	return &Store{
		fetcher: fetcher,
		index:   make(map[markers.ID]int),
	}
}

// LoadAll fetches the full marker set and replaces the cached set with it.
// On failure the previous set is left untouched.
func (s *Store) LoadAll(ctx context.Context) ([]markers.Marker, error) {
	ms, err := s.fetcher.FetchMarkers(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Marker reload failed")
		return nil, err
	}
	s.Replace(ms)
	return s.List(), nil
}

// Replace swaps in a marker set fetched elsewhere.
func (s *Store) Replace(ms []markers.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markers = make([]markers.Marker, 0, len(ms))
	s.index = make(map[markers.ID]int, len(ms))
	for _, m := range ms {
		s.put(m)
	}
}

// Add inserts a single newly created marker.
func (s *Store) Add(m markers.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(m)
}

// put appends m, or overwrites the existing entry with the same id. Must be
// called with the write lock held.
func (s *Store) put(m markers.Marker) {
	if i, ok := s.index[m.ID]; ok {
		s.markers[i] = m
		return
	}
	s.index[m.ID] = len(s.markers)
	s.markers = append(s.markers, m)
}

// Clear drops every cached marker.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = nil
	s.index = make(map[markers.ID]int)
}

// List returns a copy of the cached markers in load order.
func (s *Store) List() []markers.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]markers.Marker(nil), s.markers...)
}

// Get returns the marker with id.
func (s *Store) Get(id markers.ID) (markers.Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return markers.Marker{}, false
	}
	return s.markers[i], true
}

// Len returns the number of cached markers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}
