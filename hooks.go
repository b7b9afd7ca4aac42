package mapnotes

import (
	"sync"

	"github.com/agentstation/mapnotes/pkg/markers"
)

// Hook function types for marker events
type (
	// MarkersLoadedHook is called after the marker set is reloaded
	MarkersLoadedHook func(ms []markers.Marker)

	// MarkerCreatedHook is called after a marker is created
	MarkerCreatedHook func(m markers.Marker)

	// UpdatePostedHook is called after an update is appended to a marker
	UpdatePostedHook func(u markers.Update)
)

// hooks manages event callbacks for marker changes
type hooks struct {
	mu              sync.RWMutex
	onMarkersLoaded []MarkersLoadedHook
	onMarkerCreated []MarkerCreatedHook
	onUpdatePosted  []UpdatePostedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnMarkersLoaded registers a callback for marker reloads
func (h *hooks) OnMarkersLoaded(fn MarkersLoadedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMarkersLoaded = append(h.onMarkersLoaded, fn)
}

// OnMarkerCreated registers a callback for marker creation
func (h *hooks) OnMarkerCreated(fn MarkerCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMarkerCreated = append(h.onMarkerCreated, fn)
}

// OnUpdatePosted registers a callback for posted updates
func (h *hooks) OnUpdatePosted(fn UpdatePostedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUpdatePosted = append(h.onUpdatePosted, fn)
}

func (h *hooks) markersLoaded(ms []markers.Marker) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onMarkersLoaded {
		fn(ms)
	}
}

func (h *hooks) markerCreated(m markers.Marker) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onMarkerCreated {
		fn(m)
	}
}

func (h *hooks) updatePosted(u markers.Update) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onUpdatePosted {
		fn(u)
	}
}
