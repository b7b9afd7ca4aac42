// Package testutil provides in-memory fakes of the marker backend for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agentstation/mapnotes/pkg/constants"
)

// BackendMarker is a marker row in the fake backend.
type BackendMarker struct {
	ID        int64
	Lat       float64
	Lng       float64
	Text      string
	ImagePath string
	CreatedAt time.Time
}

// BackendUpdate is an update row in the fake backend.
type BackendUpdate struct {
	ID        int64
	MarkerID  int64
	Text      string
	ImagePath string
	UpdatedAt time.Time
}

// Backend is an httptest server that implements the marker HTTP contract
// against in-memory tables. It records request counts per route.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	markers  []BackendMarker
	updates  []BackendUpdate
	nextID   int64
	nextUpd  int64
	requests map[string]int
	failures map[string]int
	clock    time.Time
}

// sqliteLayout is how the backend's CURRENT_TIMESTAMP serializes.
const sqliteLayout = "2006-01-02 15:04:05"

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		nextID:   1,
		nextUpd:  1,
		requests: make(map[string]int),
		failures: make(map[string]int),
		clock:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /markers", b.listMarkers)
	mux.HandleFunc("POST /markers", b.createMarker)
	mux.HandleFunc("GET /markers/{id}/updates", b.listUpdates)
	mux.HandleFunc("POST /markers/{id}/updates", b.postUpdate)

	b.Server = httptest.NewServer(b.count(mux))
	t.Cleanup(b.Close)
	return b
}

// SeedMarker inserts a marker and returns its id.
func (b *Backend) SeedMarker(lat, lng float64, text, imagePath string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertMarker(lat, lng, text, imagePath)
}

// SeedUpdate inserts an update for markerID.
func (b *Backend) SeedUpdate(markerID int64, text, imagePath string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertUpdate(markerID, text, imagePath)
}

// FailNext makes the next n requests to route ("GET /markers", ...) answer
// with status 500.
func (b *Backend) FailNext(route string, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = n
}

// Requests returns how many requests route has received.
func (b *Backend) Requests(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[route]
}

// Markers returns a copy of the marker table.
func (b *Backend) Markers() []BackendMarker {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]BackendMarker(nil), b.markers...)
}

// Updates returns a copy of the update table.
func (b *Backend) Updates() []BackendUpdate {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]BackendUpdate(nil), b.updates...)
}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + normalize(r.URL.Path)
		b.mu.Lock()
		b.requests[route]++
		fail := b.failures[route] > 0
		if fail {
			b.failures[route]--
		}
		b.mu.Unlock()

		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// normalize replaces numeric path segments with {id}.
func normalize(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

func (b *Backend) insertMarker(lat, lng float64, text, imagePath string) int64 {
	id := b.nextID
	b.nextID++
	b.markers = append(b.markers, BackendMarker{
		ID: id, Lat: lat, Lng: lng, Text: text, ImagePath: imagePath, CreatedAt: b.tick(),
	})
	return id
}

func (b *Backend) insertUpdate(markerID int64, text, imagePath string) int64 {
	id := b.nextUpd
	b.nextUpd++
	b.updates = append(b.updates, BackendUpdate{
		ID: id, MarkerID: markerID, Text: text, ImagePath: imagePath, UpdatedAt: b.tick(),
	})
	return id
}

func (b *Backend) tick() time.Time {
	b.clock = b.clock.Add(time.Minute)
	return b.clock
}

func (b *Backend) hasMarker(id int64) bool {
	for _, m := range b.markers {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (b *Backend) listMarkers(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	out := make([]map[string]any, 0, len(b.markers))
	for _, m := range b.markers {
		out = append(out, map[string]any{
			"id":         m.ID,
			"lat":        m.Lat,
			"lng":        m.Lng,
			"text":       m.Text,
			"image_url":  nullable(m.ImagePath),
			"created_at": m.CreatedAt.Format(sqliteLayout),
		})
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createMarker(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	lat, latErr := strconv.ParseFloat(r.FormValue("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.FormValue("lng"), 64)
	if latErr != nil || lngErr != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat or lng missing"})
		return
	}
	text := r.FormValue("text")
	imagePath := uploadPath(r)

	b.mu.Lock()
	id := b.insertMarker(lat, lng, text, imagePath)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"id": id, "lat": lat, "lng": lng, "text": text, "image_url": nullable(imagePath),
	})
}

func (b *Backend) listUpdates(w http.ResponseWriter, r *http.Request) {
	markerID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	b.mu.Lock()
	out := make([]map[string]any, 0)
	for _, u := range b.updates {
		if u.MarkerID != markerID {
			continue
		}
		out = append(out, map[string]any{
			"update_id":  u.ID,
			"text":       nullable(u.Text),
			"image_url":  nullable(u.ImagePath),
			"updated_at": u.UpdatedAt.Format(sqliteLayout),
		})
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) postUpdate(w http.ResponseWriter, r *http.Request) {
	markerID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	b.mu.Lock()
	exists := b.hasMarker(markerID)
	b.mu.Unlock()
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "marker not found"})
		return
	}

	if err := r.ParseMultipartForm(constants.MaxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	text := r.FormValue("text")
	imagePath := uploadPath(r)
	if strings.TrimSpace(text) == "" && imagePath == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nothing to update"})
		return
	}

	b.mu.Lock()
	id := b.insertUpdate(markerID, text, imagePath)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"update_id": id, "marker_id": markerID, "text": nullable(text), "image_url": nullable(imagePath),
	})
}

// uploadPath returns the /uploads path the backend would serve an attached
// image from, or "" when none was sent.
func uploadPath(r *http.Request) string {
	file, header, err := r.FormFile("image")
	if err != nil {
		return ""
	}
	_ = file.Close()
	return fmt.Sprintf("/uploads/%s", filepath.Base(header.Filename))
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
