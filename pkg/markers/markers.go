// Package markers defines the data model shared by every mapnotes component:
// markers, their append-only updates, and the derived history view.
//
// Text and image fields are optional at every layer. An empty string means
// absent; nothing in this package assumes either is present.
package markers

import (
	"fmt"
	"strings"

	"github.com/agentstation/utc"
)

// ID identifies a marker. It is assigned by the backend and never reused.
type ID int64

// String implements fmt.Stringer.
func (id ID) String() string {
	return fmt.Sprintf("%d", int64(id))
}

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// String formats the coordinate with six decimals, roughly 10cm precision.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lng)
}

// Valid reports whether the coordinate lies on the globe.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Pixel is a position in the viewport of the map widget.
type Pixel struct {
	X int
	Y int
}

// Marker is a persisted point annotation.
type Marker struct {
	ID        ID        `json:"id" yaml:"id"`
	Lat       float64   `json:"lat" yaml:"lat"`
	Lng       float64   `json:"lng" yaml:"lng"`
	Text      string    `json:"text,omitempty" yaml:"text,omitempty"`
	ImageURL  string    `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	CreatedAt *utc.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Coordinate returns the marker position.
func (m Marker) Coordinate() Coordinate {
	return Coordinate{Lat: m.Lat, Lng: m.Lng}
}

// HasImage reports whether the marker carries an image reference.
func (m Marker) HasImage() bool {
	return strings.TrimSpace(m.ImageURL) != ""
}

// Update is one append-only addition to a marker's history.
type Update struct {
	ID        int64    `json:"update_id,omitempty" yaml:"update_id,omitempty"`
	MarkerID  ID       `json:"marker_id" yaml:"marker_id"`
	Text      string   `json:"text,omitempty" yaml:"text,omitempty"`
	ImageURL  string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	UpdatedAt utc.Time `json:"updated_at" yaml:"updated_at"`
}

// HasImage reports whether the update carries an image reference.
func (u Update) HasImage() bool {
	return strings.TrimSpace(u.ImageURL) != ""
}

// CreatePayload is everything needed to create a marker.
type CreatePayload struct {
	Coordinate Coordinate
	Text       string
	Image      *Image
}

// UpdatePayload is everything needed to append an update to a marker.
type UpdatePayload struct {
	Text  string
	Image *Image
}

// Empty reports whether the payload has neither text nor image. Whitespace-only
// text counts as empty, matching what the backend rejects.
func (p UpdatePayload) Empty() bool {
	return strings.TrimSpace(p.Text) == "" && p.Image == nil
}
