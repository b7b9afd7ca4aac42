package syncer

import (
	"context"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/mapnotes/internal/transport"
	"github.com/agentstation/mapnotes/pkg/logging"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// wireMarker is a marker as the backend encodes it.
type wireMarker struct {
	ID        int64   `json:"id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Text      string  `json:"text"`
	ImageURL  string  `json:"image_url"`
	CreatedAt string  `json:"created_at"`
}

func (w wireMarker) marker(ctx context.Context, c *transport.Client) markers.Marker {
	m := markers.Marker{
		ID:       markers.ID(w.ID),
		Lat:      w.Lat,
		Lng:      w.Lng,
		Text:     w.Text,
		ImageURL: c.ResolveURL(w.ImageURL),
	}
	if w.CreatedAt != "" {
		if t, ok := parseTimestamp(ctx, "created_at", w.CreatedAt); ok {
			m.CreatedAt = &t
		}
	}
	return m
}

// wireUpdate is an update as the backend encodes it. The list endpoint omits
// marker_id; the post endpoint omits updated_at.
type wireUpdate struct {
	UpdateID  int64  `json:"update_id"`
	MarkerID  int64  `json:"marker_id"`
	Text      string `json:"text"`
	ImageURL  string `json:"image_url"`
	UpdatedAt string `json:"updated_at"`
}

func (w wireUpdate) update(ctx context.Context, c *transport.Client, owner markers.ID) markers.Update {
	u := markers.Update{
		ID:       w.UpdateID,
		MarkerID: owner,
		Text:     w.Text,
		ImageURL: c.ResolveURL(w.ImageURL),
	}
	if w.MarkerID != 0 && markers.ID(w.MarkerID) != owner {
		logging.FromContext(ctx).Warn().
			Int64("response_marker_id", w.MarkerID).
			Msg("Update response names a different marker")
	}
	if t, ok := parseTimestamp(ctx, "updated_at", w.UpdatedAt); ok {
		u.UpdatedAt = t
	}
	return u
}

// timestampLayouts are tried in order. The first is SQLite's CURRENT_TIMESTAMP.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp parses a server timestamp as UTC. Unparseable values are
// logged and dropped; timestamps are display-only.
func parseTimestamp(ctx context.Context, field, value string) (utc.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return utc.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return utc.Time{Time: t.UTC()}, true
		}
	}
	logging.FromContext(ctx).Warn().Str("field", field).Str("value", value).Msg("Unrecognized timestamp")
	return utc.Time{}, false
}
