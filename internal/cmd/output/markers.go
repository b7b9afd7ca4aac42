package output

import (
	"io"
	"strconv"

	"github.com/agentstation/mapnotes/pkg/constants"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// MarkerRow is the structured (json/yaml) form of a marker.
type MarkerRow struct {
	ID        int64   `json:"id" yaml:"id"`
	Lat       float64 `json:"lat" yaml:"lat"`
	Lng       float64 `json:"lng" yaml:"lng"`
	Text      string  `json:"text,omitempty" yaml:"text,omitempty"`
	ImageURL  string  `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	CreatedAt string  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// HistoryRow is the structured form of one history entry.
type HistoryRow struct {
	Initial  bool   `json:"initial" yaml:"initial"`
	Label    string `json:"label" yaml:"label"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// UpdateRow is the structured form of a posted update.
type UpdateRow struct {
	UpdateID int64  `json:"update_id" yaml:"update_id"`
	MarkerID int64  `json:"marker_id" yaml:"marker_id"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// NewMarkerRow converts a marker for structured output.
func NewMarkerRow(m markers.Marker) MarkerRow {
	row := MarkerRow{ID: int64(m.ID), Lat: m.Lat, Lng: m.Lng, Text: m.Text, ImageURL: m.ImageURL}
	if m.CreatedAt != nil && !m.CreatedAt.IsZero() {
		row.CreatedAt = m.CreatedAt.Format(constants.UpdatedAtLayout)
	}
	return row
}

// NewHistoryRows converts history entries for structured output.
func NewHistoryRows(entries []markers.Entry) []HistoryRow {
	rows := make([]HistoryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, HistoryRow{Initial: e.Initial, Label: e.Label, Text: e.Text, ImageURL: e.ImageURL})
	}
	return rows
}

// NewUpdateRow converts a posted update for structured output.
func NewUpdateRow(u markers.Update) UpdateRow {
	return UpdateRow{UpdateID: u.ID, MarkerID: int64(u.MarkerID), Text: u.Text, ImageURL: u.ImageURL}
}

// MarkersTable lays markers out as a table. Wide adds the image and creation
// time columns; otherwise text is truncated to previewWidth.
func MarkersTable(ms []markers.Marker, wide bool, previewWidth int) Data {
	headers := []string{Header("id"), Header("lat"), Header("lng"), Header("text")}
	align := []Align{AlignRight, AlignRight, AlignRight, AlignLeft}
	if wide {
		headers = append(headers, Header("image_url"), Header("created_at"))
		align = append(align, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		row := NewMarkerRow(m)
		text := m.Text
		if !wide {
			text = markers.NewPreview(m, previewWidth).Text
		}
		cells := []string{
			strconv.FormatInt(row.ID, 10),
			strconv.FormatFloat(m.Lat, 'f', 6, 64),
			strconv.FormatFloat(m.Lng, 'f', 6, 64),
			text,
		}
		if wide {
			cells = append(cells, row.ImageURL, row.CreatedAt)
		}
		rows = append(rows, cells)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// HistoryTable lays history entries out as a table.
func HistoryTable(entries []markers.Entry) Data {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Label, e.Text, e.ImageURL})
	}
	return Data{
		Headers: []string{Header("when"), Header("text"), Header("image_url")},
		Rows:    rows,
	}
}

// WriteMarkers writes markers in format.
func WriteMarkers(w io.Writer, format Format, ms []markers.Marker, previewWidth int) error {
	if format.IsTable() {
		return NewFormatter(format).Format(w, MarkersTable(ms, format == FormatWide, previewWidth))
	}
	rows := make([]MarkerRow, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, NewMarkerRow(m))
	}
	return NewFormatter(format).Format(w, rows)
}

// WriteHistory writes history entries in format.
func WriteHistory(w io.Writer, format Format, entries []markers.Entry) error {
	if format.IsTable() {
		return NewFormatter(format).Format(w, HistoryTable(entries))
	}
	return NewFormatter(format).Format(w, NewHistoryRows(entries))
}
