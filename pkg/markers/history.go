package markers

import (
	"github.com/agentstation/mapnotes/pkg/constants"
)

// Entry is one row of a marker's rendered history.
type Entry struct {
	Initial  bool   `json:"initial" yaml:"initial"`
	Label    string `json:"label" yaml:"label"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// InitialEntry renders the marker's own state as the synthetic first entry.
// It needs no network round trip.
func InitialEntry(m Marker) Entry {
	return Entry{
		Initial:  true,
		Label:    constants.InitialEntryLabel,
		Text:     m.Text,
		ImageURL: m.ImageURL,
	}
}

// UpdateEntry renders a fetched update.
func UpdateEntry(u Update) Entry {
	label := ""
	if !u.UpdatedAt.IsZero() {
		label = u.UpdatedAt.Format(constants.UpdatedAtLayout)
	}
	return Entry{
		Label:    label,
		Text:     u.Text,
		ImageURL: u.ImageURL,
	}
}

// History returns the synthetic initial entry followed by every update in the
// order given. The backend returns updates oldest first and that order is kept.
func History(m Marker, updates []Update) []Entry {
	entries := make([]Entry, 0, len(updates)+1)
	entries = append(entries, InitialEntry(m))
	for _, u := range updates {
		entries = append(entries, UpdateEntry(u))
	}
	return entries
}
