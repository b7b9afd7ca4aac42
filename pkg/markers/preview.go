package markers

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/agentstation/mapnotes/pkg/constants"
)

// Preview is the short affordance attached to a pin.
type Preview struct {
	Text      string
	Thumbnail string
}

// NewPreview builds a pin preview whose text fits in width terminal cells.
// Descriptions are often CJK, so truncation counts display width, not bytes.
func NewPreview(m Marker, width int) Preview {
	if width <= 0 {
		width = constants.DefaultPreviewWidth
	}
	return Preview{
		Text:      Truncate(m.Text, width),
		Thumbnail: strings.TrimSpace(m.ImageURL),
	}
}

// Truncate collapses whitespace and cuts s to at most width cells.
func Truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, constants.PreviewEllipsis)
}
