package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// splice replaces a rectangle of view with box, whose top-left corner is at
// (x, y). ANSI sequences on either side of the box are preserved.
func splice(view, box string, x, y int) string {
	boxLines := strings.Split(box, "\n")
	if len(boxLines) == 0 {
		return view
	}
	boxWidth := 0
	for _, line := range boxLines {
		boxWidth = max(boxWidth, ansi.StringWidth(line))
	}

	lines := strings.Split(view, "\n")
	for i, boxLine := range boxLines {
		row := y + i
		if row < 0 || row >= len(lines) {
			continue
		}
		line := lines[row]
		lineWidth := ansi.StringWidth(line)

		var b strings.Builder
		if x > 0 {
			prefix := ansi.Truncate(line, x, "")
			b.WriteString(prefix)
			if pad := x - ansi.StringWidth(prefix); pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		b.WriteString("\x1b[0m")
		b.WriteString(boxLine)
		if pad := boxWidth - ansi.StringWidth(boxLine); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString("\x1b[0m")
		if end := x + boxWidth; end < lineWidth {
			b.WriteString(ansi.TruncateLeft(line, end, ""))
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// anchorBox places a box of the given size next to a point of interest,
// flipping to the other side when it would leave the screen.
func anchorBox(px, py, boxW, boxH, screenW, screenH int) (x, y int) {
	x, y = px+2, py+1
	if x+boxW > screenW {
		x = px - boxW - 1
	}
	if y+boxH > screenH {
		y = py - boxH
	}
	return max(0, min(x, screenW-boxW)), max(0, min(y, screenH-boxH))
}
