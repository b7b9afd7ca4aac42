package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentstation/mapnotes/internal/overlay"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// View implements tea.Model.
func (m *Model) View() string {
	view := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderMap(),
		m.renderStatus(),
		m.renderHelp(),
	)

	switch {
	case m.overlay.IsOpen():
		box := m.renderOverlay()
		x := max(0, (m.width-lipgloss.Width(box))/2)
		y := max(0, (m.height-lipgloss.Height(box))/2)
		view = splice(view, box, x, y)
	case m.form.Visible():
		box := m.renderForm()
		anchor := m.form.Anchor()
		x, y := anchorBox(anchor.X, anchor.Y+headerHeight,
			lipgloss.Width(box), lipgloss.Height(box), m.width, m.height)
		view = splice(view, box, x, y)
	}
	return view
}

func (m *Model) renderHeader() string {
	title := fmt.Sprintf(" mapnotes  %d markers", m.store.Len())
	if m.loading {
		title += "  loading…"
	}
	if m.label != "" {
		title += "  " + m.label
	}
	c := m.widget.Unproject(m.cursor)
	right := c.String() + " "
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap > 0 {
		title += strings.Repeat(" ", gap) + right
	}
	return m.styles.header.Width(m.width).MaxWidth(m.width).Render(title)
}

func (m *Model) renderMap() string {
	grid := m.widget.Grid()
	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x, cell := range row {
			ch := string(glyph(cell))
			switch {
			case x == m.cursor.X && y == m.cursor.Y:
				if cell == cellEmpty || cell == cellGraticule {
					ch = "+"
				}
				b.WriteString(m.styles.cursor.Render(ch))
			case cell == cellPin:
				b.WriteString(m.styles.pin.Render(ch))
			case cell == cellCluster:
				b.WriteString(m.styles.cluster.Render(ch))
			case cell == cellGraticule:
				b.WriteString(m.styles.graticule.Render(ch))
			default:
				b.WriteString(ch)
			}
		}
	}
	return b.String()
}

// renderStatus shows the active notice, or the preview of the pin under the
// cursor.
func (m *Model) renderStatus() string {
	if n := m.notice; n != nil {
		return n.Level.Style().MaxWidth(m.width).Render(n.String())
	}
	ids := m.widget.PinsAt(m.cursor)
	if len(ids) == 0 {
		return m.styles.faint.Render(" enter on an empty cell to add a marker")
	}
	pin, _ := m.binding.Pin(ids[0])
	line := fmt.Sprintf(" #%d %s", pin.ID, pin.Preview)
	if len(ids) > 1 {
		line += fmt.Sprintf("  (+%d more)", len(ids)-1)
	}
	return m.styles.label.MaxWidth(m.width).Render(line)
}

func (m *Model) renderHelp() string {
	var bindings []key.Binding
	switch {
	case m.overlay.IsOpen(), m.form.Visible():
		bindings = []key.Binding{m.keys.Submit, m.keys.NextField, m.keys.Cancel}
	default:
		bindings = []key.Binding{
			m.keys.Up, m.keys.Select, m.keys.NextPin, m.keys.ZoomIn,
			m.keys.ZoomOut, m.keys.PanLeft, m.keys.Reload, m.keys.Quit,
		}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.help.MaxWidth(m.width).Render(" " + strings.Join(parts, " • "))
}

func (m *Model) renderForm() string {
	c := m.form.Coordinate()
	lines := []string{
		m.styles.title.Render("New marker"),
		m.styles.faint.Render(c.String()),
		"",
		m.text.View(),
		m.image.View(),
	}
	switch {
	case m.form.Submitting():
		lines = append(lines, "", m.styles.faint.Render("creating…"))
	case m.form.Err() != nil:
		lines = append(lines, "", m.styles.errorText.Render(m.form.Err().Error()))
	}
	return m.styles.box.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderOverlay() string {
	mk := m.overlay.Marker()
	width := max(30, min(70, m.width-6))

	lines := []string{
		m.styles.title.Render(fmt.Sprintf("Marker #%d", mk.ID)),
		m.styles.faint.Render(mk.Coordinate().String()),
		"",
	}
	for _, e := range m.overlay.Entries() {
		lines = append(lines, m.renderEntry(e, width)...)
	}

	switch m.overlay.State() {
	case overlay.Loading:
		lines = append(lines, m.styles.faint.Render("loading updates…"))
	case overlay.Submitting:
		lines = append(lines, m.styles.faint.Render("posting update…"))
	}
	if err := m.overlay.FetchErr(); err != nil {
		lines = append(lines, m.styles.errorText.Render("updates unavailable"))
	}
	if err := m.overlay.SubmitErr(); err != nil {
		lines = append(lines, m.styles.errorText.Render(err.Error()))
	}

	lines = append(lines, "", m.styles.label.Render("Add update"), m.text.View(), m.image.View())
	return m.styles.box.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderEntry(e markers.Entry, width int) []string {
	out := []string{m.styles.label.Render(e.Label)}
	if e.Text != "" {
		out = append(out, lipgloss.NewStyle().Width(width-4).Render(e.Text))
	}
	if e.ImageURL != "" {
		out = append(out, m.styles.faint.Render("image: "+e.ImageURL))
	}
	return out
}
