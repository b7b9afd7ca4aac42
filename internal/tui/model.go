// Package tui is the interactive map browser. The bubbletea Update loop is
// the only goroutine that touches the marker store, the pin set, the create
// form and the history overlay; network calls run as commands and their
// results come back as messages.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentstation/mapnotes/internal/createform"
	"github.com/agentstation/mapnotes/internal/mapbinding"
	"github.com/agentstation/mapnotes/internal/notify"
	"github.com/agentstation/mapnotes/internal/overlay"
	"github.com/agentstation/mapnotes/internal/store"
	"github.com/agentstation/mapnotes/internal/syncer"
	"github.com/agentstation/mapnotes/pkg/constants"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/logging"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// Rows used by the header, status and help lines around the map.
const (
	headerHeight = 1
	footerHeight = 2
)

// markersLoadedMsg carries the result of a full marker fetch. Only the
// result of the latest load is applied.
type markersLoadedMsg struct {
	seq     int
	markers []markers.Marker
	err     error
}

// noticeExpiredMsg clears the notice with the same sequence number.
type noticeExpiredMsg struct {
	seq int
}

// Model is the root bubbletea model of the map browser.
type Model struct {
	ctrl    syncer.Controller
	store   *store.Store
	widget  *MapWidget
	binding *mapbinding.Binding
	form    *createform.Form
	overlay *overlay.Overlay

	keys   KeyMap
	styles styles

	text       textinput.Model
	image      textinput.Model
	focusImage bool

	cursor  markers.Pixel
	pinIdx  int
	width   int
	height  int
	loading bool
	loadSeq int
	label   string

	notice    *notify.Notice
	noticeSeq int
	noticeTTL time.Duration

	// pending collects the command produced by a binding callback.
	pending tea.Cmd
}

// Option configures a Model.
type Option func(*Model)

// WithNoticeDuration sets how long notices stay visible. Zero keeps them
// until replaced.
func WithNoticeDuration(d time.Duration) Option {
	return func(m *Model) { m.noticeTTL = d }
}

// WithPreviewWidth sets the pin preview width.
func WithPreviewWidth(width int) Option {
	return func(m *Model) {
		m.binding = mapbinding.New(m.widget, mapbinding.WithPreviewWidth(width))
	}
}

// WithCenter sets the initial map center.
func WithCenter(c markers.Coordinate) Option {
	return func(m *Model) { m.widget.CenterOn(c) }
}

// WithTheme replaces the default palette.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.styles = newStyles(t) }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// WithLabel sets the text shown in the header, usually the server URL.
func WithLabel(label string) Option {
	return func(m *Model) { m.label = label }
}

// New builds the browser model on top of ctrl.
func New(ctrl syncer.Controller, opts ...Option) *Model {
	widget := NewMapWidget(
		markers.Coordinate{Lat: constants.DefaultCenterLat, Lng: constants.DefaultCenterLng},
		constants.DefaultSpanDegrees,
	)

	text := textinput.New()
	text.Prompt = "text  › "
	text.Placeholder = "description"
	image := textinput.New()
	image.Prompt = "image › "
	image.Placeholder = "path to image (optional)"
	text.Cursor.SetMode(cursor.CursorStatic)
	image.Cursor.SetMode(cursor.CursorStatic)

	m := &Model{
		ctrl:      ctrl,
		store:     store.New(ctrl),
		widget:    widget,
		binding:   mapbinding.New(widget),
		form:      createform.New(ctrl),
		overlay:   overlay.New(ctrl),
		keys:      DefaultKeyMap,
		styles:    newStyles(DefaultTheme),
		text:      text,
		image:     image,
		noticeTTL: constants.NoticeDuration,
		width:     80,
		height:    24,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.bind()
	m.resize(m.width, m.height)
	w, h := m.widget.Size()
	m.cursor = markers.Pixel{X: w / 2, Y: h / 2}
	return m
}

// bind routes map gestures into the form and the overlay.
func (m *Model) bind() {
	m.binding.OnInspect(func(mk markers.Marker) {
		m.form.Cancel()
		m.resetInputs()
		m.pending = tea.Batch(m.overlay.Open(mk), m.text.Focus())
	})
	m.binding.OnMapClick(func(c markers.Coordinate, p markers.Pixel) {
		if !m.form.Open(c, p) {
			m.pending = m.notify(notify.Info("A marker is still being created"))
			return
		}
		m.resetInputs()
		m.pending = m.text.Focus()
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadMarkers()
}

// loadMarkers starts a full fetch. Any load still in flight becomes stale.
func (m *Model) loadMarkers() tea.Cmd {
	m.loadSeq++
	m.loading = true
	ctrl, seq := m.ctrl, m.loadSeq
	return func() tea.Msg {
		ctx := logging.WithComponent(context.Background(), "tui")
		ms, err := ctrl.FetchMarkers(ctx)
		return markersLoadedMsg{seq: seq, markers: ms, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case markersLoadedMsg:
		return m, m.handleMarkersLoaded(msg)

	case createform.CreatedMsg, createform.FailedMsg:
		return m, m.handleCreateResult(msg)

	case overlay.LoadedMsg, overlay.PostedMsg:
		return m, m.handleOverlayResult(msg)

	case noticeExpiredMsg:
		if m.notice != nil && msg.seq == m.noticeSeq {
			m.notice = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

// handleCreateResult adds a created marker as a single pin. The inputs are
// only reset when they still belong to the form; after a cancel they may
// hold an overlay draft.
func (m *Model) handleCreateResult(msg tea.Msg) tea.Cmd {
	owned := m.form.Visible()
	out, _ := m.form.Update(msg)
	if out.Err != nil {
		return m.notify(notify.FromError("Create marker", out.Err))
	}
	m.store.Add(*out.Created)
	m.binding.Add(*out.Created)
	if owned {
		m.resetInputs()
	}
	cmds := []tea.Cmd{m.notify(notify.Success("Marker #%d created", out.Created.ID))}
	if m.loading {
		// A fetch issued before the creation would drop the new marker.
		cmds = append(cmds, m.loadMarkers())
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleMarkersLoaded(msg markersLoadedMsg) tea.Cmd {
	if msg.seq != m.loadSeq {
		logging.Debug().Int("seq", msg.seq).Int("latest", m.loadSeq).Msg("Dropping stale marker load")
		return nil
	}
	m.loading = false
	m.binding.ClearPins()
	if msg.err != nil {
		// The store kept its previous set; put those pins back.
		m.binding.RenderAll(m.store.List())
		return m.notify(notify.FromError("Load markers", msg.err))
	}
	m.store.Replace(msg.markers)
	m.binding.RenderAll(m.store.List())
	logging.Debug().Int("count", m.store.Len()).Msg("Pins rendered")
	return nil
}

func (m *Model) handleOverlayResult(msg tea.Msg) tea.Cmd {
	out, _ := m.overlay.Update(msg)
	switch {
	case out.Stale:
		return nil
	case out.FetchErr != nil:
		return m.notify(notify.FromError("Load history", out.FetchErr))
	case out.SubmitErr != nil:
		return m.notify(notify.FromError("Post update", out.SubmitErr))
	case out.Posted != nil:
		m.resetInputs()
		m.binding.ClearPins()
		return tea.Batch(
			m.notify(notify.Success("Update posted to marker #%d", out.Posted.MarkerID)),
			m.loadMarkers(),
		)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	switch {
	case m.overlay.IsOpen():
		return m.handleOverlayKeys(msg)
	case m.form.Visible():
		return m.handleFormKeys(msg)
	}
	return m.handleMapKeys(msg)
}

func (m *Model) handleOverlayKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.overlay.Cancel()
		m.resetInputs()
		return nil
	case key.Matches(msg, m.keys.NextField):
		return m.toggleField()
	case key.Matches(msg, m.keys.Submit):
		cmd, err := m.overlay.Submit(m.text.Value(), m.image.Value())
		if err != nil {
			if errors.Is(err, errors.ErrBusy) || errors.Is(err, overlay.ErrNotOpen) {
				return nil
			}
			return m.notify(notify.FromError("Post update", err))
		}
		return cmd
	}
	return m.updateInput(msg)
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.form.Cancel()
		m.resetInputs()
		return nil
	case key.Matches(msg, m.keys.NextField):
		return m.toggleField()
	case key.Matches(msg, m.keys.Submit):
		m.form.SetText(m.text.Value())
		m.form.SetImagePath(m.image.Value())
		return m.form.Submit()
	}
	return m.updateInput(msg)
}

func (m *Model) handleMapKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.PanUp):
		m.widget.Pan(0, -0.25)
	case key.Matches(msg, m.keys.PanDown):
		m.widget.Pan(0, 0.25)
	case key.Matches(msg, m.keys.PanLeft):
		m.widget.Pan(-0.25, 0)
	case key.Matches(msg, m.keys.PanRight):
		m.widget.Pan(0.25, 0)
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoomAtCursor(0.5)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoomAtCursor(2)
	case key.Matches(msg, m.keys.NextPin):
		m.cyclePin(1)
	case key.Matches(msg, m.keys.PrevPin):
		m.cyclePin(-1)
	case key.Matches(msg, m.keys.Reload):
		return m.loadMarkers()
	case key.Matches(msg, m.keys.Select):
		return m.activate(m.cursor)
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.overlay.IsOpen() || m.form.Visible() {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.widget.Zoom(0.8)
	case tea.MouseButtonWheelDown:
		m.widget.Zoom(1.25)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		p := markers.Pixel{X: msg.X, Y: msg.Y - headerHeight}
		if !m.widget.InView(p) {
			return nil
		}
		m.cursor = p
		return m.activate(p)
	}
	return nil
}

// activate clicks the map at p: a pin there is inspected, an empty cell
// opens the create form.
func (m *Model) activate(p markers.Pixel) tea.Cmd {
	m.pending = nil
	if ids := m.widget.PinsAt(p); len(ids) > 0 {
		m.binding.PinClicked(ids[0])
	} else {
		m.binding.MapClicked(m.widget.Unproject(p))
	}
	cmd := m.pending
	m.pending = nil
	return cmd
}

func (m *Model) moveCursor(dx, dy int) {
	next := markers.Pixel{X: m.cursor.X + dx, Y: m.cursor.Y + dy}
	if m.widget.InView(next) {
		m.cursor = next
		return
	}
	w, h := m.widget.Size()
	m.widget.Pan(float64(dx)/float64(w), float64(dy)/float64(h))
}

func (m *Model) zoomAtCursor(factor float64) {
	at := m.widget.Unproject(m.cursor)
	m.widget.Zoom(factor)
	m.widget.CenterOn(at)
	w, h := m.widget.Size()
	m.cursor = markers.Pixel{X: w / 2, Y: h / 2}
}

// cyclePin moves the cursor to the next pin, centering the map on it when
// it is off screen.
func (m *Model) cyclePin(step int) {
	pins := m.binding.Pins()
	if len(pins) == 0 {
		return
	}
	m.pinIdx = ((m.pinIdx+step)%len(pins) + len(pins)) % len(pins)
	pin := pins[m.pinIdx]
	p := m.widget.Project(pin.Coordinate)
	if !m.widget.InView(p) {
		m.widget.CenterOn(pin.Coordinate)
		p = m.widget.Project(pin.Coordinate)
	}
	m.cursor = p
}

func (m *Model) toggleField() tea.Cmd {
	m.focusImage = !m.focusImage
	if m.focusImage {
		m.text.Blur()
		return m.image.Focus()
	}
	m.image.Blur()
	return m.text.Focus()
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	if m.focusImage {
		m.image, cmd = m.image.Update(msg)
	} else {
		m.text, cmd = m.text.Update(msg)
	}
	return cmd
}

func (m *Model) resetInputs() {
	m.text.Reset()
	m.image.Reset()
	m.text.Blur()
	m.image.Blur()
	m.focusImage = false
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.widget.Resize(width, height-headerHeight-footerHeight)
	w, h := m.widget.Size()
	m.cursor = markers.Pixel{X: min(max(m.cursor.X, 0), w-1), Y: min(max(m.cursor.Y, 0), h-1)}
	m.text.Width = max(10, min(50, width-20))
	m.image.Width = m.text.Width
}

// notify shows n and schedules its removal.
func (m *Model) notify(n notify.Notice) tea.Cmd {
	m.noticeSeq++
	m.notice = &n
	if m.noticeTTL <= 0 {
		return nil
	}
	seq := m.noticeSeq
	return tea.Tick(m.noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// Store exposes the marker store for inspection.
func (m *Model) Store() *store.Store { return m.store }

// Binding exposes the pin binding for inspection.
func (m *Model) Binding() *mapbinding.Binding { return m.binding }

// Overlay exposes the history overlay for inspection.
func (m *Model) Overlay() *overlay.Overlay { return m.overlay }

// Form exposes the create form for inspection.
func (m *Model) Form() *createform.Form { return m.form }

// Widget exposes the map widget.
func (m *Model) Widget() *MapWidget { return m.widget }

// Notice returns the notice currently shown, if any.
func (m *Model) Notice() *notify.Notice { return m.notice }

// Cursor returns the cursor position on the map.
func (m *Model) Cursor() markers.Pixel { return m.cursor }
