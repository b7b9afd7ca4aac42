// Package mapbinding owns the set of pins rendered on a map widget. Nothing
// else adds or removes pins; the widget is only reached through a Binding.
package mapbinding

import (
	"github.com/agentstation/mapnotes/pkg/constants"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// Pin is the presentation handle for one marker.
type Pin struct {
	ID         markers.ID
	Coordinate markers.Coordinate
	Preview    markers.Preview
}

// Widget is a map surface that can show pins and project coordinates onto
// its viewport.
type Widget interface {
	AddPin(pin Pin)
	RemovePin(id markers.ID)
	Project(c markers.Coordinate) markers.Pixel
}

// InspectHandler receives the marker whose pin was clicked.
type InspectHandler func(m markers.Marker)

// MapClickHandler receives a clicked coordinate and its viewport position.
type MapClickHandler func(c markers.Coordinate, p markers.Pixel)

// Binding translates markers into pins and widget gestures into inspect and
// create intents.
type Binding struct {
	widget       Widget
	previewWidth int

	pins    map[markers.ID]Pin
	bound   map[markers.ID]markers.Marker
	order   []markers.ID
	inspect InspectHandler
	click   MapClickHandler
}

// Option configures a Binding.
type Option func(*Binding)

// WithPreviewWidth sets the display width previews are truncated to.
func WithPreviewWidth(width int) Option {
	return func(b *Binding) {
		if width > 0 {
			b.previewWidth = width
		}
	}
}

// New binds to widget.
func New(widget Widget, opts ...Option) *Binding {
	b := &Binding{
		widget:       widget,
		previewWidth: constants.DefaultPreviewWidth,
		pins:         make(map[markers.ID]Pin),
		bound:        make(map[markers.ID]markers.Marker),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RenderAll places one pin per marker.
func (b *Binding) RenderAll(ms []markers.Marker) {
	for _, m := range ms {
		b.Add(m)
	}
}

// Add places a single pin. An existing pin for the same marker is replaced.
func (b *Binding) Add(m markers.Marker) {
	if _, ok := b.pins[m.ID]; ok {
		b.widget.RemovePin(m.ID)
	} else {
		b.order = append(b.order, m.ID)
	}
	pin := Pin{
		ID:         m.ID,
		Coordinate: m.Coordinate(),
		Preview:    markers.NewPreview(m, b.previewWidth),
	}
	b.pins[m.ID] = pin
	b.bound[m.ID] = m
	b.widget.AddPin(pin)
}

// ClearPins removes every rendered pin.
func (b *Binding) ClearPins() {
	for _, id := range b.order {
		b.widget.RemovePin(id)
	}
	b.pins = make(map[markers.ID]Pin)
	b.bound = make(map[markers.ID]markers.Marker)
	b.order = nil
}

// OnInspect registers the pin click handler.
func (b *Binding) OnInspect(h InspectHandler) {
	b.inspect = h
}

// OnMapClick registers the empty-map click handler.
func (b *Binding) OnMapClick(h MapClickHandler) {
	b.click = h
}

// PinClicked routes a click on pin id to the inspect handler. It reports
// false when no such pin is rendered.
func (b *Binding) PinClicked(id markers.ID) bool {
	m, ok := b.bound[id]
	if !ok {
		return false
	}
	if b.inspect != nil {
		b.inspect(m)
	}
	return true
}

// MapClicked routes a click on the map background to the map click handler,
// projecting the coordinate through the widget.
func (b *Binding) MapClicked(c markers.Coordinate) {
	if b.click == nil {
		return
	}
	b.click(c, b.widget.Project(c))
}

// Pins returns the rendered pins in the order they were added.
func (b *Binding) Pins() []Pin {
	out := make([]Pin, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.pins[id])
	}
	return out
}

// Pin returns the rendered pin for id.
func (b *Binding) Pin(id markers.ID) (Pin, bool) {
	p, ok := b.pins[id]
	return p, ok
}

// Len returns the number of rendered pins.
func (b *Binding) Len() int {
	return len(b.pins)
}
