package tui

import (
	"math"
	"strings"

	"github.com/agentstation/mapnotes/internal/mapbinding"
	"github.com/agentstation/mapnotes/pkg/constants"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// cellAspect is how many terminal columns make up one row's worth of
// distance. Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

// MapWidget is a character-cell map. It uses an equirectangular projection
// around a movable center; tiles are out of scope, so the background is a
// one-degree graticule.
type MapWidget struct {
	width, height int
	center        markers.Coordinate
	span          float64 // latitude degrees from top to bottom row

	pins  map[markers.ID]mapbinding.Pin
	order []markers.ID
}

var _ mapbinding.Widget = (*MapWidget)(nil)

// NewMapWidget returns a widget centred on center.
func NewMapWidget(center markers.Coordinate, span float64) *MapWidget {
	if span <= 0 {
		span = constants.DefaultSpanDegrees
	}
	return &MapWidget{
		width:  80,
		height: 20,
		center: center,
		span:   span,
		pins:   make(map[markers.ID]mapbinding.Pin),
	}
}

// AddPin implements mapbinding.Widget.
func (w *MapWidget) AddPin(pin mapbinding.Pin) {
	if _, ok := w.pins[pin.ID]; !ok {
		w.order = append(w.order, pin.ID)
	}
	w.pins[pin.ID] = pin
}

// RemovePin implements mapbinding.Widget.
func (w *MapWidget) RemovePin(id markers.ID) {
	if _, ok := w.pins[id]; !ok {
		return
	}
	delete(w.pins, id)
	for i, other := range w.order {
		if other == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Project implements mapbinding.Widget.
func (w *MapWidget) Project(c markers.Coordinate) markers.Pixel {
	latSpan, lngSpan := w.spans()
	top := w.center.Lat + latSpan/2
	left := w.center.Lng - lngSpan/2
	x := (c.Lng - left) / lngSpan * float64(w.width-1)
	y := (top - c.Lat) / latSpan * float64(w.height-1)
	return markers.Pixel{X: int(math.Round(x)), Y: int(math.Round(y))}
}

// Unproject is the inverse of Project for a cell.
func (w *MapWidget) Unproject(p markers.Pixel) markers.Coordinate {
	latSpan, lngSpan := w.spans()
	top := w.center.Lat + latSpan/2
	left := w.center.Lng - lngSpan/2
	lat := top - float64(p.Y)/float64(max(w.height-1, 1))*latSpan
	lng := left + float64(p.X)/float64(max(w.width-1, 1))*lngSpan
	return markers.Coordinate{Lat: clamp(lat, -90, 90), Lng: wrapLng(lng)}
}

// spans returns the latitude and longitude degrees visible.
func (w *MapWidget) spans() (lat, lng float64) {
	lat = w.span
	lng = w.span * float64(w.width) / (float64(max(w.height, 1)) * cellAspect)
	return lat, lng
}

// Resize sets the viewport size in cells.
func (w *MapWidget) Resize(width, height int) {
	w.width = max(width, 2)
	w.height = max(height, 2)
}

// Size returns the viewport size in cells.
func (w *MapWidget) Size() (width, height int) {
	return w.width, w.height
}

// Center returns the coordinate at the middle of the viewport.
func (w *MapWidget) Center() markers.Coordinate {
	return w.center
}

// CenterOn moves the viewport so c is in the middle.
func (w *MapWidget) CenterOn(c markers.Coordinate) {
	w.center = markers.Coordinate{Lat: clamp(c.Lat, -90, 90), Lng: wrapLng(c.Lng)}
}

// Pan moves the viewport by a fraction of its size.
func (w *MapWidget) Pan(dx, dy float64) {
	latSpan, lngSpan := w.spans()
	w.CenterOn(markers.Coordinate{
		Lat: w.center.Lat - dy*latSpan,
		Lng: w.center.Lng + dx*lngSpan,
	})
}

// Zoom scales the visible span. factor < 1 zooms in.
func (w *MapWidget) Zoom(factor float64) {
	w.span = clamp(w.span*factor, 0.01, 180)
}

// InView reports whether p is inside the viewport.
func (w *MapWidget) InView(p markers.Pixel) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w.width && p.Y < w.height
}

// PinsAt returns the pins drawn at p, in insertion order.
func (w *MapWidget) PinsAt(p markers.Pixel) []markers.ID {
	var ids []markers.ID
	for _, id := range w.order {
		if w.Project(w.pins[id].Coordinate) == p {
			ids = append(ids, id)
		}
	}
	return ids
}

// PinIDs returns every pin id in insertion order.
func (w *MapWidget) PinIDs() []markers.ID {
	return append([]markers.ID(nil), w.order...)
}

// Len returns the number of pins shown.
func (w *MapWidget) Len() int {
	return len(w.pins)
}

// Cell kinds produced by Grid.
const (
	cellEmpty = iota
	cellGraticule
	cellPin
	cellCluster
)

// Grid rasterizes the viewport into cell kinds, row-major.
func (w *MapWidget) Grid() [][]int {
	grid := make([][]int, w.height)
	for y := range grid {
		grid[y] = make([]int, w.width)
	}

	latSpan, lngSpan := w.spans()
	latStep := latSpan / float64(max(w.height-1, 1))
	lngStep := lngSpan / float64(max(w.width-1, 1))
	for y := 0; y < w.height; y++ {
		lat := w.Unproject(markers.Pixel{Y: y}).Lat
		latLine := crossesInteger(lat, latStep)
		for x := 0; x < w.width; x++ {
			lng := w.Unproject(markers.Pixel{X: x}).Lng
			if latLine || crossesInteger(lng, lngStep) {
				grid[y][x] = cellGraticule
			}
		}
	}

	for _, id := range w.order {
		p := w.Project(w.pins[id].Coordinate)
		if !w.InView(p) {
			continue
		}
		if grid[p.Y][p.X] == cellPin || grid[p.Y][p.X] == cellCluster {
			grid[p.Y][p.X] = cellCluster
		} else {
			grid[p.Y][p.X] = cellPin
		}
	}
	return grid
}

// String renders the grid without styling. Useful in tests and logs.
func (w *MapWidget) String() string {
	var b strings.Builder
	for y, row := range w.Grid() {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range row {
			b.WriteRune(glyph(cell))
		}
	}
	return b.String()
}

func glyph(cell int) rune {
	switch cell {
	case cellGraticule:
		return '·'
	case cellPin:
		return '●'
	case cellCluster:
		return '◉'
	}
	return ' '
}

// crossesInteger reports whether a whole degree lies within half a step of v.
func crossesInteger(v, step float64) bool {
	return math.Abs(v-math.Round(v)) < step/2
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func wrapLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
