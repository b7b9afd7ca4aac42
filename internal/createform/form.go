// Package createform is the inline form that creates a marker at a clicked
// map position.
package createform

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/logging"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// Creator is the slice of the sync controller the form needs.
type Creator interface {
	CreateMarker(ctx context.Context, payload markers.CreatePayload) (markers.Marker, error)
}

// CreatedMsg reports a successful creation.
type CreatedMsg struct {
	Marker markers.Marker
}

// FailedMsg reports a failed creation.
type FailedMsg struct {
	Err error
}

// Outcome is what Update hands back to the caller once a submission settles.
// Exactly one of Created and Err is set.
type Outcome struct {
	Created *markers.Marker
	Err     error
}

// Form is the create form state machine. It is only touched from the UI
// loop; the network call runs inside the command returned by Submit.
type Form struct {
	creator Creator

	visible    bool
	anchor     markers.Pixel
	pending    markers.Coordinate
	text       string
	imagePath  string
	submitting bool
	lastErr    error
}

// New returns a hidden form that creates markers through creator.
func New(creator Creator) *Form {
	return &Form{creator: creator}
}

// Open shows the form anchored at pixel for a marker at coord. Fields typed
// into a previous, cancelled form are discarded. It reports false, leaving
// the form hidden, while an earlier creation is still in flight.
func (f *Form) Open(coord markers.Coordinate, pixel markers.Pixel) bool {
	if f.submitting {
		return false
	}
	f.reset()
	f.visible = true
	f.anchor = pixel
	f.pending = coord
	return true
}

// Cancel hides the form without side effects.
func (f *Form) Cancel() {
	f.visible = false
	f.lastErr = nil
}

// SetText sets the description.
func (f *Form) SetText(text string) {
	f.text = text
}

// SetImagePath sets the path of the image to attach.
func (f *Form) SetImagePath(path string) {
	f.imagePath = path
}

// Submit packages the form and returns the command that performs the
// creation. It returns nil when the form is hidden or already submitting.
func (f *Form) Submit() tea.Cmd {
	if !f.visible || f.submitting {
		return nil
	}
	f.submitting = true
	f.lastErr = nil

	creator := f.creator
	coord, text, imagePath := f.pending, f.text, f.imagePath
	return func() tea.Msg {
		ctx := logging.WithComponent(context.Background(), "createform")
		image, err := markers.LoadImage(imagePath)
		if err != nil {
			return FailedMsg{Err: err}
		}
		m, err := creator.CreateMarker(ctx, markers.CreatePayload{
			Coordinate: coord,
			Text:       text,
			Image:      image,
		})
		if err != nil {
			return FailedMsg{Err: err}
		}
		return CreatedMsg{Marker: m}
	}
}

// Update applies a submission result. The bool reports whether msg belonged
// to the form.
func (f *Form) Update(msg tea.Msg) (Outcome, bool) {
	switch msg := msg.(type) {
	case CreatedMsg:
		f.submitting = false
		f.visible = false
		f.reset()
		m := msg.Marker
		return Outcome{Created: &m}, true

	case FailedMsg:
		f.submitting = false
		err := msg.Err
		if err == nil {
			err = errors.ErrNetworkFailure
		}
		f.lastErr = err
		logging.Warn().Err(err).Msg("Marker creation failed")
		return Outcome{Err: err}, true
	}
	return Outcome{}, false
}

func (f *Form) reset() {
	f.text = ""
	f.imagePath = ""
	f.lastErr = nil
	f.anchor = markers.Pixel{}
	f.pending = markers.Coordinate{}
}

// Visible reports whether the form is shown.
func (f *Form) Visible() bool { return f.visible }

// Submitting reports whether a creation is in flight.
func (f *Form) Submitting() bool { return f.submitting }

// Anchor returns the viewport position the form is drawn at.
func (f *Form) Anchor() markers.Pixel { return f.anchor }

// Coordinate returns the location the marker will be created at.
func (f *Form) Coordinate() markers.Coordinate { return f.pending }

// Text returns the entered description.
func (f *Form) Text() string { return f.text }

// ImagePath returns the entered image path.
func (f *Form) ImagePath() string { return f.imagePath }

// Err returns the last submission failure, if any.
func (f *Form) Err() error { return f.lastErr }
