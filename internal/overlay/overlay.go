// Package overlay implements the per-marker history view: the marker's own
// content as a synthetic first entry, its updates in server order, and a
// form for appending a new update.
//
// Every open is a session identified by a token. Results of requests issued
// by a session carry its token and are dropped once the session has ended,
// so a slow response can never render into an overlay the user closed.
package overlay

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/logging"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// State is the overlay lifecycle state.
type State int

const (
	Closed State = iota
	Loading
	Ready
	Submitting
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

// ErrNotOpen is returned by Submit when no marker is being inspected.
var ErrNotOpen = errors.New("history overlay is not open")

// Updater is the slice of the sync controller the overlay needs.
type Updater interface {
	FetchUpdates(ctx context.Context, id markers.ID) ([]markers.Update, error)
	PostUpdate(ctx context.Context, id markers.ID, text string, image *markers.Image) (markers.Update, error)
}

// LoadedMsg carries the result of a session's update fetch.
type LoadedMsg struct {
	Token    uint64
	MarkerID markers.ID
	Updates  []markers.Update
	Err      error
}

// PostedMsg carries the result of a session's update submission.
type PostedMsg struct {
	Token    uint64
	MarkerID markers.ID
	Update   markers.Update
	Err      error
}

// Outcome tells the caller what a settled message means for the rest of the
// UI. Stale is set when the message belonged to an ended session and was
// dropped.
type Outcome struct {
	Stale bool

	// FetchErr is set when the history could not be loaded. The overlay is
	// still usable with only the synthetic entry.
	FetchErr error

	// Posted is set after a successful submission. The overlay has closed
	// and the caller is expected to reconcile every pin with the backend.
	Posted *markers.Update

	// SubmitErr is set after a failed submission. The draft is preserved.
	SubmitErr error
}

// Overlay is the history view state machine. It is only touched from the UI
// loop.
type Overlay struct {
	updater Updater

	state   State
	token   uint64
	marker  markers.Marker
	entries []markers.Entry
	cancel  context.CancelFunc

	draftText  string
	draftImage string
	fetchErr   error
	submitErr  error
}

// New returns a closed overlay that talks to updater.
func New(updater Updater) *Overlay {
	return &Overlay{updater: updater}
}

// Open starts a session for m. The synthetic initial entry is available as
// soon as Open returns; the returned command fetches the rest.
func (o *Overlay) Open(m markers.Marker) tea.Cmd {
	o.end()

	o.token++
	o.state = Loading
	o.marker = m
	o.entries = []markers.Entry{markers.InitialEntry(m)}
	o.draftText, o.draftImage = "", ""
	o.fetchErr, o.submitErr = nil, nil

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	ctx = logging.WithMarker(logging.WithComponent(ctx, "overlay"), int64(m.ID))

	token, id, updater := o.token, m.ID, o.updater
	logging.FromContext(ctx).Debug().Uint64("session", token).Msg("History overlay opened")
	return func() tea.Msg {
		updates, err := updater.FetchUpdates(ctx, id)
		return LoadedMsg{Token: token, MarkerID: id, Updates: updates, Err: err}
	}
}

// Submit validates the draft and returns the command that posts it. An
// empty draft fails synchronously with errors.ErrEmptyUpdatePayload and
// issues no request.
func (o *Overlay) Submit(text, imagePath string) (tea.Cmd, error) {
	switch o.state {
	case Closed:
		return nil, ErrNotOpen
	case Loading, Submitting:
		return nil, errors.ErrBusy
	}

	o.draftText, o.draftImage = text, imagePath
	if strings.TrimSpace(text) == "" && strings.TrimSpace(imagePath) == "" {
		o.submitErr = errors.ErrEmptyUpdatePayload
		return nil, errors.ErrEmptyUpdatePayload
	}

	o.state = Submitting
	o.submitErr = nil

	ctx, cancel := context.WithCancel(context.Background())
	previous := o.cancel
	o.cancel = func() {
		cancel()
		if previous != nil {
			previous()
		}
	}
	ctx = logging.WithMarker(logging.WithComponent(ctx, "overlay"), int64(o.marker.ID))

	token, id, updater := o.token, o.marker.ID, o.updater
	return func() tea.Msg {
		image, err := markers.LoadImage(imagePath)
		if err != nil {
			return PostedMsg{Token: token, MarkerID: id, Err: err}
		}
		u, err := updater.PostUpdate(ctx, id, text, image)
		return PostedMsg{Token: token, MarkerID: id, Update: u, Err: err}
	}, nil
}

// Cancel closes the overlay from any state and ends the session, so late
// results are ignored.
func (o *Overlay) Cancel() {
	if o.state == Closed {
		return
	}
	o.end()
	logging.Debug().Int64("marker_id", int64(o.marker.ID)).Msg("History overlay cancelled")
}

// Update applies a session message. The bool reports whether msg is an
// overlay message at all.
func (o *Overlay) Update(msg tea.Msg) (Outcome, bool) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Token != o.token || o.state != Loading {
			return Outcome{Stale: true}, true
		}
		o.state = Ready
		if msg.Err != nil {
			o.fetchErr = msg.Err
			logging.Warn().Err(msg.Err).Int64("marker_id", int64(msg.MarkerID)).Msg("History fetch failed")
			return Outcome{FetchErr: msg.Err}, true
		}
		for _, u := range msg.Updates {
			o.entries = append(o.entries, markers.UpdateEntry(u))
		}
		return Outcome{}, true

	case PostedMsg:
		if msg.Token != o.token || o.state != Submitting {
			return Outcome{Stale: true}, true
		}
		if msg.Err != nil {
			o.state = Ready
			o.submitErr = msg.Err
			logging.Warn().Err(msg.Err).Int64("marker_id", int64(msg.MarkerID)).Msg("Update submission failed")
			return Outcome{SubmitErr: msg.Err}, true
		}
		o.end()
		u := msg.Update
		return Outcome{Posted: &u}, true
	}
	return Outcome{}, false
}

// end closes the current session, if any.
func (o *Overlay) end() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	if o.state != Closed {
		o.token++
	}
	o.state = Closed
	o.entries = nil
	o.draftText, o.draftImage = "", ""
}

// State returns the lifecycle state.
func (o *Overlay) State() State { return o.state }

// IsOpen reports whether the overlay is showing.
func (o *Overlay) IsOpen() bool { return o.state != Closed }

// Token returns the current session token.
func (o *Overlay) Token() uint64 { return o.token }

// Marker returns the marker being inspected.
func (o *Overlay) Marker() markers.Marker { return o.marker }

// Entries returns the history rows in display order.
func (o *Overlay) Entries() []markers.Entry {
	return append([]markers.Entry(nil), o.entries...)
}

// Draft returns the text and image path of the last submission attempt.
func (o *Overlay) Draft() (text, imagePath string) { return o.draftText, o.draftImage }

// FetchErr returns the error that left the history incomplete, if any.
func (o *Overlay) FetchErr() error { return o.fetchErr }

// SubmitErr returns the last submission failure, if any.
func (o *Overlay) SubmitErr() error { return o.submitErr }
