// Package syncer is the request/response façade between the mapnotes
// components and the marker backend. Each operation is a single round trip
// with no retry; retry is always a fresh user action.
package syncer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/agentstation/mapnotes/internal/transport"
	"github.com/agentstation/mapnotes/pkg/constants"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/logging"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// Controller is the four-operation backend contract used by the store, the
// forms and the history overlay.
type Controller interface {
	FetchMarkers(ctx context.Context) ([]markers.Marker, error)
	CreateMarker(ctx context.Context, payload markers.CreatePayload) (markers.Marker, error)
	FetchUpdates(ctx context.Context, id markers.ID) ([]markers.Update, error)
	PostUpdate(ctx context.Context, id markers.ID, text string, image *markers.Image) (markers.Update, error)
}

// HTTP implements Controller over the backend's HTTP contract.
type HTTP struct {
	client *transport.Client
}

var _ Controller = (*HTTP)(nil)

// New returns a Controller backed by client.
func New(client *transport.Client) *HTTP {
	return &HTTP{client: client}
}

// FetchMarkers lists every marker.
func (h *HTTP) FetchMarkers(ctx context.Context) ([]markers.Marker, error) {
	ctx = logging.WithOperation(ctx, "fetch markers")

	var wire []wireMarker
	if err := h.client.GetJSON(ctx, "fetch markers", constants.MarkersPath, &wire); err != nil {
		return nil, err
	}

	out := make([]markers.Marker, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.marker(ctx, h.client))
	}
	logging.FromContext(ctx).Debug().Int("count", len(out)).Msg("Fetched markers")
	return out, nil
}

// CreateMarker creates a marker at the payload's coordinate.
func (h *HTTP) CreateMarker(ctx context.Context, payload markers.CreatePayload) (markers.Marker, error) {
	ctx = logging.WithOperation(ctx, "create marker")

	if !payload.Coordinate.Valid() {
		return markers.Marker{}, errors.NewValidationError("coordinate", payload.Coordinate, "latitude or longitude out of range")
	}

	form := transport.NewForm().
		Field("lat", formatFloat(payload.Coordinate.Lat)).
		Field("lng", formatFloat(payload.Coordinate.Lng))
	if payload.Text != "" {
		form.Field("text", payload.Text)
	}
	if payload.Image != nil {
		form.File("image", payload.Image.Filename, payload.Image.Content)
	}

	var wire wireMarker
	if err := h.client.PostMultipart(ctx, "create marker", constants.MarkersPath, form, &wire); err != nil {
		return markers.Marker{}, err
	}
	if wire.ID == 0 {
		return markers.Marker{}, errors.WrapParse("json", "POST "+constants.MarkersPath, errors.New("response has no marker id"))
	}

	m := wire.marker(ctx, h.client)
	ctx = logging.WithMarker(ctx, int64(m.ID))
	logging.FromContext(ctx).Debug().Msg("Created marker")
	return m, nil
}

// FetchUpdates lists a marker's updates in server order.
func (h *HTTP) FetchUpdates(ctx context.Context, id markers.ID) ([]markers.Update, error) {
	ctx = logging.WithMarker(logging.WithOperation(ctx, "fetch updates"), int64(id))

	var wire []wireUpdate
	if err := h.client.GetJSON(ctx, "fetch updates", updatesPath(id), &wire); err != nil {
		return nil, err
	}

	out := make([]markers.Update, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.update(ctx, h.client, id))
	}
	logging.FromContext(ctx).Debug().Int("count", len(out)).Msg("Fetched updates")
	return out, nil
}

// PostUpdate appends an update to a marker. A payload with neither text nor
// image fails with errors.ErrEmptyUpdatePayload before any request is made.
func (h *HTTP) PostUpdate(ctx context.Context, id markers.ID, text string, image *markers.Image) (markers.Update, error) {
	ctx = logging.WithMarker(logging.WithOperation(ctx, "post update"), int64(id))

	if (markers.UpdatePayload{Text: text, Image: image}).Empty() {
		return markers.Update{}, errors.ErrEmptyUpdatePayload
	}

	form := transport.NewForm()
	if text != "" {
		form.Field("text", text)
	}
	if image != nil {
		form.File("image", image.Filename, image.Content)
	}

	var wire wireUpdate
	if err := h.client.PostMultipart(ctx, "post update", updatesPath(id), form, &wire); err != nil {
		return markers.Update{}, err
	}

	u := wire.update(ctx, h.client, id)
	logging.FromContext(ctx).Debug().Int64("update_id", u.ID).Msg("Posted update")
	return u, nil
}

func updatesPath(id markers.ID) string {
	return fmt.Sprintf(constants.UpdatesPathFormat, int64(id))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
