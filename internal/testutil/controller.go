package testutil

import (
	"context"
	"sync"

	"github.com/agentstation/utc"

	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// Controller is an in-memory sync controller with call counters. Errors set
// on it are returned by the matching operation until cleared.
type Controller struct {
	mu sync.Mutex

	markers []markers.Marker
	updates map[markers.ID][]markers.Update
	nextID  markers.ID
	nextUpd int64

	FetchMarkersErr error
	CreateErr       error
	FetchUpdatesErr error
	PostErr         error

	calls map[string]int
}

// NewController returns a fake seeded with ms.
func NewController(ms ...markers.Marker) *Controller {
	c := &Controller{
		updates: make(map[markers.ID][]markers.Update),
		calls:   make(map[string]int),
		nextID:  1,
		nextUpd: 1,
	}
	for _, m := range ms {
		c.markers = append(c.markers, m)
		if m.ID >= c.nextID {
			c.nextID = m.ID + 1
		}
	}
	return c
}

// AddUpdate appends an update to the marker's history.
func (c *Controller) AddUpdate(id markers.ID, text string) markers.Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appendUpdate(id, text, "")
}

// Calls returns how often op was invoked. op is the method name.
func (c *Controller) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

func (c *Controller) record(op string) {
	c.mu.Lock()
	c.calls[op]++
	c.mu.Unlock()
}

// FetchMarkers implements the controller contract.
func (c *Controller) FetchMarkers(ctx context.Context) ([]markers.Marker, error) {
	c.record("FetchMarkers")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FetchMarkersErr != nil {
		return nil, c.FetchMarkersErr
	}
	return append([]markers.Marker(nil), c.markers...), nil
}

// CreateMarker implements the controller contract.
func (c *Controller) CreateMarker(ctx context.Context, payload markers.CreatePayload) (markers.Marker, error) {
	c.record("CreateMarker")
	if err := ctx.Err(); err != nil {
		return markers.Marker{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CreateErr != nil {
		return markers.Marker{}, c.CreateErr
	}
	m := markers.Marker{
		ID:   c.nextID,
		Lat:  payload.Coordinate.Lat,
		Lng:  payload.Coordinate.Lng,
		Text: payload.Text,
	}
	if payload.Image != nil {
		m.ImageURL = "/uploads/" + payload.Image.Filename
	}
	c.nextID++
	c.markers = append(c.markers, m)
	return m, nil
}

// FetchUpdates implements the controller contract.
func (c *Controller) FetchUpdates(ctx context.Context, id markers.ID) ([]markers.Update, error) {
	c.record("FetchUpdates")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FetchUpdatesErr != nil {
		return nil, c.FetchUpdatesErr
	}
	return append([]markers.Update(nil), c.updates[id]...), nil
}

// PostUpdate implements the controller contract.
func (c *Controller) PostUpdate(ctx context.Context, id markers.ID, text string, image *markers.Image) (markers.Update, error) {
	c.record("PostUpdate")
	if (markers.UpdatePayload{Text: text, Image: image}).Empty() {
		return markers.Update{}, errors.ErrEmptyUpdatePayload
	}
	if err := ctx.Err(); err != nil {
		return markers.Update{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PostErr != nil {
		return markers.Update{}, c.PostErr
	}
	imageURL := ""
	if image != nil {
		imageURL = "/uploads/" + image.Filename
	}
	return c.appendUpdate(id, text, imageURL), nil
}

func (c *Controller) appendUpdate(id markers.ID, text, imageURL string) markers.Update {
	u := markers.Update{
		ID:        c.nextUpd,
		MarkerID:  id,
		Text:      text,
		ImageURL:  imageURL,
		UpdatedAt: utc.Now(),
	}
	c.nextUpd++
	c.updates[id] = append(c.updates[id], u)
	return u
}
