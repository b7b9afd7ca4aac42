// Package mapnotes is a client for a map annotation backend: point markers
// with a description, an optional image and an append-only history of
// updates.
//
// The Client keeps a local cache of markers and applies the same consistency
// policy as the interactive browser: a created marker is added to the cache
// directly, while a posted update triggers a full reload of the marker set.
//
// Example usage:
//
//	client, err := mapnotes.New(mapnotes.WithServerURL("http://localhost:5000"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client.OnMarkerCreated(func(m markers.Marker) {
//	    log.Printf("created marker %d", m.ID)
//	})
//
//	m, err := client.CreateMarker(ctx, markers.CreatePayload{
//	    Coordinate: markers.Coordinate{Lat: 23.5, Lng: 121.5},
//	    Text:       "night market",
//	})
//
//	history, err := client.History(ctx, m.ID)
package mapnotes

import (
	"context"

	"github.com/agentstation/mapnotes/internal/store"
	"github.com/agentstation/mapnotes/internal/syncer"
	"github.com/agentstation/mapnotes/internal/transport"
	"github.com/agentstation/mapnotes/pkg/errors"
	"github.com/agentstation/mapnotes/pkg/logging"
	"github.com/agentstation/mapnotes/pkg/markers"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client manages markers on a backend with a local cache and event hooks.
type Client interface {
	// Markers reloads the full marker set from the backend.
	Markers(ctx context.Context) ([]markers.Marker, error)

	// Cached returns the markers from the last reload plus any created since.
	Cached() []markers.Marker

	// Marker returns a cached marker.
	Marker(id markers.ID) (markers.Marker, bool)

	// CreateMarker creates a marker and adds it to the cache.
	CreateMarker(ctx context.Context, payload markers.CreatePayload) (markers.Marker, error)

	// Updates lists a marker's updates in server order.
	Updates(ctx context.Context, id markers.ID) ([]markers.Update, error)

	// History returns the marker's synthetic initial entry followed by its
	// updates. The marker is looked up in the cache, reloading once if absent.
	History(ctx context.Context, id markers.ID) ([]markers.Entry, error)

	// PostUpdate appends an update and reloads the marker set.
	PostUpdate(ctx context.Context, id markers.ID, payload markers.UpdatePayload) (markers.Update, error)

	// Controller exposes the underlying sync controller.
	Controller() syncer.Controller

	// PreviewWidth is the configured pin preview width.
	PreviewWidth() int

	// Event hooks
	OnMarkersLoaded(fn MarkersLoadedHook)
	OnMarkerCreated(fn MarkerCreatedHook)
	OnUpdatePosted(fn UpdatePostedHook)
}

type client struct {
	*hooks
	config     *config
	controller syncer.Controller
	store      *store.Store
}

// New creates a Client configured by opts.
func New(opts ...Option) (Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.WrapResource("apply", "option", "", err)
		}
	}

	ctrl := cfg.controller
	if ctrl == nil {
		topts := []transport.Option{transport.WithTimeout(cfg.timeout)}
		if cfg.httpClient != nil {
			topts = append(topts, transport.WithHTTPClient(cfg.httpClient))
		}
		if cfg.apiToken != "" {
			topts = append(topts, transport.WithToken(cfg.apiToken, &transport.BearerAuth{}))
		}
		tc, err := transport.New(cfg.serverURL, topts...)
		if err != nil {
			return nil, err
		}
		ctrl = syncer.New(tc)
	}

	return &client{
		hooks:      newHooks(),
		config:     cfg,
		controller: ctrl,
		store:      store.New(ctrl),
	}, nil
}

func (c *client) Markers(ctx context.Context) ([]markers.Marker, error) {
	ms, err := c.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	c.markersLoaded(ms)
	return ms, nil
}

func (c *client) Cached() []markers.Marker {
	return c.store.List()
}

func (c *client) Marker(id markers.ID) (markers.Marker, bool) {
	return c.store.Get(id)
}

func (c *client) CreateMarker(ctx context.Context, payload markers.CreatePayload) (markers.Marker, error) {
	m, err := c.controller.CreateMarker(ctx, payload)
	if err != nil {
		return markers.Marker{}, err
	}
	c.store.Add(m)
	c.markerCreated(m)
	return m, nil
}

func (c *client) Updates(ctx context.Context, id markers.ID) ([]markers.Update, error) {
	return c.controller.FetchUpdates(ctx, id)
}

func (c *client) History(ctx context.Context, id markers.ID) ([]markers.Entry, error) {
	m, ok := c.store.Get(id)
	if !ok {
		if _, err := c.Markers(ctx); err != nil {
			return nil, err
		}
		if m, ok = c.store.Get(id); !ok {
			return nil, &errors.ValidationError{StatusCode: 404, Message: "marker " + id.String() + " not found"}
		}
	}

	updates, err := c.controller.FetchUpdates(ctx, id)
	if err != nil {
		return nil, err
	}
	return markers.History(m, updates), nil
}

func (c *client) PostUpdate(ctx context.Context, id markers.ID, payload markers.UpdatePayload) (markers.Update, error) {
	u, err := c.controller.PostUpdate(ctx, id, payload.Text, payload.Image)
	if err != nil {
		return markers.Update{}, err
	}
	c.updatePosted(u)

	if _, err := c.Markers(ctx); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Marker reload after update failed")
	}
	return u, nil
}

func (c *client) Controller() syncer.Controller {
	return c.controller
}

func (c *client) PreviewWidth() int {
	return c.config.previewWidth
}
