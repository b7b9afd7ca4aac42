package markers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapnotes"
	"github.com/agentstation/mapnotes/cmd/mapnotes/cmd/markers"
	"github.com/agentstation/mapnotes/internal/appcontext"
	"github.com/agentstation/mapnotes/internal/cmd/output"
	"github.com/agentstation/mapnotes/internal/notify"
	"github.com/agentstation/mapnotes/internal/testutil"
	"github.com/agentstation/mapnotes/pkg/errors"
)

type harness struct {
	backend *testutil.Backend
	app     *appcontext.Mock
	notices []notify.Notice
}

func newHarness(t *testing.T, format output.Format) *harness {
	t.Helper()
	h := &harness{backend: testutil.NewBackend(t)}
	client, err := mapnotes.New(mapnotes.WithServerURL(h.backend.URL))
	require.NoError(t, err)
	h.app = &appcontext.Mock{
		ClientFunc: func() (mapnotes.Client, error) { return client, nil },
		Format:     format,
		Notices: notify.WriterFunc(func(n notify.Notice) error {
			h.notices = append(h.notices, n)
			return nil
		}),
	}
	return h
}

func (h *harness) run(args ...string) (string, error) {
	root := &cobra.Command{Use: "mapnotes", SilenceUsage: true, SilenceErrors: true}
	root.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	root.AddCommand(markers.NewCommands(h.app)...)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListJSON(t *testing.T) {
	h := newHarness(t, output.FormatJSON)
	h.backend.SeedMarker(23.5, 121.5, "harbour", "")
	h.backend.SeedMarker(24.0, 122.0, "", "/uploads/x.png")

	out, err := h.run("list")
	require.NoError(t, err)

	var rows []output.MarkerRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "harbour", rows[0].Text)
	assert.Equal(t, h.backend.URL+"/uploads/x.png", rows[1].ImageURL)
	assert.NotEmpty(t, rows[0].CreatedAt)
}

func TestListTable(t *testing.T) {
	h := newHarness(t, output.FormatTable)
	h.backend.SeedMarker(23.5, 121.5, "harbour", "")

	out, err := h.run("ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Text")
	assert.Contains(t, out, "harbour")
}

func TestCreate(t *testing.T) {
	h := newHarness(t, output.FormatJSON)

	out, err := h.run("create", "--lat", "23.5", "--lng", "121.5", "--text", "test")
	require.NoError(t, err)

	var row output.MarkerRow
	require.NoError(t, json.Unmarshal([]byte(out), &row))
	assert.Positive(t, row.ID)
	assert.Equal(t, 23.5, row.Lat)
	assert.Equal(t, 121.5, row.Lng)
	assert.Equal(t, "test", row.Text)

	require.Len(t, h.backend.Markers(), 1)
	assert.Zero(t, h.backend.Requests("GET /markers"))
}

func TestCreateTableNotifies(t *testing.T) {
	h := newHarness(t, output.FormatTable)

	_, err := h.run("create", "--lat", "1", "--lng", "2")
	require.NoError(t, err)
	require.Len(t, h.notices, 1)
	assert.Equal(t, notify.LevelSuccess, h.notices[0].Level)
	assert.Contains(t, h.notices[0].Message, "Marker #1 created")
}

func TestCreateWithImage(t *testing.T) {
	h := newHarness(t, output.FormatJSON)
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))

	_, err := h.run("create", "--lat", "1", "--lng", "2", "--image", path)
	require.NoError(t, err)

	ms := h.backend.Markers()
	require.Len(t, ms, 1)
	assert.Equal(t, "/uploads/photo.png", ms[0].ImagePath)
}

func TestCreateRequiresCoordinates(t *testing.T) {
	h := newHarness(t, output.FormatJSON)

	_, err := h.run("create", "--text", "nowhere")
	assert.Error(t, err)
	assert.Zero(t, h.backend.Requests("POST /markers"))
}

func TestCreateOutOfRange(t *testing.T) {
	h := newHarness(t, output.FormatJSON)

	_, err := h.run("create", "--lat", "91", "--lng", "0")
	assert.True(t, errors.IsValidationFailure(err))
	assert.Zero(t, h.backend.Requests("POST /markers"))
}

func TestHistory(t *testing.T) {
	h := newHarness(t, output.FormatJSON)
	id := h.backend.SeedMarker(23.5, 121.5, "A", "")
	h.backend.SeedUpdate(id, "B", "")
	h.backend.SeedUpdate(id, "C", "")

	out, err := h.run("history", "1")
	require.NoError(t, err)

	var rows []output.HistoryRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Initial)
	assert.Equal(t, []string{"A", "B", "C"}, []string{rows[0].Text, rows[1].Text, rows[2].Text})
}

func TestHistoryBadID(t *testing.T) {
	h := newHarness(t, output.FormatJSON)

	_, err := h.run("history", "abc")
	assert.True(t, errors.IsValidationFailure(err))
}

func TestUpdateReloadsOnce(t *testing.T) {
	h := newHarness(t, output.FormatJSON)
	h.backend.SeedMarker(23.5, 121.5, "A", "")

	out, err := h.run("update", "1", "--text", "B")
	require.NoError(t, err)

	var row output.UpdateRow
	require.NoError(t, json.Unmarshal([]byte(out), &row))
	assert.Equal(t, int64(1), row.MarkerID)
	assert.Equal(t, "B", row.Text)

	assert.Equal(t, 1, h.backend.Requests("POST /markers/{id}/updates"))
	assert.Equal(t, 1, h.backend.Requests("GET /markers"))
	assert.Len(t, h.backend.Updates(), 1)
}

func TestUpdateEmptyPayload(t *testing.T) {
	h := newHarness(t, output.FormatJSON)
	h.backend.SeedMarker(23.5, 121.5, "A", "")

	_, err := h.run("update", "1", "--text", "   ")
	assert.True(t, errors.IsEmptyUpdatePayload(err))
	assert.Zero(t, h.backend.Requests("POST /markers/{id}/updates"))
}

func TestUpdateUnknownMarker(t *testing.T) {
	h := newHarness(t, output.FormatTable)

	_, err := h.run("update", "99", "--text", "B")
	assert.True(t, errors.IsValidationFailure(err))
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Empty(t, h.notices)
}

func TestUpdateServerFailure(t *testing.T) {
	h := newHarness(t, output.FormatJSON)
	h.backend.SeedMarker(23.5, 121.5, "A", "")
	h.backend.FailNext("POST /markers/{id}/updates", 1)

	_, err := h.run("update", "1", "--text", "B")
	assert.True(t, errors.IsNetworkFailure(err))
	assert.Empty(t, h.backend.Updates())
}
