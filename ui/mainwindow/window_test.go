package mainwindow

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"colony-counter/internal/app"
	"colony-counter/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWindow(t *testing.T) (*MainWindow, *app.State) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	dir := t.TempDir()
	p, err := prefs.Load(dir)
	require.NoError(t, err)

	state := app.NewState(p.ZoomStep(), p.ZoomFloor(), zerolog.Nop())
	mw := New(a, state, p, zerolog.Nop())

	path := filepath.Join(dir, "plate.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 300, 200))))
	require.NoError(t, f.Close())
	require.NoError(t, state.OpenImage(path))
	return mw, state
}

func TestMainWindow_ImageLoadedUpdatesTitleAndCanvas(t *testing.T) {
	mw, _ := newTestWindow(t)

	assert.Equal(t, "Colony Counter - plate.png", mw.Title())
	require.NotNil(t, mw.canvas.Rendered())
	assert.Equal(t, 300, mw.canvas.Rendered().Bounds().Dx())
}

func TestMainWindow_KeyBindings(t *testing.T) {
	mw, state := newTestWindow(t)

	mw.onRune('z')
	assert.InDelta(t, 1.2, state.View.Zoom(), 1e-9)
	mw.onRune('Z')
	assert.InDelta(t, 1.2, state.View.Zoom(), 1e-9, "bindings are case sensitive")
	mw.onRune('x')
	assert.InDelta(t, 1.0, state.View.Zoom(), 1e-9)

	state.Click(10, 10)
	state.Click(20, 20)
	mw.onRune('d')
	assert.Equal(t, 1, state.Marks.Count())

	// clear waits for the confirmation dialog
	mw.onRune('c')
	assert.Equal(t, 1, state.Marks.Count())
}

func TestMainWindow_ClickRedrawsMarks(t *testing.T) {
	mw, state := newTestWindow(t)

	before := mw.canvas.Rendered()
	state.Click(50, 50)
	assert.NotSame(t, before, mw.canvas.Rendered())
}

func TestDefaultCountsName(t *testing.T) {
	_, state := newTestWindow(t)
	assert.Equal(t, "plate_counts.json", defaultCountsName(state))

	empty := app.NewState(1.2, 0.1, zerolog.Nop())
	assert.Equal(t, "counts.json", defaultCountsName(empty))
}

// memWriter stands in for the writer handed over by the save dialog.
type memWriter struct {
	bytes.Buffer
	uri      fyne.URI
	writeErr error
	closed   bool
}

func (w *memWriter) Write(p []byte) (int, error) {
	if w.writeErr != nil {
		return 0, w.writeErr
	}
	return w.Buffer.Write(p)
}

func (w *memWriter) Close() error {
	w.closed = true
	return nil
}

func (w *memWriter) URI() fyne.URI { return w.uri }

type memReader struct {
	*bytes.Reader
	uri    fyne.URI
	closed bool
}

func (r *memReader) Close() error {
	r.closed = true
	return nil
}

func (r *memReader) URI() fyne.URI { return r.uri }

func TestSaveCountsTo_WritesThroughDialogWriter(t *testing.T) {
	mw, state := newTestWindow(t)
	state.Click(10, 20)

	dir := t.TempDir()
	w := &memWriter{uri: storage.NewFileURI(filepath.Join(dir, "plate"))}
	mw.saveCountsTo(w, nil)

	assert.True(t, w.closed)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Bytes(), &doc))
	assert.EqualValues(t, 1, doc["total_count"])
	assert.Equal(t, "Saved plate", mw.statusBar.Text)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written beside the chosen file")
}

func TestSaveCountsTo_ReportsWriteFailure(t *testing.T) {
	mw, state := newTestWindow(t)
	state.Click(10, 20)

	w := &memWriter{
		uri:      storage.NewFileURI(filepath.Join(t.TempDir(), "plate.json")),
		writeErr: errors.New("disk full"),
	}
	mw.saveCountsTo(w, nil)

	assert.True(t, w.closed)
	assert.Contains(t, mw.statusBar.Text, "Save failed")
	assert.Contains(t, mw.statusBar.Text, "disk full")
}

func TestDialogCallbacks_ShowDialogErrors(t *testing.T) {
	mw, state := newTestWindow(t)
	state.Click(10, 20)

	mw.saveCountsTo(nil, errors.New("permission denied"))
	assert.Equal(t, "Save failed: permission denied", mw.statusBar.Text)

	mw.loadCountsFrom(nil, errors.New("no such file"))
	assert.Equal(t, "Load failed: no such file", mw.statusBar.Text)

	mw.openImageFrom(nil, errors.New("unreadable"))
	assert.Equal(t, "Cannot open image: unreadable", mw.statusBar.Text)
	assert.Equal(t, 1, state.Marks.Count())
}

func TestDialogCallbacks_CancelDoesNothing(t *testing.T) {
	mw, state := newTestWindow(t)
	state.Click(10, 20)
	status := mw.statusBar.Text

	mw.saveCountsTo(nil, nil)
	mw.loadCountsFrom(nil, nil)
	mw.openImageFrom(nil, nil)

	assert.Equal(t, status, mw.statusBar.Text)
	assert.Equal(t, 1, state.Marks.Count())
}

func TestLoadCountsFrom_ReadsDialogReader(t *testing.T) {
	mw, state := newTestWindow(t)

	r := &memReader{
		Reader: bytes.NewReader([]byte(`{"total_count": 2, "clicks": [[1, 2], [3, 4]], "image_size": [300, 200]}`)),
		uri:    storage.NewFileURI(filepath.Join(t.TempDir(), "plate_counts.json")),
	}
	mw.loadCountsFrom(r, nil)

	assert.True(t, r.closed)
	assert.Equal(t, 2, state.Marks.Count())
	assert.Equal(t, "Loaded plate_counts.json", mw.statusBar.Text)
}
