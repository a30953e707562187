// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"colony-counter/internal/app"
	pcimage "colony-counter/internal/image"
	"colony-counter/internal/session"
	"colony-counter/internal/version"
	"colony-counter/ui/canvas"
	"colony-counter/ui/panels"
	"colony-counter/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

// AppTitle is the base window title.
const AppTitle = "Colony Counter"

const prefKeyLastDir = "lastDirectory"

var countsExtensions = []string{".json", ".txt"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	log       zerolog.Logger
	bindings  prefs.Bindings
	canvas    *canvas.ImageCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, log zerolog.Logger) *MainWindow {
	win := fyneApp.NewWindow(AppTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		log:    log,
	}

	bindings, err := p.Bindings()
	if err != nil {
		log.Warn().Err(err).Msg("invalid key bindings, using defaults")
	}
	mw.bindings = bindings

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	w, h := p.WindowSize()
	mw.Resize(fyne.NewSize(w, h))
	mw.SetCloseIntercept(mw.onClose)

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	style := canvas.DefaultMarkStyle()
	style.Radius = mw.prefs.MarkRadius()
	style.Color = mw.prefs.MarkColor()

	mw.canvas = canvas.NewImageCanvas(mw.state.View, style)
	mw.canvas.SetInterpolator(pcimage.InterpolatorByName(mw.prefs.Resample()))
	mw.canvas.OnLeftClick(func(x, y float64) {
		mw.state.Click(x, y)
	})
	mw.canvas.OnWheel(func(zoomIn bool) {
		if zoomIn {
			mw.onZoomIn()
		} else {
			mw.onZoomOut()
		}
	})

	mw.sidePanel = panels.NewSidePanel(mw.state, panels.Actions{
		OpenImage:  mw.onOpenImage,
		SaveCounts: mw.onSaveCounts,
		LoadCounts: mw.onLoadCounts,
		DeleteLast: mw.onDeleteLast,
		ClearAll:   mw.onClearAll,
		ZoomIn:     mw.onZoomIn,
		ZoomOut:    mw.onZoomOut,
		ResetZoom:  mw.onActualSize,
	}, mw.bindings, mw.prefs.MarkRadius())

	mw.statusBar = widget.NewLabel("Open an image to start counting")

	split := container.NewHSplit(
		mw.canvas.Container(),
		mw.sidePanel.Container(),
	)
	split.SetOffset(0.78)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
	mw.Canvas().SetOnTypedRune(mw.onRune)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Counts...", mw.onSaveCounts),
		fyne.NewMenuItem("Load Counts...", mw.onLoadCounts),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Delete Last", mw.onDeleteLast),
		fyne.NewMenuItem("Clear All", mw.onClearAll),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Controls", mw.onControls),
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if layer, ok := data.(*pcimage.Layer); ok {
			mw.canvas.SetImage(layer.Image)
			mw.SetTitle(mw.state.Title(AppTitle))
			mw.updateStatus(fmt.Sprintf("Opened %s (%d x %d)", layer.Name(), layer.Width(), layer.Height()))
		}
	})

	mw.state.On(app.EventMarksChanged, func(_ interface{}) {
		mw.canvas.SetMarks(mw.state.Marks.All())
	})

	mw.state.On(app.EventZoomChanged, func(data interface{}) {
		mw.canvas.Redraw()
		if zoom, ok := data.(float64); ok {
			mw.updateStatus(fmt.Sprintf("Zoom %.0f%%", zoom*100))
		}
	})

	mw.state.On(app.EventCountsSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Saved " + filepath.Base(path))
		}
	})

	mw.state.On(app.EventCountsLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Loaded " + filepath.Base(path))
		}
	})
}

// onRune dispatches the single-character key bindings. Matching is case
// sensitive.
func (mw *MainWindow) onRune(r rune) {
	switch r {
	case mw.bindings.ZoomIn:
		mw.onZoomIn()
	case mw.bindings.ZoomOut:
		mw.onZoomOut()
	case mw.bindings.DeleteLast:
		mw.onDeleteLast()
	case mw.bindings.ClearAll:
		mw.onClearAll()
	case mw.bindings.Save:
		mw.onSaveCounts()
	case mw.bindings.Load:
		mw.onLoadCounts()
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// showWarning displays a non-fatal problem.
func (mw *MainWindow) showWarning(message string) {
	dialog.ShowInformation("Warning", message, mw.Window)
}

// showFailure reports err, treating the known sentinels as warnings.
func (mw *MainWindow) showFailure(prefix string, err error) {
	switch {
	case errors.Is(err, app.ErrNoImage):
		mw.showWarning("Please open an image first")
	case errors.Is(err, session.ErrNothingToSave):
		mw.showWarning("There are no counts to save")
	default:
		mw.log.Error().Err(err).Msg(prefix)
		mw.updateStatus(prefix + ": " + err.Error())
		dialog.ShowError(fmt.Errorf("%s: %w", prefix, err), mw.Window)
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(mw.openImageFrom, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(pcimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// openImageFrom handles the open dialog result. The image is decoded by
// path so the format can be taken from the extension.
func (mw *MainWindow) openImageFrom(reader fyne.URIReadCloser, err error) {
	if err != nil {
		mw.showFailure("Cannot open image", err)
		return
	}
	if reader == nil {
		return
	}
	path := reader.URI().Path()
	if err := reader.Close(); err != nil {
		mw.log.Warn().Err(err).Str("path", path).Msg("failed to close image reader")
	}
	mw.saveLastDir(path)
	if err := mw.state.OpenImage(path); err != nil {
		mw.showFailure("Cannot open image", err)
	}
}

func (mw *MainWindow) onSaveCounts() {
	if mw.state.Marks.Count() == 0 {
		mw.showFailure("Save failed", session.ErrNothingToSave)
		return
	}

	fd := dialog.NewFileSave(mw.saveCountsTo, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(countsExtensions))
	fd.SetFileName(defaultCountsName(mw.state))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// saveCountsTo writes the counts through the writer the save dialog opened,
// so the file ends up exactly where the user chose.
func (mw *MainWindow) saveCountsTo(writer fyne.URIWriteCloser, err error) {
	if err != nil {
		mw.showFailure("Save failed", err)
		return
	}
	if writer == nil {
		return
	}
	path := writer.URI().Path()
	mw.saveLastDir(path)

	err = mw.state.WriteCounts(writer, path)
	if cerr := writer.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close %s: %w", path, cerr)
	}
	if err != nil {
		mw.showFailure("Save failed", err)
		return
	}
	dialog.ShowInformation("Saved", "Counts saved to: "+path, mw.Window)
}

func (mw *MainWindow) onLoadCounts() {
	if !mw.state.HasImage() {
		mw.showFailure("Load failed", app.ErrNoImage)
		return
	}

	fd := dialog.NewFileOpen(mw.loadCountsFrom, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(countsExtensions))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) loadCountsFrom(reader fyne.URIReadCloser, err error) {
	if err != nil {
		mw.showFailure("Load failed", err)
		return
	}
	if reader == nil {
		return
	}
	defer reader.Close()

	path := reader.URI().Path()
	mw.saveLastDir(path)
	n, err := mw.state.ReadCounts(reader, path)
	if err != nil {
		mw.showFailure("Load failed", err)
		return
	}
	dialog.ShowInformation("Loaded", fmt.Sprintf("Loaded %d marks", n), mw.Window)
}

func (mw *MainWindow) onDeleteLast() {
	mw.state.DeleteLast()
}

func (mw *MainWindow) onClearAll() {
	if mw.state.Marks.Count() == 0 {
		return
	}
	mw.state.RequestClear(app.ConfirmFunc(func(title, message string, cb func(bool)) {
		dialog.ShowConfirm(title, message, cb, mw.Window)
	}))
}

func (mw *MainWindow) onZoomIn() {
	mw.state.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.state.ZoomOut()
}

func (mw *MainWindow) onActualSize() {
	mw.state.ResetZoom()
}

func (mw *MainWindow) onControls() {
	dialog.ShowInformation("Controls", panels.HelpText(mw.bindings), mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+AppTitle,
		fmt.Sprintf("%s %s\n\n"+
			"Count colonies on a plate photo by clicking them.",
			AppTitle, version.String()),
		mw.Window)
}

// onClose stores the window size before closing.
func (mw *MainWindow) onClose() {
	size := mw.Canvas().Size()
	mw.prefs.SetWindowSize(size.Width, size.Height)
	if err := mw.prefs.Save(); err != nil {
		mw.log.Warn().Err(err).Str("path", mw.prefs.Path()).Msg("failed to save preferences")
	}
	mw.Close()
}

// defaultCountsName suggests a file name next to the image.
func defaultCountsName(state *app.State) string {
	if !state.HasImage() {
		return "counts.json"
	}
	name := state.Image.Name()
	return strings.TrimSuffix(name, filepath.Ext(name)) + "_counts.json"
}
