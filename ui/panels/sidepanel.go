// Package panels provides UI panels for the application.
package panels

import (
	"fmt"
	"strings"

	"colony-counter/internal/app"
	"colony-counter/internal/marks"
	"colony-counter/ui/prefs"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Actions are the commands the panel buttons trigger. The main window
// supplies them so that buttons, menus and keys share one code path.
type Actions struct {
	OpenImage  func()
	SaveCounts func()
	LoadCounts func()
	DeleteLast func()
	ClearAll   func()
	ZoomIn     func()
	ZoomOut    func()
	ResetZoom  func()
}

// SidePanel shows the count, the session buttons and a short summary of
// where the marks are.
type SidePanel struct {
	state      *app.State
	container  fyne.CanvasObject
	markRadius int

	countText    *fynecanvas.Text
	imageLabel   *widget.Label
	zoomLabel    *widget.Label
	summaryLabel *widget.Label

	openButton   *widget.Button
	saveButton   *widget.Button
	loadButton   *widget.Button
	deleteButton *widget.Button
	clearButton  *widget.Button
}

// NewSidePanel creates the panel. markRadius is the ring radius in display
// pixels; marks nearer than one ring radius are reported as probable
// double counts.
func NewSidePanel(state *app.State, actions Actions, bindings prefs.Bindings, markRadius int) *SidePanel {
	sp := &SidePanel{
		state:      state,
		markRadius: markRadius,
	}

	sp.countText = fynecanvas.NewText(countLabel(0), theme.ForegroundColor())
	sp.countText.TextSize = 28
	sp.countText.TextStyle = fyne.TextStyle{Bold: true}
	sp.countText.Alignment = fyne.TextAlignCenter

	sp.imageLabel = widget.NewLabel("No image loaded")
	sp.imageLabel.Wrapping = fyne.TextWrapWord
	sp.zoomLabel = widget.NewLabel(zoomLabel(1))
	sp.summaryLabel = widget.NewLabel("")
	sp.summaryLabel.Wrapping = fyne.TextWrapWord

	sp.openButton = widget.NewButtonWithIcon("Open Image", theme.FolderOpenIcon(), actions.OpenImage)
	sp.saveButton = widget.NewButtonWithIcon("Save Counts", theme.DocumentSaveIcon(), actions.SaveCounts)
	sp.loadButton = widget.NewButtonWithIcon("Load Counts", theme.UploadIcon(), actions.LoadCounts)
	sp.deleteButton = widget.NewButtonWithIcon("Delete Last", theme.ContentUndoIcon(), actions.DeleteLast)
	sp.clearButton = widget.NewButtonWithIcon("Clear All", theme.DeleteIcon(), actions.ClearAll)
	sp.clearButton.Importance = widget.DangerImportance

	zoomOut := widget.NewButton("-", actions.ZoomOut)
	zoomIn := widget.NewButton("+", actions.ZoomIn)
	zoomReset := widget.NewButton("1:1", actions.ResetZoom)

	help := widget.NewLabel(HelpText(bindings))
	help.Wrapping = fyne.TextWrapWord

	sp.container = container.NewVScroll(container.NewVBox(
		widget.NewCard("Count", "", container.NewVBox(
			sp.countText,
			sp.imageLabel,
		)),
		widget.NewCard("Session", "", container.NewVBox(
			sp.openButton,
			sp.saveButton,
			sp.loadButton,
		)),
		widget.NewCard("Edit", "", container.NewVBox(
			sp.deleteButton,
			sp.clearButton,
		)),
		widget.NewCard("Zoom", "", container.NewHBox(
			zoomOut, zoomIn, zoomReset, sp.zoomLabel,
		)),
		widget.NewCard("Summary", "", sp.summaryLabel),
		widget.NewCard("Keys", "", help),
	))

	state.On(app.EventImageLoaded, func(_ interface{}) { sp.Refresh() })
	state.On(app.EventMarksChanged, func(_ interface{}) { sp.Refresh() })
	state.On(app.EventZoomChanged, func(_ interface{}) { sp.Refresh() })

	sp.Refresh()
	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// Refresh brings every label and button in line with the state.
func (sp *SidePanel) Refresh() {
	n := sp.state.Marks.Count()
	sp.countText.Text = countLabel(n)
	sp.countText.Refresh()

	if sp.state.HasImage() {
		img := sp.state.Image
		sp.imageLabel.SetText(fmt.Sprintf("%s\n%d x %d", img.Name(), img.Width(), img.Height()))
	} else {
		sp.imageLabel.SetText("No image loaded")
	}
	sp.zoomLabel.SetText(zoomLabel(sp.state.View.Zoom()))
	sp.summaryLabel.SetText(SummaryText(sp.state.Summary(sp.closeDistance())))

	if n == 0 {
		sp.deleteButton.Disable()
		sp.clearButton.Disable()
	} else {
		sp.deleteButton.Enable()
		sp.clearButton.Enable()
	}
}

// closeDistance converts the ring radius to image pixels at the current
// zoom, so that overlapping rings count as close.
func (sp *SidePanel) closeDistance() float64 {
	return float64(sp.markRadius) / sp.state.View.Zoom()
}

func countLabel(n int) string {
	return fmt.Sprintf("Count: %d", n)
}

func zoomLabel(zoom float64) string {
	return fmt.Sprintf("%.0f%%", zoom*100)
}

// SummaryText formats a mark summary for display.
func SummaryText(s marks.Summary) string {
	if s.Count == 0 {
		return "No marks"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Centre: (%.1f, %.1f)", s.CentroidX, s.CentroidY)
	if s.Count > 1 {
		fmt.Fprintf(&b, "\nNearest neighbour: mean %.1f px, min %.1f px", s.MeanNearest, s.MinNearest)
	}
	switch len(s.Close) {
	case 0:
	case 1:
		fmt.Fprintf(&b, "\nPossible double count: #%d and #%d", s.Close[0][0]+1, s.Close[0][1]+1)
	default:
		fmt.Fprintf(&b, "\n%d possible double counts, first #%d and #%d",
			len(s.Close), s.Close[0][0]+1, s.Close[0][1]+1)
	}
	if s.Outside > 0 {
		fmt.Fprintf(&b, "\n%d counted outside the image (not drawn)", s.Outside)
	}
	return b.String()
}

// HelpText lists the mouse and keyboard controls.
func HelpText(b prefs.Bindings) string {
	lines := []string{
		"Left click: add mark",
		"Right drag: pan",
		"Wheel: zoom",
		fmt.Sprintf("%c: zoom in", b.ZoomIn),
		fmt.Sprintf("%c: zoom out", b.ZoomOut),
		fmt.Sprintf("%c: delete last", b.DeleteLast),
		fmt.Sprintf("%c: clear all", b.ClearAll),
		fmt.Sprintf("%c: save counts", b.Save),
		fmt.Sprintf("%c: load counts", b.Load),
	}
	return strings.Join(lines, "\n")
}
