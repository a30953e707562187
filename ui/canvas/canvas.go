// Package canvas provides an image canvas with pan, zoom, and click marking.
package canvas

import (
	"image"

	pcimage "colony-counter/internal/image"
	"colony-counter/internal/marks"
	"colony-counter/internal/view"
	"colony-counter/pkg/colorutil"
	"colony-counter/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
)

// ImageCanvas displays the current image and its marks at the zoom held
// by a view.State. Coordinates passed to callbacks are display
// coordinates relative to the top-left of the zoomed image.
type ImageCanvas struct {
	widget.BaseWidget

	view  *view.State
	style MarkStyle

	// Source image and its resampled copy at scaledZoom
	source     image.Image
	interp     draw.Interpolator
	scaled     *image.RGBA
	scaledZoom float64

	// Marks in image space
	marks []marks.Mark

	// Display state
	raster   *fynecanvas.Raster
	rendered *image.RGBA
	imgSize  fyne.Size

	// Container
	scroll  *zoomScroll
	content *clickableContent

	// Right-button pan state
	panning bool
	panLast fyne.Position

	// Callbacks
	onLeftClick func(x, y float64)
	onWheel     func(zoomIn bool)
}

// zoomScroll is a widget that wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *ImageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *ImageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	zs.canvas.wheel(ev)
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// SetOffset moves the scroll container.
func (zs *zoomScroll) SetOffset(p fyne.Position) {
	zs.scroll.Offset = p
	zs.scroll.Refresh()
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// clickableContent wraps the raster to handle mouse events.
type clickableContent struct {
	widget.BaseWidget
	canvas *ImageCanvas
	raster *fynecanvas.Raster
}

var (
	_ fyne.Tappable     = (*clickableContent)(nil)
	_ fyne.Scrollable   = (*clickableContent)(nil)
	_ desktop.Mouseable = (*clickableContent)(nil)
	_ desktop.Hoverable = (*clickableContent)(nil)
)

func newClickableContent(ic *ImageCanvas, raster *fynecanvas.Raster) *clickableContent {
	cc := &clickableContent{
		canvas: ic,
		raster: raster,
	}
	cc.ExtendBaseWidget(cc)
	return cc
}

func (cc *clickableContent) CreateRenderer() fyne.WidgetRenderer {
	return &clickableContentRenderer{content: cc}
}

func (cc *clickableContent) MinSize() fyne.Size {
	return cc.raster.MinSize()
}

func (cc *clickableContent) Scrolled(ev *fyne.ScrollEvent) {
	cc.canvas.wheel(ev)
}

// Tapped handles left-click events. The position is already relative to
// the zoomed image, whatever the scroll offset.
func (cc *clickableContent) Tapped(ev *fyne.PointEvent) {
	if cc.canvas.onLeftClick == nil {
		return
	}
	size := cc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	cc.canvas.onLeftClick(float64(ev.Position.X), float64(ev.Position.Y))
}

// MouseDown starts a pan on the secondary button.
func (cc *clickableContent) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonSecondary {
		return
	}
	cc.canvas.startPan(ev.AbsolutePosition)
}

// MouseUp ends a pan.
func (cc *clickableContent) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonSecondary {
		cc.canvas.panning = false
	}
}

func (cc *clickableContent) MouseIn(*desktop.MouseEvent) {}

// MouseMoved drags the view while the secondary button is held.
func (cc *clickableContent) MouseMoved(ev *desktop.MouseEvent) {
	cc.canvas.dragPan(ev.AbsolutePosition)
}

func (cc *clickableContent) MouseOut() {
	cc.canvas.panning = false
}

type clickableContentRenderer struct {
	content *clickableContent
}

func (r *clickableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *clickableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *clickableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *clickableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *clickableContentRenderer) Destroy() {}

// NewImageCanvas creates a canvas drawing through v.
func NewImageCanvas(v *view.State, style MarkStyle) *ImageCanvas {
	ic := &ImageCanvas{
		view:    v,
		style:   style.normalized(),
		interp:  draw.BiLinear,
		imgSize: fyne.NewSize(400, 300),
	}

	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels
	ic.raster.SetMinSize(ic.imgSize)

	ic.content = newClickableContent(ic, ic.raster)
	ic.scroll = newZoomScroll(ic.content, ic)

	ic.ExtendBaseWidget(ic)
	return ic
}

// Container returns the canvas container for embedding in layouts.
func (ic *ImageCanvas) Container() fyne.CanvasObject {
	return ic.scroll
}

// SetInterpolator sets the scaler used when the zoom changes.
func (ic *ImageCanvas) SetInterpolator(interp draw.Interpolator) {
	if interp != nil {
		ic.interp = interp
		ic.scaled = nil
	}
}

// SetImage replaces the displayed image. Nil clears the canvas.
func (ic *ImageCanvas) SetImage(img image.Image) {
	ic.source = img
	ic.scaled = nil
	ic.scroll.SetOffset(fyne.Position{})
	ic.Redraw()
}

// SetMarks replaces the marks to draw, in image coordinates.
func (ic *ImageCanvas) SetMarks(m []marks.Mark) {
	ic.marks = m
	ic.Redraw()
}

// OnLeftClick sets a callback for left-click events in display coordinates.
func (ic *ImageCanvas) OnLeftClick(callback func(x, y float64)) {
	ic.onLeftClick = callback
}

// OnWheel sets a callback for mouse wheel zoom requests.
func (ic *ImageCanvas) OnWheel(callback func(zoomIn bool)) {
	ic.onWheel = callback
}

// Rendered returns the last composed frame, or nil before an image is set.
func (ic *ImageCanvas) Rendered() *image.RGBA {
	return ic.rendered
}

// Redraw rebuilds the frame from the current image, zoom and marks.
// A zoom change resamples the image; every mark is drawn again.
func (ic *ImageCanvas) Redraw() {
	if ic.source == nil {
		ic.rendered = nil
		ic.updateContentSize()
		return
	}

	zoom := ic.view.Zoom()
	if ic.scaled == nil || ic.scaledZoom != zoom {
		ic.scaled = pcimage.Resample(ic.source, zoom, ic.interp)
		ic.scaledZoom = zoom
	}

	positions := make([]geometry.Point2D, len(ic.marks))
	for i, m := range ic.marks {
		positions[i] = ic.view.ToDisplaySpace(m.X, m.Y)
	}
	ic.rendered = Compose(ic.scaled, positions, ic.style)

	ic.updateContentSize()
	ic.clampPan()
}

// Refresh refreshes the canvas display.
func (ic *ImageCanvas) Refresh() {
	ic.raster.Refresh()
}

func (ic *ImageCanvas) wheel(ev *fyne.ScrollEvent) {
	if ic.onWheel == nil || ev.Scrolled.DY == 0 {
		return
	}
	ic.onWheel(ev.Scrolled.DY > 0)
}

func (ic *ImageCanvas) viewport() geometry.Point2D {
	s := ic.scroll.Size()
	return geometry.Point2D{X: float64(s.Width), Y: float64(s.Height)}
}

func (ic *ImageCanvas) startPan(at fyne.Position) {
	ic.panning = true
	ic.panLast = at
	off := ic.scroll.Offset()
	ic.view.SetPan(geometry.Point2D{X: float64(off.X), Y: float64(off.Y)}, ic.viewport())
}

func (ic *ImageCanvas) dragPan(at fyne.Position) {
	if !ic.panning {
		return
	}
	delta := geometry.Point2D{
		X: float64(ic.panLast.X - at.X),
		Y: float64(ic.panLast.Y - at.Y),
	}
	ic.panLast = at
	p := ic.view.PanBy(delta, ic.viewport())
	ic.scroll.SetOffset(fyne.NewPos(float32(p.X), float32(p.Y)))
}

// clampPan keeps the scroll offset valid after the image size changed.
func (ic *ImageCanvas) clampPan() {
	off := ic.scroll.Offset()
	p := ic.view.SetPan(geometry.Point2D{X: float64(off.X), Y: float64(off.Y)}, ic.viewport())
	if float32(p.X) != off.X || float32(p.Y) != off.Y {
		ic.scroll.SetOffset(fyne.NewPos(float32(p.X), float32(p.Y)))
	}
}

// updateContentSize updates the content size based on image and zoom.
func (ic *ImageCanvas) updateContentSize() {
	if ic.rendered == nil {
		ic.imgSize = fyne.NewSize(400, 300)
	} else {
		b := ic.rendered.Bounds()
		ic.imgSize = fyne.NewSize(float32(b.Dx()), float32(b.Dy()))
	}

	ic.raster.SetMinSize(ic.imgSize)
	ic.raster.Resize(ic.imgSize)
	if ic.content != nil {
		ic.content.Resize(ic.imgSize)
		ic.content.Refresh()
	}
	ic.raster.Refresh()
	if ic.scroll != nil {
		ic.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (ic *ImageCanvas) draw(w, h int) image.Image {
	if ic.rendered != nil {
		return ic.rendered
	}
	out := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(out, out.Bounds(), image.NewUniform(colorutil.Gray), image.Point{}, draw.Src)
	return out
}

// CreateRenderer implements fyne.Widget.
func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &imageCanvasRenderer{canvas: ic}
}

type imageCanvasRenderer struct {
	canvas *ImageCanvas
}

func (r *imageCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
}

func (r *imageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *imageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *imageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *imageCanvasRenderer) Destroy() {}
