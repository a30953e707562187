package canvas

import (
	"testing"

	"colony-counter/internal/marks"
	"colony-counter/internal/view"
	"colony-counter/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas(t *testing.T, w, h int) (*ImageCanvas, *view.State) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	v := view.New(view.DefaultZoomStep, view.DefaultZoomFloor)
	v.SetImage(geometry.SizeInt{Width: w, Height: h})
	ic := NewImageCanvas(v, DefaultMarkStyle())
	ic.SetImage(blank(w, h))
	return ic, v
}

func TestImageCanvas_RenderFollowsZoom(t *testing.T) {
	ic, v := newTestCanvas(t, 100, 50)
	require.NotNil(t, ic.Rendered())
	assert.Equal(t, 100, ic.Rendered().Bounds().Dx())

	v.ZoomIn()
	ic.Redraw()
	assert.Equal(t, 120, ic.Rendered().Bounds().Dx())
	assert.Equal(t, 60, ic.Rendered().Bounds().Dy())
	assert.Equal(t, float32(120), ic.content.Size().Width)
}

func TestImageCanvas_MarksDrawnAtDisplayPosition(t *testing.T) {
	ic, v := newTestCanvas(t, 100, 100)
	v.ZoomIn()
	v.ZoomIn() // 1.44
	ic.SetMarks([]marks.Mark{{X: 25, Y: 25}})

	// centre is at 36,36 so the ring crosses 46,36
	assert.True(t, isRed(ic.Rendered().At(46, 36)))
}

func TestImageCanvas_TapReportsDisplayCoordinates(t *testing.T) {
	ic, _ := newTestCanvas(t, 100, 100)

	var gotX, gotY float64
	ic.OnLeftClick(func(x, y float64) { gotX, gotY = x, y })

	test.TapAt(ic.content, fyne.NewPos(12, 34))
	assert.Equal(t, 12.0, gotX)
	assert.Equal(t, 34.0, gotY)
}

func TestImageCanvas_WheelRequestsZoom(t *testing.T) {
	ic, _ := newTestCanvas(t, 10, 10)

	var got []bool
	ic.OnWheel(func(in bool) { got = append(got, in) })

	ic.content.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 5)})
	ic.content.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, -5)})
	ic.content.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(3, 0)})
	assert.Equal(t, []bool{true, false}, got)
}

func TestImageCanvas_RightDragPans(t *testing.T) {
	ic, v := newTestCanvas(t, 500, 500)
	ic.scroll.Resize(fyne.NewSize(100, 100))

	press := func(button desktop.MouseButton, x, y float32) *desktop.MouseEvent {
		return &desktop.MouseEvent{
			PointEvent: fyne.PointEvent{AbsolutePosition: fyne.NewPos(x, y)},
			Button:     button,
		}
	}

	// primary drag does nothing
	ic.content.MouseDown(press(desktop.MouseButtonPrimary, 50, 50))
	ic.content.MouseMoved(press(desktop.MouseButtonPrimary, 10, 10))
	assert.Equal(t, geometry.Point2D{}, v.Pan())

	ic.content.MouseDown(press(desktop.MouseButtonSecondary, 50, 50))
	ic.content.MouseMoved(press(desktop.MouseButtonSecondary, 30, 20))
	assert.Equal(t, geometry.Point2D{X: 20, Y: 30}, v.Pan())

	ic.content.MouseUp(press(desktop.MouseButtonSecondary, 30, 20))
	ic.content.MouseMoved(press(0, 0, 0))
	assert.Equal(t, geometry.Point2D{X: 20, Y: 30}, v.Pan())
}

func TestImageCanvas_NoImageDrawsBackground(t *testing.T) {
	ic, _ := newTestCanvas(t, 10, 10)
	ic.SetImage(nil)

	assert.Nil(t, ic.Rendered())
	img := ic.draw(4, 3)
	assert.Equal(t, 4, img.Bounds().Dx())
}
