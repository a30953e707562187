// Package canvas provides drawing primitives for the image canvas.
package canvas

import (
	"image"
	"image/color"
	"strconv"

	"colony-counter/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var labelFace font.Face = basicfont.Face7x13

// Compose copies base into a fresh RGBA and draws a ring with its 1-based
// index at each display position.
func Compose(base *image.RGBA, positions []geometry.Point2D, style MarkStyle) *image.RGBA {
	out := image.NewRGBA(base.Bounds())
	draw.Copy(out, out.Bounds().Min, base, base.Bounds(), draw.Src, nil)
	DrawMarks(out, positions, style)
	return out
}

// DrawMarks draws every mark onto output. Marks partly or wholly outside
// the image are clipped.
func DrawMarks(output *image.RGBA, positions []geometry.Point2D, style MarkStyle) {
	style = style.normalized()
	for i, p := range positions {
		drawRing(output, p.X, p.Y, style.Radius, style.Thickness, style.Color)
		if style.Labels {
			drawLabel(output, strconv.Itoa(i+1), int(p.X), int(p.Y), style.Color)
		}
	}
}

// drawRing draws a circle outline of the given radius and thickness.
func drawRing(output *image.RGBA, cx, cy float64, radius, thickness int, col color.NRGBA) {
	bounds := output.Bounds()

	r := float64(radius)
	outer := r + 0.5
	inner := r + 0.5 - float64(thickness)
	outer2 := outer * outer
	inner2 := inner * inner

	minX := int(cx - outer - 1)
	maxX := int(cx + outer + 1)
	minY := int(cy - outer - 1)
	maxY := int(cy + outer + 1)

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist2 := dx*dx + dy*dy
			if dist2 <= outer2 && dist2 >= inner2 {
				output.Set(x, y, col)
			}
		}
	}
}

// drawLabel draws text centred on (centerX, centerY).
func drawLabel(output *image.RGBA, label string, centerX, centerY int, col color.NRGBA) {
	width := font.MeasureString(labelFace, label).Ceil()
	m := labelFace.Metrics()
	ascent := m.Ascent.Ceil()
	descent := m.Descent.Ceil()

	d := &font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(col),
		Face: labelFace,
		Dot:  fixed.P(centerX-width/2, centerY+(ascent-descent)/2),
	}
	d.DrawString(label)
}
