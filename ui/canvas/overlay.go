// Package canvas provides overlay types for the image canvas.
package canvas

import (
	"image/color"

	"colony-counter/pkg/colorutil"
)

// MarkStyle controls how marks are drawn. Sizes are in display pixels and
// do not change with zoom.
type MarkStyle struct {
	Radius    int         // Ring radius
	Thickness int         // Ring line width
	Color     color.NRGBA // Ring and label colour
	Labels    bool        // Draw the 1-based index in the ring
}

// DefaultMarkStyle returns a thin red 10px ring with an index label.
func DefaultMarkStyle() MarkStyle {
	return MarkStyle{
		Radius:    10,
		Thickness: 1,
		Color:     colorutil.Red,
		Labels:    true,
	}
}

func (s MarkStyle) normalized() MarkStyle {
	if s.Radius <= 0 {
		s.Radius = 10
	}
	if s.Thickness <= 0 {
		s.Thickness = 1
	}
	if s.Color.A == 0 {
		s.Color.A = 0xff
	}
	return s
}
