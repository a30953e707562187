// Package view maps between display coordinates and original image
// coordinates under the current zoom.
package view

import (
	"colony-counter/pkg/geometry"
)

// Default zoom parameters.
const (
	DefaultZoomStep  = 1.2
	DefaultZoomFloor = 0.1

	// DefaultMaxPixels caps the zoomed image at about 160 MB of RGBA.
	DefaultMaxPixels = 40_000_000
)

// boundaryEpsilon absorbs the rounding of the inverse transform so that a
// display point exactly on a pixel edge maps to that pixel.
const boundaryEpsilon = 1e-9

// State is the zoom and pan of a single displayed image.
// Display coordinates are relative to the top-left of the zoomed image;
// Pan is the part of the zoomed image scrolled out of the viewport.
type State struct {
	zoom      float64
	step      float64
	floor     float64
	maxPixels float64
	image     geometry.SizeInt
	pan   geometry.Point2D
}

// New returns a State at zoom 1.0 using the given step and floor.
// Non-positive or nonsensical values fall back to the defaults.
func New(step, floor float64) *State {
	if step <= 1 {
		step = DefaultZoomStep
	}
	if floor <= 0 || floor >= 1 {
		floor = DefaultZoomFloor
	}
	return &State{zoom: 1.0, step: step, floor: floor, maxPixels: DefaultMaxPixels}
}

// SetMaxPixels sets the largest zoomed image, in pixels, that ZoomIn may
// produce. Non-positive values restore DefaultMaxPixels.
func (s *State) SetMaxPixels(n int) {
	if n <= 0 {
		n = DefaultMaxPixels
	}
	s.maxPixels = float64(n)
}

// MaxPixels returns the zoom-in pixel budget.
func (s *State) MaxPixels() int { return int(s.maxPixels) }

// Zoom returns the current zoom level.
func (s *State) Zoom() float64 { return s.zoom }

// Floor returns the lower zoom bound. Zoom always stays above it.
func (s *State) Floor() float64 { return s.floor }

// ImageSize returns the dimensions of the original image.
func (s *State) ImageSize() geometry.SizeInt { return s.image }

// SetImage records the original image size and resets zoom and pan.
func (s *State) SetImage(size geometry.SizeInt) {
	s.image = size
	s.zoom = 1.0
	s.pan = geometry.Point2D{}
}

// DisplaySize returns the size of the zoomed image in display pixels.
func (s *State) DisplaySize() geometry.SizeInt {
	w := int(float64(s.image.Width) * s.zoom)
	h := int(float64(s.image.Height) * s.zoom)
	if !s.image.Empty() {
		w = max(w, 1)
		h = max(h, 1)
	}
	return geometry.SizeInt{Width: w, Height: h}
}

// Transform returns the image-to-display transform.
func (s *State) Transform() geometry.AffineTransform {
	return geometry.Scale(s.zoom, s.zoom)
}

// ToImageSpace maps a display point to the image pixel under it, the
// inverse of Transform floored to whole pixels.
// ok is false when that pixel lies outside the image.
func (s *State) ToImageSpace(displayX, displayY float64) (p geometry.PointInt, ok bool) {
	inv, ok := s.Transform().Inverse()
	if !ok {
		return geometry.PointInt{}, false
	}
	q := inv.Apply(geometry.Point2D{X: displayX, Y: displayY})
	p = geometry.Point2D{X: q.X + boundaryEpsilon, Y: q.Y + boundaryEpsilon}.Floor()
	return p, s.image.Contains(p)
}

// ToDisplaySpace maps an image pixel to its display position.
func (s *State) ToDisplaySpace(imgX, imgY int) geometry.Point2D {
	return s.Transform().Apply(geometry.PointInt{X: imgX, Y: imgY}.ToFloat())
}

// ZoomIn multiplies the zoom by the step. It is refused, returning false,
// when the zoomed image would exceed the pixel budget.
func (s *State) ZoomIn() bool {
	next := s.zoom * s.step
	w := float64(s.image.Width) * next
	h := float64(s.image.Height) * next
	if w*h > s.maxPixels {
		return false
	}
	s.zoom = next
	return true
}

// ZoomOut divides the zoom by the step. It is refused, returning false,
// when the result would be at or below the floor.
func (s *State) ZoomOut() bool {
	next := s.zoom / s.step
	if next <= s.floor {
		return false
	}
	s.zoom = next
	return true
}

// ResetZoom returns to 1:1. It reports whether the zoom changed.
func (s *State) ResetZoom() bool {
	if s.zoom == 1.0 {
		return false
	}
	s.zoom = 1.0
	return true
}

// Pan returns the current pan offset.
func (s *State) Pan() geometry.Point2D { return s.pan }

// SetPan moves the pan offset, clamped so the zoomed image never scrolls
// further than its edges within a viewport of the given size.
func (s *State) SetPan(p geometry.Point2D, viewport geometry.Point2D) geometry.Point2D {
	disp := s.DisplaySize()
	maxX := max(float64(disp.Width)-viewport.X, 0)
	maxY := max(float64(disp.Height)-viewport.Y, 0)
	s.pan = geometry.Point2D{
		X: min(max(p.X, 0), maxX),
		Y: min(max(p.Y, 0), maxY),
	}
	return s.pan
}

// PanBy shifts the pan offset by delta, see SetPan.
func (s *State) PanBy(delta geometry.Point2D, viewport geometry.Point2D) geometry.Point2D {
	return s.SetPan(s.pan.Add(delta), viewport)
}
