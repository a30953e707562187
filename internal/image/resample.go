package image

import (
	"image"
	"strings"

	"colony-counter/pkg/geometry"

	"golang.org/x/image/draw"
)

// Interpolator names accepted by InterpolatorByName.
const (
	InterpNearest    = "nearest"
	InterpApprox     = "approx"
	InterpBiLinear   = "bilinear"
	InterpCatmullRom = "catmullrom"
)

// InterpolatorByName returns the scaler for name, defaulting to bilinear
// for unknown names.
func InterpolatorByName(name string) draw.Interpolator {
	switch strings.ToLower(name) {
	case InterpNearest:
		return draw.NearestNeighbor
	case InterpApprox:
		return draw.ApproxBiLinear
	case InterpCatmullRom:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// ScaledSize returns (int(w*zoom), int(h*zoom)), never smaller than 1x1.
func ScaledSize(src image.Rectangle, zoom float64) geometry.SizeInt {
	w := max(int(float64(src.Dx())*zoom), 1)
	h := max(int(float64(src.Dy())*zoom), 1)
	return geometry.SizeInt{Width: w, Height: h}
}

// Resample returns src scaled by zoom into a new RGBA image whose origin
// is (0,0).
func Resample(src image.Image, zoom float64, interp draw.Interpolator) *image.RGBA {
	size := ScaledSize(src.Bounds(), zoom)
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	if interp == nil {
		interp = draw.BiLinear
	}
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
