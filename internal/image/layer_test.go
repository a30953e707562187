package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"colony-counter/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writeWith(t *testing.T, name string, enc func(f *os.File) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, enc(f))
	require.NoError(t, f.Close())
	return path
}

func TestLoad_Formats(t *testing.T) {
	src := solid(30, 20, color.RGBA{R: 200, A: 255})

	cases := map[string]func(f *os.File) error{
		"plate.png":  func(f *os.File) error { return png.Encode(f, src) },
		"plate.bmp":  func(f *os.File) error { return bmp.Encode(f, src) },
		"plate.tiff": func(f *os.File) error { return tiff.Encode(f, src, nil) },
	}
	for name, enc := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeWith(t, name, enc)

			layer, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, geometry.SizeInt{Width: 30, Height: 20}, layer.Size())
			assert.Equal(t, name, layer.Name())
			assert.NotEmpty(t, layer.Format)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(dir, "junk.jpg")
	require.NoError(t, os.WriteFile(junk, []byte("definitely not a jpeg"), 0o644))
	_, err = Load(junk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode image")
}

func TestNilLayerSize(t *testing.T) {
	var l *Layer
	assert.True(t, l.Size().Empty())
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("/tmp/a.JPG"))
	assert.True(t, IsSupportedFormat("b.tif"))
	assert.True(t, IsSupportedFormat("c.bmp"))
	assert.False(t, IsSupportedFormat("d.json"))
}

func TestResample(t *testing.T) {
	src := solid(100, 50, color.RGBA{G: 255, A: 255})

	out := Resample(src, 1.2, nil)
	assert.Equal(t, image.Rect(0, 0, 120, 60), out.Bounds())
	r, g, b, a := out.At(60, 30).RGBA()
	assert.Less(t, r, uint32(0x100))
	assert.Greater(t, g, uint32(0xff00))
	assert.Less(t, b, uint32(0x100))
	assert.Greater(t, a, uint32(0xff00))

	tiny := Resample(solid(3, 3, color.White), 0.11, draw.NearestNeighbor)
	assert.Equal(t, image.Rect(0, 0, 1, 1), tiny.Bounds())
}

func TestResample_OffsetSource(t *testing.T) {
	src := solid(40, 40, color.White).SubImage(image.Rect(10, 10, 30, 20))
	out := Resample(src, 2, draw.NearestNeighbor)
	assert.Equal(t, image.Rect(0, 0, 40, 20), out.Bounds())
}

func TestInterpolatorByName(t *testing.T) {
	assert.Equal(t, draw.NearestNeighbor, InterpolatorByName("nearest"))
	assert.Equal(t, draw.CatmullRom, InterpolatorByName("CatmullRom"))
	assert.Equal(t, draw.BiLinear, InterpolatorByName("whatever"))
}
