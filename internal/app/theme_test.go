package app

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
)

func TestCounterTheme_AccentsFollowMarkColour(t *testing.T) {
	green := color.NRGBA{G: 0xc0, A: 0xff}
	th := NewCounterTheme(green)

	assert.Equal(t, green, th.Color(theme.ColorNamePrimary, theme.VariantDark))
	assert.Equal(t, color.NRGBA{G: 0xc0, A: 0x40}, th.Color(theme.ColorNameSelection, theme.VariantLight))
	assert.Equal(t, color.NRGBA{G: 0xc0, A: 0x7f}, th.Color(theme.ColorNameFocus, theme.VariantLight))
}

func TestCounterTheme_DefersOtherColours(t *testing.T) {
	a := test.NewApp()
	t.Cleanup(a.Quit)

	th := NewCounterTheme(color.NRGBA{R: 0xff})

	want := theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark)
	assert.Equal(t, want, th.Color(theme.ColorNameBackground, theme.VariantDark))
	assert.Equal(t, uint8(0xff), th.mark.A)
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNamePadding), th.Size(theme.SizeNamePadding))
}
