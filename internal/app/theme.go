package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CounterTheme is the default fyne theme with its accents taken from the
// mark colour, so buttons and selections match the rings on the plate.
type CounterTheme struct {
	fyne.Theme
	mark color.NRGBA
}

var _ fyne.Theme = (*CounterTheme)(nil)

// NewCounterTheme returns a theme accented with mark. A zero alpha is
// treated as opaque.
func NewCounterTheme(mark color.NRGBA) *CounterTheme {
	if mark.A == 0 {
		mark.A = 0xff
	}
	return &CounterTheme{Theme: theme.DefaultTheme(), mark: mark}
}

// Color overrides the accent colours and defers everything else.
func (t *CounterTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return t.mark
	case theme.ColorNameFocus:
		return t.withAlpha(0x7f)
	case theme.ColorNameSelection:
		return t.withAlpha(0x40)
	default:
		return t.Theme.Color(name, variant)
	}
}

func (t *CounterTheme) withAlpha(a uint8) color.NRGBA {
	c := t.mark
	c.A = a
	return c
}
