// Package prefs provides JSON-based application preferences backed by viper.
package prefs

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"colony-counter/pkg/colorutil"

	"github.com/spf13/viper"
)

const (
	appDir    = "colony-counter"
	prefsFile = "config.json"
)

// Preference keys.
const (
	KeyLogLevel     = "log.level"
	KeyWindowWidth  = "window.width"
	KeyWindowHeight = "window.height"
	KeyZoomStep     = "view.zoomStep"
	KeyZoomFloor    = "view.zoomFloor"
	KeyMaxPixels    = "view.maxPixels"
	KeyResample     = "view.resample"
	KeyMarkRadius   = "marks.radius"
	KeyMarkColor    = "marks.color"

	KeyBindZoomIn     = "keys.zoomIn"
	KeyBindZoomOut    = "keys.zoomOut"
	KeyBindDeleteLast = "keys.deleteLast"
	KeyBindClearAll   = "keys.clearAll"
	KeyBindSave       = "keys.save"
	KeyBindLoad       = "keys.load"
)

// Prefs stores application preferences.
type Prefs struct {
	v    *viper.Viper
	path string
}

// Bindings maps each keyboard action to a single, case-sensitive rune.
type Bindings struct {
	ZoomIn     rune
	ZoomOut    rune
	DeleteLast rune
	ClearAll   rune
	Save       rune
	Load       rune
}

// DefaultBindings returns the stock key map.
func DefaultBindings() Bindings {
	return Bindings{ZoomIn: 'z', ZoomOut: 'x', DeleteLast: 'd', ClearAll: 'c', Save: 's', Load: 'l'}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyWindowWidth, 1200)
	v.SetDefault(KeyWindowHeight, 800)
	v.SetDefault(KeyZoomStep, 1.2)
	v.SetDefault(KeyZoomFloor, 0.1)
	v.SetDefault(KeyMaxPixels, 40_000_000)
	v.SetDefault(KeyResample, "bilinear")
	v.SetDefault(KeyMarkRadius, 10)
	v.SetDefault(KeyMarkColor, "#ff0000")

	def := DefaultBindings()
	v.SetDefault(KeyBindZoomIn, string(def.ZoomIn))
	v.SetDefault(KeyBindZoomOut, string(def.ZoomOut))
	v.SetDefault(KeyBindDeleteLast, string(def.DeleteLast))
	v.SetDefault(KeyBindClearAll, string(def.ClearAll))
	v.SetDefault(KeyBindSave, string(def.Save))
	v.SetDefault(KeyBindLoad, string(def.Load))
}

// DefaultDir returns <UserConfigDir>/colony-counter.
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir)
}

// Load reads config.json from dir, or from DefaultDir when dir is empty.
// A missing file yields the defaults without error. A malformed file also
// yields the defaults, together with the parse error.
func Load(dir string) (*Prefs, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	v := viper.New()
	setDefaults(v)
	p := &Prefs{v: v, path: filepath.Join(dir, prefsFile)}

	v.SetConfigFile(p.path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		fresh := viper.New()
		setDefaults(fresh)
		p.v = fresh
		return p, fmt.Errorf("error reading config file: %w", err)
	}
	return p, nil
}

// Path returns the config file location.
func (p *Prefs) Path() string { return p.path }

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return p.v.WriteConfigAs(p.path)
}

// LogLevel returns the configured log level name.
func (p *Prefs) LogLevel() string { return p.v.GetString(KeyLogLevel) }

// WindowSize returns the initial window size.
func (p *Prefs) WindowSize() (w, h float32) {
	return float32(p.v.GetFloat64(KeyWindowWidth)), float32(p.v.GetFloat64(KeyWindowHeight))
}

// SetWindowSize records the window size for the next start.
func (p *Prefs) SetWindowSize(w, h float32) {
	p.v.Set(KeyWindowWidth, int(w))
	p.v.Set(KeyWindowHeight, int(h))
}

// ZoomStep returns the multiplicative zoom factor.
func (p *Prefs) ZoomStep() float64 { return p.v.GetFloat64(KeyZoomStep) }

// ZoomFloor returns the zoom level that zooming out may not reach.
func (p *Prefs) ZoomFloor() float64 { return p.v.GetFloat64(KeyZoomFloor) }

// MaxPixels returns the largest zoomed image, in pixels, that zooming in
// may produce.
func (p *Prefs) MaxPixels() int { return p.v.GetInt(KeyMaxPixels) }

// Resample returns the interpolator name used when rescaling the image.
func (p *Prefs) Resample() string { return p.v.GetString(KeyResample) }

// MarkRadius returns the ring radius in display pixels.
func (p *Prefs) MarkRadius() int {
	r := p.v.GetInt(KeyMarkRadius)
	if r <= 0 {
		return 10
	}
	return r
}

// MarkColor returns the ring and label colour. Invalid values give red.
func (p *Prefs) MarkColor() color.NRGBA {
	c, err := colorutil.ParseHex(p.v.GetString(KeyMarkColor))
	if err != nil {
		return colorutil.Red
	}
	return c
}

// Bindings returns the key map. It falls back to DefaultBindings, with an
// error, when any entry is not exactly one rune or two actions share a key.
func (p *Prefs) Bindings() (Bindings, error) {
	var b Bindings
	entries := []struct {
		key string
		dst *rune
	}{
		{KeyBindZoomIn, &b.ZoomIn},
		{KeyBindZoomOut, &b.ZoomOut},
		{KeyBindDeleteLast, &b.DeleteLast},
		{KeyBindClearAll, &b.ClearAll},
		{KeyBindSave, &b.Save},
		{KeyBindLoad, &b.Load},
	}

	seen := make(map[rune]string, len(entries))
	for _, e := range entries {
		s := p.v.GetString(e.key)
		if utf8.RuneCountInString(s) != 1 {
			return DefaultBindings(), fmt.Errorf("%s: want a single character, got %q", e.key, s)
		}
		r, _ := utf8.DecodeRuneInString(s)
		if other, dup := seen[r]; dup {
			return DefaultBindings(), fmt.Errorf("%s: %q is already bound to %s", e.key, s, other)
		}
		seen[r] = e.key
		*e.dst = r
	}
	return b, nil
}
