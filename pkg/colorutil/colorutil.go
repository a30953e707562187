// Package colorutil provides shared colours and colour parsing.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Common colours used by the canvas and the mark overlay.
var (
	Red  = color.NRGBA{R: 0xff, A: 0xff}
	Gray = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// ParseHex parses #rgb or #rrggbb. The leading # is optional.
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}
