package scene

import (
	"image/color"
	"strings"
)

// Predefined colors.
var (
	ColorBlack       = color.NRGBA{A: 0xFF}
	ColorWhite       = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	ColorTransparent = color.NRGBA{}
)

// ParseColor parses a CSS-style hex color: "#RGB", "#RRGGBB" or
// "#RRGGBBAA". The leading "#" is optional and case is ignored.
// "transparent" and the empty string parse to a fully transparent color.
// Anything else falls back to opaque black.
func ParseColor(s string) color.NRGBA {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "transparent") {
		return ColorTransparent
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "FF"
	}
	if !isValidHex(s) {
		return ColorBlack
	}
	return color.NRGBA{
		R: parseHexByte(s, 0),
		G: parseHexByte(s, 2),
		B: parseHexByte(s, 4),
		A: parseHexByte(s, 6),
	}
}

// ValidColor reports whether s is accepted by ParseColor without falling
// back to black.
func ValidColor(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "transparent") {
		return true
	}
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3, 6, 8:
		return isValidHex(s)
	}
	return false
}

// WithAlpha returns c with its alpha multiplied by a (clamped to [0,1]).
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(float64(c.A)*Clamp01(a) + 0.5)
	return c
}

// Clamp01 limits v to the unit interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// isValidHex checks that s is 3, 6 or 8 hex characters.
func isValidHex(s string) bool {
	if len(s) != 8 && len(s) != 6 && len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if hexVal(s[i]) < 0 {
			return false
		}
	}
	return true
}

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}
