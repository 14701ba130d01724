package scene

import (
	"image/color"

	"github.com/VantageDataChat/GoSlides/geom"
)

// Paint is either a solid color or a linear gradient. A Paint with neither
// set paints nothing.
type Paint struct {
	Color    string    `json:"color,omitempty"`
	Gradient *Gradient `json:"gradient,omitempty"`
}

// Solid returns a solid paint.
func Solid(hex string) Paint { return Paint{Color: hex} }

// IsNone reports whether p paints nothing.
func (p Paint) IsNone() bool {
	if p.Gradient != nil {
		return false
	}
	return p.Color == "" || ParseColor(p.Color).A == 0
}

// Gradient is a two-stop linear gradient.
type Gradient struct {
	Start string `json:"start"`
	End   string `json:"end"`
	// Angle is in degrees; 0 runs left to right, 90 top to bottom.
	// Nil means "no angle defined".
	Angle *float64 `json:"angle,omitempty"`
	// Stops holds the start and end stop positions in [0,1].
	// Empty means [0, 1].
	Stops []float64 `json:"stops,omitempty"`
}

// StopPositions returns the start and end stop offsets.
func (g *Gradient) StopPositions() (float64, float64) {
	if len(g.Stops) != 2 {
		return 0, 1
	}
	return Clamp01(g.Stops[0]), Clamp01(g.Stops[1])
}

// AngleOr returns the gradient angle, or def when none is defined.
func (g *Gradient) AngleOr(def float64) float64 {
	if g.Angle == nil {
		return def
	}
	return *g.Angle
}

// BlendMode is the compositing operator used when an element is drawn.
type BlendMode string

const (
	BlendNormal     BlendMode = "normal"
	BlendMultiply   BlendMode = "multiply"
	BlendScreen     BlendMode = "screen"
	BlendOverlay    BlendMode = "overlay"
	BlendDarken     BlendMode = "darken"
	BlendLighten    BlendMode = "lighten"
	BlendColorDodge BlendMode = "color-dodge"
	BlendColorBurn  BlendMode = "color-burn"
	BlendHardLight  BlendMode = "hard-light"
	BlendSoftLight  BlendMode = "soft-light"
	BlendDifference BlendMode = "difference"
	BlendExclusion  BlendMode = "exclusion"
)

// IsNormal reports whether b is plain source-over compositing.
func (b BlendMode) IsNormal() bool { return b == "" || b == BlendNormal }

// Shadow is a drop shadow.
type Shadow struct {
	Enabled bool    `json:"enabled"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Spread  float64 `json:"spread"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// RGBA returns the shadow color with its opacity applied.
func (s Shadow) RGBA() color.NRGBA {
	return WithAlpha(ParseColor(s.Color), s.Opacity)
}

// CornerRadius is a uniform radius or four independent ones, in percent of
// half the element's shorter side.
type CornerRadius struct {
	Uniform float64       `json:"uniform,omitempty"`
	Corners *geom.Corners `json:"corners,omitempty"`
}

// Percentages returns the per-corner percentages (tl, tr, br, bl).
func (c CornerRadius) Percentages() geom.Corners {
	if c.Corners != nil {
		return *c.Corners
	}
	return geom.Corners{c.Uniform, c.Uniform, c.Uniform, c.Uniform}
}

// Full reports whether every corner is at 100%, which turns a rectangle
// into its inscribed ellipse.
func (c CornerRadius) Full() bool {
	for _, p := range c.Percentages() {
		if p < 100 {
			return false
		}
	}
	return true
}

// Radii converts the percentages into lengths for a w×h box.
func (c CornerRadius) Radii(w, h float64) geom.Corners {
	half := min(w, h) / 2
	var out geom.Corners
	for i, p := range c.Percentages() {
		out[i] = half * Clamp01(p/100)
	}
	return out
}

// TextAlign is horizontal text alignment.
type TextAlign string

const (
	AlignLeft    TextAlign = "left"
	AlignCenter  TextAlign = "center"
	AlignRight   TextAlign = "right"
	AlignJustify TextAlign = "justify"
)

// Typography holds text attributes.
type Typography struct {
	Family     string    `json:"family,omitempty"`
	Size       float64   `json:"size,omitempty"`
	Bold       bool      `json:"bold,omitempty"`
	Italic     bool      `json:"italic,omitempty"`
	Color      string    `json:"color,omitempty"`
	Fill       *Paint    `json:"fill,omitempty"` // gradient alternative to Color
	Align      TextAlign `json:"align,omitempty"`
	LineHeight float64   `json:"lineHeight,omitempty"`
}

// Text defaults.
const (
	DefaultFontFamily = "Inter"
	DefaultFontSize   = 16
	DefaultLineHeight = 1.2
)

// Normalized fills unset typography fields with defaults.
func (t Typography) Normalized() Typography {
	if t.Family == "" {
		t.Family = DefaultFontFamily
	}
	if t.Size <= 0 {
		t.Size = DefaultFontSize
	}
	if t.Color == "" {
		t.Color = "#000000"
	}
	if t.Align == "" {
		t.Align = AlignLeft
	}
	if t.LineHeight <= 0 {
		t.LineHeight = DefaultLineHeight
	}
	return t
}

// Style is the visual style shared by every element type.
type Style struct {
	Fill         Paint        `json:"fill,omitempty"`
	Stroke       Paint        `json:"stroke,omitempty"`
	StrokeWidth  float64      `json:"strokeWidth,omitempty"`
	CornerRadius CornerRadius `json:"cornerRadius,omitempty"`
	Blend        BlendMode    `json:"blend,omitempty"`
	Blur         float64      `json:"blur,omitempty"`
	Shadow       Shadow       `json:"shadow,omitempty"`
	Typography   Typography   `json:"typography,omitempty"`
	// ZIndex is persisted for storage compatibility. Array position is the
	// drawing order; see DrawOrder.
	ZIndex int `json:"zIndex,omitempty"`
}
