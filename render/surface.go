package render

import (
	"image"
	"image/color"

	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/scene"
)

// Surface is the 2D drawing target the Engine paints onto. The raster
// backend draws pixels for export and the record backend captures a display
// list for the interactive editor; both receive the exact same calls.
//
// Coordinates are user units transformed by the current transform. Save
// and Restore push and pop the transform and clip. BeginLayer and EndLayer
// bracket drawing that is composited as a group.
type Surface interface {
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(rad float64)
	Scale(sx, sy float64)

	BeginLayer(LayerStyle)
	EndLayer()

	FillPath(p *geom.Path, paint Paint)
	StrokePath(p *geom.Path, paint Paint, stroke StrokeStyle)
	ClipPath(p *geom.Path)
	// DrawImage blits the src sub-rectangle of img (in image pixels) into
	// dst (in user units).
	DrawImage(img Image, src, dst geom.Rect)
	// FillText draws a single line of text whose line box starts at y.
	FillText(text string, x, y float64, f Font, paint Paint)
	MeasureText(text string, f Font) float64
}

// Paint is a solid color or, when Gradient is set, a linear gradient.
type Paint struct {
	Color    color.NRGBA     `json:"color"`
	Gradient *LinearGradient `json:"gradient,omitempty"`
}

// IsZero reports whether the paint draws nothing.
func (p Paint) IsZero() bool {
	if p.Gradient != nil {
		for _, s := range p.Gradient.Stops {
			if s.Color.A != 0 {
				return false
			}
		}
		return true
	}
	return p.Color.A == 0
}

// LinearGradient runs from (X0, Y0) to (X1, Y1) in user units.
type LinearGradient struct {
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Stops []Stop  `json:"stops"`
}

// Stop is a gradient color stop with its offset in [0,1].
type Stop struct {
	Offset float64     `json:"offset"`
	Color  color.NRGBA `json:"color"`
}

// Cap is a stroke end style.
type Cap string

const (
	CapButt  Cap = "butt"
	CapRound Cap = "round"
)

// StrokeStyle describes how a path outline is stroked.
type StrokeStyle struct {
	Width float64 `json:"width"`
	Cap   Cap     `json:"cap,omitempty"`
}

// Shadow is a drop shadow in user units.
type Shadow struct {
	OffsetX float64     `json:"offsetX"`
	OffsetY float64     `json:"offsetY"`
	Blur    float64     `json:"blur"`
	Spread  float64     `json:"spread"`
	Color   color.NRGBA `json:"color"`
}

// LayerStyle holds the group compositing applied at EndLayer, in this
// order: drop shadow, blur filter, opacity, blend.
type LayerStyle struct {
	Opacity float64         `json:"opacity"`
	Blend   scene.BlendMode `json:"blend,omitempty"`
	Blur    float64         `json:"blur,omitempty"`
	Shadow  *Shadow         `json:"shadow,omitempty"`
}

// IsNoop reports whether the layer would composite exactly like drawing
// directly onto the parent.
func (l LayerStyle) IsNoop() bool {
	return l.Opacity >= 1 && l.Blend.IsNormal() && l.Blur <= 0 && l.Shadow == nil
}

// Font selects a face for text drawing and measurement.
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
}

// Image is a decoded bitmap together with the source key it was loaded
// from. Key is what the record backend serialises.
type Image struct {
	Key string
	Img image.Image
}

// Size is the pixel size of the image.
func (i Image) Size() (w, h float64) {
	if i.Img == nil {
		return 0, 0
	}
	b := i.Img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}
