// Package raster is the export backend of the render engine: it draws onto
// an offscreen *image.RGBA.
//
// Paths are transformed to device space here and handed to gg at its
// identity transform; gg supplies scanline filling, stroking and gradients.
// Clipping uses gg masks, image blits go through x/image/draw, and layers
// are composited with the separable blend modes after shadow and blur.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/VantageDataChat/GoSlides/fonts"
	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/render"
)

type state struct {
	m    geom.Affine
	clip *image.Alpha
}

type layer struct {
	img   *image.RGBA
	dc    *gg.Context
	style render.LayerStyle
	// scale is the device scale when the layer was opened; shadow offsets
	// and blur radii are multiplied by it.
	scale float64
}

// Canvas is a raster render.Surface.
type Canvas struct {
	w, h   int
	fonts  *fonts.Cache
	stack  []state
	layers []*layer
}

var _ render.Surface = (*Canvas)(nil)

// New creates a transparent w×h canvas. Text is shaped with fc; a nil fc
// uses the bundled Go fonts only.
func New(w, h int, fc *fonts.Cache) *Canvas {
	if fc == nil {
		fc = fonts.NewCacheDirs()
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	return &Canvas{
		w:      w,
		h:      h,
		fonts:  fc,
		stack:  []state{{m: geom.Identity()}},
		layers: []*layer{{img: img, dc: gg.NewContextForRGBA(img), scale: 1}},
	}
}

// NewScaled creates a canvas for a logical w×h page rendered at an integer
// supersampling factor. The returned canvas draws in logical units.
func NewScaled(w, h float64, factor int, fc *fonts.Cache) *Canvas {
	if factor < 1 {
		factor = 1
	}
	c := New(int(math.Ceil(w*float64(factor))), int(math.Ceil(h*float64(factor))), fc)
	c.Scale(float64(factor), float64(factor))
	return c
}

// Image returns the base image. Open layers are not included.
func (c *Canvas) Image() *image.RGBA { return c.layers[0].img }

// Bounds returns the device size.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.w, c.h) }

func (c *Canvas) st() *state  { return &c.stack[len(c.stack)-1] }
func (c *Canvas) top() *layer { return c.layers[len(c.layers)-1] }

// Save pushes the transform and clip.
func (c *Canvas) Save() { c.stack = append(c.stack, *c.st()) }

// Restore pops the transform and clip. The base state is never popped.
func (c *Canvas) Restore() {
	if len(c.stack) > 1 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

func (c *Canvas) Translate(x, y float64) { c.st().m = c.st().m.Translate(x, y) }
func (c *Canvas) Rotate(rad float64)     { c.st().m = c.st().m.Rotate(rad) }
func (c *Canvas) Scale(sx, sy float64)   { c.st().m = c.st().m.Scale(sx, sy) }

// BeginLayer redirects drawing into a fresh transparent layer.
func (c *Canvas) BeginLayer(style render.LayerStyle) {
	img := image.NewRGBA(image.Rect(0, 0, c.w, c.h))
	c.layers = append(c.layers, &layer{
		img:   img,
		dc:    gg.NewContextForRGBA(img),
		style: style,
		scale: c.st().m.ScaleFactor(),
	})
}

// EndLayer composites the current layer onto its parent.
func (c *Canvas) EndLayer() {
	if len(c.layers) < 2 {
		return
	}
	l := c.top()
	c.layers = c.layers[:len(c.layers)-1]
	composite(c.top().img, l)
}

// FillPath fills p with paint using the nonzero winding rule.
func (c *Canvas) FillPath(p *geom.Path, paint render.Paint) {
	if p.Empty() || paint.IsZero() {
		return
	}
	dc := c.prepare(p)
	dc.SetFillStyle(c.pattern(paint))
	dc.SetFillRule(gg.FillRuleWinding)
	dc.Fill()
}

// StrokePath strokes p. The width is in user units and scales with the
// current transform.
func (c *Canvas) StrokePath(p *geom.Path, paint render.Paint, s render.StrokeStyle) {
	if p.Empty() || paint.IsZero() || s.Width <= 0 {
		return
	}
	dc := c.prepare(p)
	dc.SetStrokeStyle(c.pattern(paint))
	dc.SetLineWidth(s.Width * c.st().m.ScaleFactor())
	dc.SetLineJoin(gg.LineJoinRound)
	if s.Cap == render.CapRound {
		dc.SetLineCap(gg.LineCapRound)
	} else {
		dc.SetLineCap(gg.LineCapButt)
	}
	dc.Stroke()
}

// ClipPath intersects the clip with p.
func (c *Canvas) ClipPath(p *geom.Path) {
	mc := gg.NewContext(c.w, c.h)
	trace(mc, p.Transform(c.st().m))
	mc.SetColor(color.White)
	mc.Fill()
	mask := mc.AsMask()
	if cur := c.st().clip; cur != nil {
		for i, a := range cur.Pix {
			mask.Pix[i] = uint8(uint16(mask.Pix[i]) * uint16(a) / 255)
		}
	}
	c.st().clip = mask
}

// DrawImage maps the src rectangle of img onto dst with bilinear
// filtering.
func (c *Canvas) DrawImage(img render.Image, src, dst geom.Rect) {
	if img.Img == nil || src.Empty() || dst.Empty() {
		return
	}
	b := img.Img.Bounds()
	sr := image.Rect(
		b.Min.X+int(math.Floor(src.X)), b.Min.Y+int(math.Floor(src.Y)),
		b.Min.X+int(math.Ceil(src.Right())), b.Min.Y+int(math.Ceil(src.Bottom())),
	).Intersect(b)
	if sr.Empty() {
		return
	}
	m := c.st().m.
		Translate(dst.X, dst.Y).
		Scale(dst.W/src.W, dst.H/src.H).
		Translate(-src.X-float64(b.Min.X), -src.Y-float64(b.Min.Y))
	var opts draw.Options
	if clip := c.st().clip; clip != nil {
		opts.DstMask = clip
	}
	draw.BiLinear.Transform(c.top().img, f64.Aff3{m.A, m.C, m.E, m.B, m.D, m.F}, img.Img, sr, draw.Over, &opts)
}

// FillText fills the glyph outlines of text. y is the top of the line box;
// the baseline sits one ascent below it.
func (c *Canvas) FillText(text string, x, y float64, f render.Font, paint render.Paint) {
	m := c.fonts.Metrics(f.Family, f.Size, f.Bold, f.Italic)
	c.FillPath(c.fonts.Outline(text, f.Family, f.Size, f.Bold, f.Italic, x, y+m.Ascent), paint)
}

// MeasureText returns the advance width of text in user units.
func (c *Canvas) MeasureText(text string, f render.Font) float64 {
	return c.fonts.Measure(text, f.Family, f.Size, f.Bold, f.Italic)
}

// prepare loads p in device space into the current layer's context and
// applies the clip.
func (c *Canvas) prepare(p *geom.Path) *gg.Context {
	dc := c.top().dc
	if clip := c.st().clip; clip != nil {
		// sizes always match, SetMask cannot fail here
		_ = dc.SetMask(clip)
	} else {
		dc.ResetClip()
	}
	trace(dc, p.Transform(c.st().m))
	return dc
}

func (c *Canvas) pattern(p render.Paint) gg.Pattern {
	if g := p.Gradient; g != nil {
		m := c.st().m
		a := m.Apply(geom.Pt(g.X0, g.Y0))
		b := m.Apply(geom.Pt(g.X1, g.Y1))
		grad := gg.NewLinearGradient(a.X, a.Y, b.X, b.Y)
		for _, s := range g.Stops {
			grad.AddColorStop(s.Offset, s.Color)
		}
		return grad
	}
	return gg.NewSolidPattern(p.Color)
}

// trace replaces the current path of dc with p.
func trace(dc *gg.Context, p *geom.Path) {
	dc.ClearPath()
	p.Walk(func(v geom.Verb, pts []geom.Point) {
		switch v {
		case geom.MoveTo:
			dc.MoveTo(pts[0].X, pts[0].Y)
		case geom.LineTo:
			dc.LineTo(pts[0].X, pts[0].Y)
		case geom.QuadTo:
			dc.QuadraticTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		case geom.CubicTo:
			dc.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case geom.Close:
			dc.ClosePath()
		}
	})
}
