package fonts

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/VantageDataChat/GoSlides/geom"
)

// Metrics are vertical font metrics in user units.
type Metrics struct {
	Ascent  float64
	Descent float64
	Height  float64
}

// Metrics returns the vertical metrics of family at size.
func (c *Cache) Metrics(family string, size float64, bold, italic bool) Metrics {
	f := c.Font(family, bold, italic)
	var buf sfnt.Buffer
	m, err := f.Metrics(&buf, ppem(size), font.HintingNone)
	if err != nil {
		return Metrics{Ascent: size * 0.8, Descent: size * 0.2, Height: size}
	}
	return Metrics{
		Ascent:  fromFixed(m.Ascent),
		Descent: fromFixed(m.Descent),
		Height:  fromFixed(m.Height),
	}
}

// Measure returns the advance width of text, kerning included.
func (c *Cache) Measure(text, family string, size float64, bold, italic bool) float64 {
	return c.layout(text, family, size, bold, italic, nil)
}

// Outline returns the glyph outlines of text with the pen starting at
// (x, baseline). Glyphs without outlines (spaces) only advance the pen.
func (c *Cache) Outline(text, family string, size float64, bold, italic bool, x, baseline float64) *geom.Path {
	f := c.Font(family, bold, italic)
	path := &geom.Path{}
	var buf sfnt.Buffer
	c.layout(text, family, size, bold, italic, func(idx sfnt.GlyphIndex, penX float64) {
		segs, err := f.LoadGlyph(&buf, idx, ppem(size), nil)
		if err != nil {
			return
		}
		ox, oy := x+penX, baseline
		pt := func(p fixed.Point26_6) (float64, float64) {
			return ox + fromFixed(p.X), oy + fromFixed(p.Y)
		}
		open := false
		for _, s := range segs {
			switch s.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					path.Close()
				}
				path.MoveTo(pt(s.Args[0]))
				open = true
			case sfnt.SegmentOpLineTo:
				path.LineTo(pt(s.Args[0]))
			case sfnt.SegmentOpQuadTo:
				cx, cy := pt(s.Args[0])
				ex, ey := pt(s.Args[1])
				path.QuadTo(cx, cy, ex, ey)
			case sfnt.SegmentOpCubeTo:
				c1x, c1y := pt(s.Args[0])
				c2x, c2y := pt(s.Args[1])
				ex, ey := pt(s.Args[2])
				path.CubicTo(c1x, c1y, c2x, c2y, ex, ey)
			}
		}
		if open {
			path.Close()
		}
	})
	return path
}

// layout walks the glyphs of text, calling fn (when non-nil) with each
// glyph and its pen position, and returns the total advance.
func (c *Cache) layout(text, family string, size float64, bold, italic bool, fn func(sfnt.GlyphIndex, float64)) float64 {
	f := c.Font(family, bold, italic)
	var buf sfnt.Buffer
	em := ppem(size)
	var pen fixed.Int26_6
	prev := sfnt.GlyphIndex(0)
	for i, r := range text {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			idx = 0
		}
		if i > 0 && prev != 0 && idx != 0 {
			if k, err := f.Kern(&buf, prev, idx, em, font.HintingNone); err == nil {
				pen += k
			}
		}
		if fn != nil {
			fn(idx, fromFixed(pen))
		}
		adv, err := f.GlyphAdvance(&buf, idx, em, font.HintingNone)
		if err == nil {
			pen += adv
		}
		prev = idx
	}
	return fromFixed(pen)
}

func ppem(size float64) fixed.Int26_6 { return fixed.Int26_6(size*64 + 0.5) }

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }
