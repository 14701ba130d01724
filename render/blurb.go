package render

import (
	"math"

	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/scene"
)

// Blurb geometry in user units.
const (
	TailLength   = 20
	BlurbPadding = 12
	// tailBase is the width of the tail where it meets the body.
	tailBase = 20
)

// edge is a side of the blurb body.
type edge int

const (
	edgeTop edge = iota
	edgeRight
	edgeBottom
	edgeLeft
	// edgeNone marks a blurb too small to carry its tail.
	edgeNone
)

// tailEdge returns the body side a tail anchor sits on. Corner anchors use
// the top or bottom side.
func tailEdge(t scene.TailPosition) edge {
	switch t {
	case scene.TailTopLeft, scene.TailTop, scene.TailTopRight:
		return edgeTop
	case scene.TailRight:
		return edgeRight
	case scene.TailLeft:
		return edgeLeft
	}
	return edgeBottom
}

// tailFits reports whether box has room for a tail on its side: more than
// TailLength across the tail axis and at least the tail base along it.
func tailFits(box geom.Rect, tail scene.TailPosition) bool {
	switch tailEdge(tail) {
	case edgeLeft, edgeRight:
		return box.W > TailLength && box.H >= tailBase
	}
	return box.H > TailLength && box.W >= tailBase
}

// BlurbBody returns the rounded body of a blurb occupying box: box minus
// TailLength on the tail side. A box too small for the tail is all body.
func BlurbBody(box geom.Rect, tail scene.TailPosition) geom.Rect {
	if !tailFits(box, tail) {
		return geom.R(box.X, box.Y, math.Max(0, box.W), math.Max(0, box.H))
	}
	switch tailEdge(tail) {
	case edgeTop:
		return geom.R(box.X, box.Y+TailLength, box.W, box.H-TailLength)
	case edgeRight:
		return geom.R(box.X, box.Y, box.W-TailLength, box.H)
	case edgeLeft:
		return geom.R(box.X+TailLength, box.Y, box.W-TailLength, box.H)
	}
	return geom.R(box.X, box.Y, box.W, box.H-TailLength)
}

// BlurbPath returns the blurb outline: the body with a triangular tail
// spliced into one of its sides, the tip touching box's outer edge.
func BlurbPath(box geom.Rect, tail scene.TailPosition, radii geom.Corners) *geom.Path {
	if tail == "" {
		tail = scene.TailBottomLeft
	}
	body := BlurbBody(box, tail)
	limit := math.Min(body.W, body.H) / 2
	for i, v := range radii {
		radii[i] = math.Max(0, math.Min(v, limit))
	}
	tl, tr, br, bl := radii[0], radii[1], radii[2], radii[3]
	x0, y0, x1, y1 := body.X, body.Y, body.Right(), body.Bottom()
	half := tailBase / 2.0

	// base center along the edge, and the tip
	var along float64
	var tip geom.Point
	side := tailEdge(tail)
	if !tailFits(box, tail) {
		side = edgeNone
	}
	switch tail {
	case scene.TailTopLeft:
		along = clampF(x0+tl+tailBase, x0+tl+half, x1-tr-half)
		tip = geom.Pt(along-half, box.Y)
	case scene.TailTop:
		along = body.CenterX()
		tip = geom.Pt(along, box.Y)
	case scene.TailTopRight:
		along = clampF(x1-tr-tailBase, x0+tl+half, x1-tr-half)
		tip = geom.Pt(along+half, box.Y)
	case scene.TailRight:
		along = body.CenterY()
		tip = geom.Pt(box.Right(), along)
	case scene.TailBottomRight:
		along = clampF(x1-br-tailBase, x0+bl+half, x1-br-half)
		tip = geom.Pt(along+half, box.Bottom())
	case scene.TailBottom:
		along = body.CenterX()
		tip = geom.Pt(along, box.Bottom())
	case scene.TailLeft:
		along = body.CenterY()
		tip = geom.Pt(box.X, along)
	default:
		along = clampF(x0+bl+tailBase, x0+bl+half, x1-br-half)
		tip = geom.Pt(along-half, box.Bottom())
	}

	p := &geom.Path{}
	// corner rounds off (cx, cy) from the current point to (ex, ey)
	corner := func(r, cx, cy, ex, ey float64) {
		if r <= 0 {
			p.LineTo(cx, cy)
			return
		}
		last := p.Points[len(p.Points)-1]
		p.CubicTo(
			last.X+(cx-last.X)*kappa, last.Y+(cy-last.Y)*kappa,
			ex+(cx-ex)*kappa, ey+(cy-ey)*kappa,
			ex, ey,
		)
	}

	p.MoveTo(x0+tl, y0)
	if side == edgeTop {
		p.LineTo(along-half, y0)
		p.LineTo(tip.X, tip.Y)
		p.LineTo(along+half, y0)
	}
	p.LineTo(x1-tr, y0)
	corner(tr, x1, y0, x1, y0+tr)
	if side == edgeRight {
		p.LineTo(x1, along-half)
		p.LineTo(tip.X, tip.Y)
		p.LineTo(x1, along+half)
	}
	p.LineTo(x1, y1-br)
	corner(br, x1, y1, x1-br, y1)
	if side == edgeBottom {
		p.LineTo(along+half, y1)
		p.LineTo(tip.X, tip.Y)
		p.LineTo(along-half, y1)
	}
	p.LineTo(x0+bl, y1)
	corner(bl, x0, y1, x0, y1-bl)
	if side == edgeLeft {
		p.LineTo(x0, along+half)
		p.LineTo(tip.X, tip.Y)
		p.LineTo(x0, along-half)
	}
	p.LineTo(x0, y0+tl)
	corner(tl, x0, y0, x0+tl, y0)
	p.Close()
	return p
}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498307936

func clampF(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(v, hi))
}

func (e *Engine) drawBlurb(s Surface, el *scene.Element) error {
	box := el.Bounds()
	tail := el.Blurb.Tail
	if tail == "" {
		tail = scene.TailBottomLeft
	}
	body := BlurbBody(box, tail)
	cr := el.Style.CornerRadius
	if cr.Uniform == 0 && cr.Corners == nil {
		cr.Uniform = 30
	}
	path := BlurbPath(box, tail, cr.Radii(body.W, body.H))

	fill := el.Style.Fill
	if fill.IsNone() {
		fill = scene.Solid("#FFFFFF")
	}
	s.FillPath(path, resolvePaint(fill, box, 1))
	if el.Style.StrokeWidth > 0 && !el.Style.Stroke.IsNone() {
		s.StrokePath(path, resolvePaint(el.Style.Stroke, box, 1), StrokeStyle{Width: el.Style.StrokeWidth})
	}

	typo := el.Style.Typography.Normalized()
	drawTextBlock(s, textBlock{
		text:    el.Blurb.Text,
		box:     body.Inset(BlurbPadding),
		typo:    typo,
		paint:   textPaint(typo, body),
		vcenter: true,
	})
	return nil
}
