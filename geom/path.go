package geom

import (
	"math"
	"strconv"
	"strings"
)

// Verb is a path construction command.
type Verb uint8

const (
	MoveTo Verb = iota
	LineTo
	QuadTo
	CubicTo
	Close
)

// String returns the SVG-style letter of the verb.
func (v Verb) String() string {
	switch v {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case QuadTo:
		return "Q"
	case CubicTo:
		return "C"
	case Close:
		return "Z"
	}
	return "?"
}

// points returns how many points the verb consumes.
func (v Verb) points() int {
	switch v {
	case MoveTo, LineTo:
		return 1
	case QuadTo:
		return 2
	case CubicTo:
		return 3
	}
	return 0
}

// Path is a sequence of subpaths built from verbs and their points.
// The zero value is an empty path ready to use.
type Path struct {
	Verbs  []Verb  `json:"verbs"`
	Points []Point `json:"points"`
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.Verbs = append(p.Verbs, MoveTo)
	p.Points = append(p.Points, Point{x, y})
}

// LineTo adds a straight segment.
func (p *Path) LineTo(x, y float64) {
	p.Verbs = append(p.Verbs, LineTo)
	p.Points = append(p.Points, Point{x, y})
}

// QuadTo adds a quadratic Bézier segment.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Verbs = append(p.Verbs, QuadTo)
	p.Points = append(p.Points, Point{cx, cy}, Point{x, y})
}

// CubicTo adds a cubic Bézier segment.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.Verbs = append(p.Verbs, CubicTo)
	p.Points = append(p.Points, Point{c1x, c1y}, Point{c2x, c2y}, Point{x, y})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Verbs = append(p.Verbs, Close)
}

// Empty reports whether the path has no drawing commands.
func (p *Path) Empty() bool { return p == nil || len(p.Verbs) == 0 }

// Walk calls fn for every verb with the points it consumes.
func (p *Path) Walk(fn func(v Verb, pts []Point)) {
	i := 0
	for _, v := range p.Verbs {
		n := v.points()
		fn(v, p.Points[i:i+n])
		i += n
	}
}

// Transform returns a copy of p mapped through m. Béziers are affine
// invariant, so mapping control points is exact.
func (p *Path) Transform(m Affine) *Path {
	out := &Path{
		Verbs:  append([]Verb(nil), p.Verbs...),
		Points: make([]Point, len(p.Points)),
	}
	for i, pt := range p.Points {
		out.Points[i] = m.Apply(pt)
	}
	return out
}

// SVG formats p as SVG path data using absolute M, L, Q, C and Z
// commands. Numbers are printed with full precision.
func (p *Path) SVG() string {
	var b strings.Builder
	p.Walk(func(v Verb, pts []Point) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(v.String())
		for _, pt := range pts {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(pt.X, 'g', -1, 64))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(pt.Y, 'g', -1, 64))
		}
	})
	return b.String()
}

// Append adds all subpaths of q to p.
func (p *Path) Append(q *Path) {
	p.Verbs = append(p.Verbs, q.Verbs...)
	p.Points = append(p.Points, q.Points...)
}

// Bounds returns the bounding box of all points, control points included.
func (p *Path) Bounds() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	x0, y0 := p.Points[0].X, p.Points[0].Y
	x1, y1 := x0, y0
	for _, pt := range p.Points[1:] {
		x0 = math.Min(x0, pt.X)
		y0 = math.Min(y0, pt.Y)
		x1 = math.Max(x1, pt.X)
		y1 = math.Max(y1, pt.Y)
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// kappa places cubic control points that approximate a quarter ellipse.
const kappa = 0.5522847498307936

// RectPath returns a closed rectangle.
func RectPath(r Rect) *Path {
	p := &Path{}
	p.MoveTo(r.X, r.Y)
	p.LineTo(r.Right(), r.Y)
	p.LineTo(r.Right(), r.Bottom())
	p.LineTo(r.X, r.Bottom())
	p.Close()
	return p
}

// EllipsePath returns the ellipse inscribed in r.
func EllipsePath(r Rect) *Path {
	cx, cy := r.CenterX(), r.CenterY()
	rx, ry := r.W/2, r.H/2
	ox, oy := rx*kappa, ry*kappa
	p := &Path{}
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.Close()
	return p
}

// Corners holds per-corner radii in top-left, top-right, bottom-right,
// bottom-left order.
type Corners [4]float64

// Uniform reports whether all four radii are equal.
func (c Corners) Uniform() bool {
	return c[0] == c[1] && c[1] == c[2] && c[2] == c[3]
}

// RoundedRectPath returns r with rounded corners. Radii are clamped to half
// the shorter side; all-zero radii produce a plain rectangle.
func RoundedRectPath(r Rect, radii Corners) *Path {
	limit := math.Min(r.W, r.H) / 2
	for i, v := range radii {
		radii[i] = math.Max(0, math.Min(v, limit))
	}
	if radii == (Corners{}) {
		return RectPath(r)
	}
	tl, tr, br, bl := radii[0], radii[1], radii[2], radii[3]
	x0, y0, x1, y1 := r.X, r.Y, r.Right(), r.Bottom()
	p := &Path{}
	p.MoveTo(x0+tl, y0)
	p.LineTo(x1-tr, y0)
	if tr > 0 {
		p.CubicTo(x1-tr+tr*kappa, y0, x1, y0+tr-tr*kappa, x1, y0+tr)
	}
	p.LineTo(x1, y1-br)
	if br > 0 {
		p.CubicTo(x1, y1-br+br*kappa, x1-br+br*kappa, y1, x1-br, y1)
	}
	p.LineTo(x0+bl, y1)
	if bl > 0 {
		p.CubicTo(x0+bl-bl*kappa, y1, x0, y1-bl+bl*kappa, x0, y1-bl)
	}
	p.LineTo(x0, y0+tl)
	if tl > 0 {
		p.CubicTo(x0, y0+tl-tl*kappa, x0+tl-tl*kappa, y0, x0+tl, y0)
	}
	p.Close()
	return p
}

// LinePath returns an open two-point segment.
func LinePath(a, b Point) *Path {
	p := &Path{}
	p.MoveTo(a.X, a.Y)
	p.LineTo(b.X, b.Y)
	return p
}
