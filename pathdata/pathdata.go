// Package pathdata parses SVG path data ("d" attributes) into geom paths.
//
// Parse is the single path parser used by the renderer. It understands the
// full command set (M, L, H, V, C, S, Q, T, A, Z in absolute and relative
// form, with implicit command repetition). Elliptical arcs are converted to
// cubic Béziers so that every backend only deals with lines and curves.
package pathdata

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/VantageDataChat/GoSlides/geom"
)

// ErrMalformed is returned for path data that cannot be parsed.
var ErrMalformed = errors.New("malformed path data")

// Parse converts SVG path data into a path. The returned error wraps
// ErrMalformed and names the offending byte offset.
func Parse(d string) (*geom.Path, error) {
	p := &parser{sc: scanner{s: d}, path: &geom.Path{}}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.path, nil
}

// MustParse is like Parse but panics on error. It is meant for built-in
// path tables.
func MustParse(d string) *geom.Path {
	p, err := Parse(d)
	if err != nil {
		panic(err)
	}
	return p
}

type parser struct {
	sc   scanner
	path *geom.Path

	cur, start geom.Point
	// ctrl is the last control point, used to reflect S and T segments.
	ctrl    geom.Point
	lastCmd byte
}

func (p *parser) fail(msg string) error {
	return fmt.Errorf("%w: %s at offset %d", ErrMalformed, msg, p.sc.i)
}

func (p *parser) run() error {
	p.sc.skipSep()
	if p.sc.done() {
		return p.fail("empty path")
	}
	var cmd byte
	for {
		p.sc.skipSep()
		if p.sc.done() {
			return nil
		}
		c := p.sc.peek()
		switch {
		case isCommand(c):
			cmd = c
			p.sc.i++
		case cmd == 0:
			return p.fail("path must start with a moveto")
		case cmd == 'Z' || cmd == 'z':
			return p.fail("unexpected number after closepath")
		case cmd == 'M':
			// Extra coordinate pairs after a moveto are implicit linetos.
			cmd = 'L'
		case cmd == 'm':
			cmd = 'l'
		}
		if p.lastCmd == 0 && cmd != 'M' && cmd != 'm' {
			return p.fail("path must start with a moveto")
		}
		if err := p.segment(cmd); err != nil {
			return err
		}
		p.lastCmd = cmd
	}
}

func (p *parser) segment(cmd byte) error {
	rel := cmd >= 'a'
	var base geom.Point
	if rel {
		base = p.cur
	}
	switch cmd | 0x20 {
	case 'm':
		pt, err := p.point(base)
		if err != nil {
			return err
		}
		p.path.MoveTo(pt.X, pt.Y)
		p.cur, p.start, p.ctrl = pt, pt, pt
	case 'l':
		pt, err := p.point(base)
		if err != nil {
			return err
		}
		p.lineTo(pt)
	case 'h':
		x, err := p.sc.number()
		if err != nil {
			return p.fail(err.Error())
		}
		if rel {
			x += p.cur.X
		}
		p.lineTo(geom.Pt(x, p.cur.Y))
	case 'v':
		y, err := p.sc.number()
		if err != nil {
			return p.fail(err.Error())
		}
		if rel {
			y += p.cur.Y
		}
		p.lineTo(geom.Pt(p.cur.X, y))
	case 'c':
		pts, err := p.points(base, 3)
		if err != nil {
			return err
		}
		p.cubicTo(pts[0], pts[1], pts[2])
	case 's':
		pts, err := p.points(base, 2)
		if err != nil {
			return err
		}
		c1 := p.cur
		if isOneOf(p.lastCmd, "CcSs") {
			c1 = reflectPoint(p.ctrl, p.cur)
		}
		p.cubicTo(c1, pts[0], pts[1])
	case 'q':
		pts, err := p.points(base, 2)
		if err != nil {
			return err
		}
		p.quadTo(pts[0], pts[1])
	case 't':
		pt, err := p.point(base)
		if err != nil {
			return err
		}
		c := p.cur
		if isOneOf(p.lastCmd, "QqTt") {
			c = reflectPoint(p.ctrl, p.cur)
		}
		p.quadTo(c, pt)
	case 'a':
		return p.arc(base)
	case 'z':
		p.path.Close()
		p.cur, p.ctrl = p.start, p.start
	}
	return nil
}

func (p *parser) lineTo(pt geom.Point) {
	p.path.LineTo(pt.X, pt.Y)
	p.cur, p.ctrl = pt, pt
}

func (p *parser) cubicTo(c1, c2, pt geom.Point) {
	p.path.CubicTo(c1.X, c1.Y, c2.X, c2.Y, pt.X, pt.Y)
	p.cur, p.ctrl = pt, c2
}

func (p *parser) quadTo(c, pt geom.Point) {
	p.path.QuadTo(c.X, c.Y, pt.X, pt.Y)
	p.cur, p.ctrl = pt, c
}

func (p *parser) point(base geom.Point) (geom.Point, error) {
	x, err := p.sc.number()
	if err != nil {
		return geom.Point{}, p.fail(err.Error())
	}
	y, err := p.sc.number()
	if err != nil {
		return geom.Point{}, p.fail(err.Error())
	}
	return geom.Pt(base.X+x, base.Y+y), nil
}

func (p *parser) points(base geom.Point, n int) ([]geom.Point, error) {
	out := make([]geom.Point, n)
	for i := range out {
		pt, err := p.point(base)
		if err != nil {
			return nil, err
		}
		out[i] = pt
	}
	return out, nil
}

func (p *parser) arc(base geom.Point) error {
	var v [3]float64
	for i := range v {
		n, err := p.sc.number()
		if err != nil {
			return p.fail(err.Error())
		}
		v[i] = n
	}
	large, err := p.sc.flag()
	if err != nil {
		return p.fail(err.Error())
	}
	sweep, err := p.sc.flag()
	if err != nil {
		return p.fail(err.Error())
	}
	end, err := p.point(base)
	if err != nil {
		return err
	}
	for _, seg := range arcToCubics(p.cur, end, v[0], v[1], v[2], large, sweep) {
		p.path.CubicTo(seg[0].X, seg[0].Y, seg[1].X, seg[1].Y, seg[2].X, seg[2].Y)
	}
	p.cur, p.ctrl = end, end
	return nil
}

func reflectPoint(ctrl, about geom.Point) geom.Point {
	return geom.Pt(2*about.X-ctrl.X, 2*about.Y-ctrl.Y)
}

func isOneOf(c byte, set string) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}

func isCommand(c byte) bool { return isOneOf(c, "MmLlHhVvCcSsQqTtAaZz") }

// arcToCubics converts an SVG endpoint-parameterised arc into cubic Bézier
// segments of at most 90° each. Degenerate radii produce a straight line.
func arcToCubics(from, to geom.Point, rx, ry, phiDeg float64, large, sweep bool) [][3]geom.Point {
	if from == to {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return [][3]geom.Point{{from, to, to}}
	}
	sinPhi, cosPhi := math.Sincos(geom.Radians(phiDeg))

	// Step 1: compute (x1', y1').
	dx, dy := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	// Scale radii up if they cannot span the endpoints.
	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	// Step 2: compute the center (cx', cy').
	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1 / ry
	cyp := -coef * ry * x1 / rx

	// Step 3: center in user space.
	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	theta1 := vecAngle(1, 0, (x1-cxp)/rx, (y1-cyp)/ry)
	delta := vecAngle((x1-cxp)/rx, (y1-cyp)/ry, (-x1-cxp)/rx, (-y1-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	ellipse := func(t float64) (geom.Point, geom.Point) {
		sinT, cosT := math.Sincos(t)
		pt := geom.Pt(
			cx+rx*cosT*cosPhi-ry*sinT*sinPhi,
			cy+rx*cosT*sinPhi+ry*sinT*cosPhi,
		)
		deriv := geom.Pt(
			-rx*sinT*cosPhi-ry*cosT*sinPhi,
			-rx*sinT*sinPhi+ry*cosT*cosPhi,
		)
		return pt, deriv
	}

	out := make([][3]geom.Point, 0, n)
	t := theta1
	p0, d0 := ellipse(t)
	for i := 0; i < n; i++ {
		t += step
		p1, d1 := ellipse(t)
		if i == n-1 {
			p1 = to
		}
		out = append(out, [3]geom.Point{
			p0.Add(d0.Mul(k)),
			p1.Sub(d1.Mul(k)),
			p1,
		})
		p0, d0 = p1, d1
	}
	return out
}

func vecAngle(ux, uy, vx, vy float64) float64 {
	a := math.Atan2(uy, ux)
	b := math.Atan2(vy, vx)
	d := b - a
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// scanner tokenises numbers and flags, skipping whitespace and commas.
type scanner struct {
	s string
	i int
}

func (sc *scanner) done() bool { return sc.i >= len(sc.s) }

func (sc *scanner) peek() byte { return sc.s[sc.i] }

func (sc *scanner) skipSep() {
	for sc.i < len(sc.s) {
		switch sc.s[sc.i] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.i++
		default:
			return
		}
	}
}

func (sc *scanner) number() (float64, error) {
	sc.skipSep()
	start := sc.i
	if sc.i < len(sc.s) && (sc.s[sc.i] == '+' || sc.s[sc.i] == '-') {
		sc.i++
	}
	digits := sc.digits()
	if sc.i < len(sc.s) && sc.s[sc.i] == '.' {
		sc.i++
		digits += sc.digits()
	}
	if digits == 0 {
		sc.i = start
		return 0, errors.New("expected number")
	}
	if sc.i < len(sc.s) && (sc.s[sc.i] == 'e' || sc.s[sc.i] == 'E') {
		mark := sc.i
		sc.i++
		if sc.i < len(sc.s) && (sc.s[sc.i] == '+' || sc.s[sc.i] == '-') {
			sc.i++
		}
		if sc.digits() == 0 {
			sc.i = mark
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:sc.i], 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", sc.s[start:sc.i])
	}
	return v, nil
}

func (sc *scanner) digits() int {
	n := 0
	for sc.i < len(sc.s) && sc.s[sc.i] >= '0' && sc.s[sc.i] <= '9' {
		sc.i++
		n++
	}
	return n
}

// flag reads an arc flag. Flags may be packed without separators, as in
// "a1 1 0 011 1".
func (sc *scanner) flag() (bool, error) {
	sc.skipSep()
	if sc.done() {
		return false, errors.New("expected flag")
	}
	switch sc.s[sc.i] {
	case '0':
		sc.i++
		return false, nil
	case '1':
		sc.i++
		return true, nil
	}
	return false, errors.New("expected flag")
}
