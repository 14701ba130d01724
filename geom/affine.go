package geom

import "math"

// Affine is a 2D affine transform laid out like the canvas setTransform
// arguments: x' = A*x + C*y + E, y' = B*x + D*y + F.
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity is the transform that leaves points unchanged.
func Identity() Affine { return Affine{A: 1, D: 1} }

// Mul returns m∘n: n is applied first, then m.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Translate appends a translation in local coordinates.
func (m Affine) Translate(tx, ty float64) Affine {
	return m.Mul(Affine{A: 1, D: 1, E: tx, F: ty})
}

// Scale appends a scale in local coordinates.
func (m Affine) Scale(sx, sy float64) Affine {
	return m.Mul(Affine{A: sx, D: sy})
}

// Rotate appends a rotation by rad radians in local coordinates.
func (m Affine) Rotate(rad float64) Affine {
	s, c := math.Sincos(rad)
	return m.Mul(Affine{A: c, B: s, C: -s, D: c})
}

// Apply maps p through m.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Det returns the determinant of the linear part.
func (m Affine) Det() float64 { return m.A*m.D - m.B*m.C }

// Invert returns the inverse transform. A singular transform inverts to
// the identity.
func (m Affine) Invert() Affine {
	det := m.Det()
	if det == 0 {
		return Identity()
	}
	inv := Affine{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
	}
	inv.E = -(inv.A*m.E + inv.C*m.F)
	inv.F = -(inv.B*m.E + inv.D*m.F)
	return inv
}

// ScaleFactor is the mean linear scale of m, used to map stroke widths and
// blur radii into device space.
func (m Affine) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.Det()))
}

// IsIdentity reports whether m is exactly the identity.
func (m Affine) IsIdentity() bool { return m == Identity() }
