// Package snap aligns elements while they are dragged or resized.
//
// Snapping is advisory. Each axis is solved on its own: the closest target
// within the threshold wins, ties go to the target declared first (canvas
// targets, then other elements in array order), and an axis with no target
// in range keeps its input value and emits no guide.
package snap

import (
	"math"

	"github.com/VantageDataChat/GoSlides/geom"
)

// Defaults for the 960×540 slide canvas.
const (
	DefaultThreshold = 10
	DefaultMargin    = 25
	// MinSize is the smallest width or height a resize can produce.
	MinSize = 1
)

// Canvas describes the snapping frame.
type Canvas struct {
	Width, Height float64
	Margin        float64
}

// Solver snaps drag and resize gestures. The zero value is not useful; use
// NewSolver or fill both fields.
type Solver struct {
	Canvas    Canvas
	Threshold float64
}

// NewSolver returns a solver for a w×h canvas with the default margin and
// threshold.
func NewSolver(w, h float64) *Solver {
	return &Solver{
		Canvas:    Canvas{Width: w, Height: h, Margin: DefaultMargin},
		Threshold: DefaultThreshold,
	}
}

// Orientation is the direction of a guide line.
type Orientation int

const (
	// Vertical guides are lines of constant x.
	Vertical Orientation = iota
	// Horizontal guides are lines of constant y.
	Horizontal
)

// GuideKind distinguishes edge alignment from size matching.
type GuideKind int

const (
	Align GuideKind = iota
	// Size guides mark one element of a matched width or height pair.
	Size
)

// Guide is a transient line shown while a snap is active. Pos is the x of a
// vertical guide or the y of a horizontal one; Start and End bound it along
// its own direction.
type Guide struct {
	Orientation Orientation `json:"orientation"`
	Kind        GuideKind   `json:"kind"`
	Pos         float64     `json:"pos"`
	Start       float64     `json:"start"`
	End         float64     `json:"end"`
}

// Result is the outcome of a snap.
type Result struct {
	Rect     geom.Rect `json:"rect"`
	Guides   []Guide   `json:"guides,omitempty"`
	SnappedX bool      `json:"snappedX"`
	SnappedY bool      `json:"snappedY"`
}

type axis int

const (
	axisX axis = iota
	axisY
)

// ref names the part of a rectangle compared against a target.
type ref int

const (
	refLow ref = iota // left or top
	refMid
	refHigh // right or bottom
)

func edge(r geom.Rect, a axis, k ref) float64 {
	lo, size := r.X, r.W
	if a == axisY {
		lo, size = r.Y, r.H
	}
	switch k {
	case refMid:
		return lo + size/2
	case refHigh:
		return lo + size
	}
	return lo
}

// target is one candidate line on an axis.
type target struct {
	pos   float64
	ref   ref
	other int // index into others, -1 for the canvas
	size  bool
}

// canvasTargets lists the canvas lines of an axis in check order.
func (s *Solver) canvasTargets(a axis) []target {
	c := s.Canvas
	if a == axisX {
		return []target{
			{pos: 0, ref: refLow, other: -1},
			{pos: c.Width, ref: refHigh, other: -1},
			{pos: c.Margin, ref: refLow, other: -1},
			{pos: c.Width - c.Margin, ref: refHigh, other: -1},
			{pos: c.Width / 2, ref: refMid, other: -1},
		}
	}
	return []target{
		{pos: c.Margin, ref: refLow, other: -1},
		{pos: c.Height - c.Margin, ref: refHigh, other: -1},
		{pos: c.Height / 2, ref: refMid, other: -1},
	}
}

func elementTargets(others []geom.Rect, i int, a axis) []target {
	o := others[i]
	return []target{
		{pos: edge(o, a, refLow), ref: refLow, other: i},
		{pos: edge(o, a, refHigh), ref: refHigh, other: i},
		{pos: edge(o, a, refMid), ref: refMid, other: i},
	}
}

// nearest returns the target closest to value(t) within threshold. Earlier
// targets win ties.
func (s *Solver) nearest(ts []target, value func(target) float64) (target, float64, bool) {
	var (
		best  target
		delta float64
		bestD = math.Inf(1)
		found bool
	)
	for _, t := range ts {
		v := value(t)
		if d := math.Abs(t.pos - v); d <= s.Threshold && d < bestD {
			best, delta, bestD, found = t, t.pos-v, d, true
		}
	}
	return best, delta, found
}

// Drag snaps a moving rectangle against the canvas and the other elements.
// Only the position changes.
func (s *Solver) Drag(moving geom.Rect, others []geom.Rect) Result {
	res := Result{Rect: moving}
	var winners [2]*target
	for _, a := range []axis{axisX, axisY} {
		ts := s.canvasTargets(a)
		for i := range others {
			ts = append(ts, elementTargets(others, i, a)...)
		}
		t, delta, ok := s.nearest(ts, func(t target) float64 { return edge(moving, a, t.ref) })
		if !ok {
			continue
		}
		winners[a] = &t
		if a == axisX {
			res.Rect.X += delta
			res.SnappedX = true
		} else {
			res.Rect.Y += delta
			res.SnappedY = true
		}
	}
	for a, t := range winners {
		if t != nil {
			res.Guides = append(res.Guides, s.guides(axis(a), *t, res.Rect, others)...)
		}
	}
	return res
}

// Handle is a resize handle: a compass direction naming the edges that
// move.
type Handle string

const (
	N  Handle = "n"
	S  Handle = "s"
	E  Handle = "e"
	W  Handle = "w"
	NE Handle = "ne"
	NW Handle = "nw"
	SE Handle = "se"
	SW Handle = "sw"
)

// Valid reports whether h is one of the eight handles.
func (h Handle) Valid() bool {
	switch h {
	case N, S, E, W, NE, NW, SE, SW:
		return true
	}
	return false
}

// moving reports which edge of axis a the handle drags: refLow, refHigh, or
// false when the axis is fixed.
func (h Handle) moving(a axis) (ref, bool) {
	low, high := byte('w'), byte('e')
	if a == axisY {
		low, high = 'n', 's'
	}
	for i := 0; i < len(h); i++ {
		switch h[i] {
		case low:
			return refLow, true
		case high:
			return refHigh, true
		}
	}
	return 0, false
}

// Resize snaps the edges dragged by handle. Edges the handle does not move
// come from start; moving edges come from proposed. Besides the canvas and
// element lines, each moving edge is also tested for a size that matches
// another element's width or height.
func (s *Solver) Resize(start geom.Rect, handle Handle, proposed geom.Rect, others []geom.Rect) Result {
	res := Result{Rect: start}
	if !handle.Valid() {
		res.Rect = proposed
		return res
	}
	var winners [2]*target
	for _, a := range []axis{axisX, axisY} {
		side, ok := handle.moving(a)
		if !ok {
			continue
		}
		fixed := edge(start, a, oppositeOf(side))
		value := edge(proposed, a, side)

		ts := s.canvasTargets(a)
		for i := range others {
			ts = append(ts, elementTargets(others, i, a)...)
			size := others[i].W
			if a == axisY {
				size = others[i].H
			}
			pos := fixed + size
			if side == refLow {
				pos = fixed - size
			}
			ts = append(ts, target{pos: pos, other: i, size: true})
		}
		// drop targets that would collapse the box
		valid := ts[:0]
		for _, t := range ts {
			if extent(fixed, t.pos, side) >= MinSize {
				valid = append(valid, t)
			}
		}
		if t, _, found := s.nearest(valid, func(target) float64 { return value }); found {
			winners[a] = &t
			value = t.pos
			if a == axisX {
				res.SnappedX = true
			} else {
				res.SnappedY = true
			}
		}

		n := math.Max(MinSize, extent(fixed, value, side))
		lo := fixed
		if side == refLow {
			lo = fixed - n
		}
		if a == axisX {
			res.Rect.X, res.Rect.W = lo, n
		} else {
			res.Rect.Y, res.Rect.H = lo, n
		}
	}
	for a, t := range winners {
		if t != nil {
			res.Guides = append(res.Guides, s.guides(axis(a), *t, res.Rect, others)...)
		}
	}
	return res
}

func oppositeOf(k ref) ref {
	if k == refLow {
		return refHigh
	}
	return refLow
}

// extent is the size between the fixed edge and a moving edge on side.
func extent(fixed, moving float64, side ref) float64 {
	if side == refLow {
		return fixed - moving
	}
	return moving - fixed
}

// guides builds the guides for a winning target on axis a once the final
// rectangle r is known.
func (s *Solver) guides(a axis, t target, r geom.Rect, others []geom.Rect) []Guide {
	cross := axisY
	orient := Vertical
	if a == axisY {
		cross, orient = axisX, Horizontal
	}
	if t.size {
		o := others[t.other]
		measure := Horizontal
		if a == axisY {
			measure = Vertical
		}
		return []Guide{
			{Orientation: measure, Kind: Size, Pos: edge(r, cross, refMid), Start: edge(r, a, refLow), End: edge(r, a, refHigh)},
			{Orientation: measure, Kind: Size, Pos: edge(o, cross, refMid), Start: edge(o, a, refLow), End: edge(o, a, refHigh)},
		}
	}
	g := Guide{Orientation: orient, Kind: Align, Pos: t.pos}
	if t.other < 0 {
		g.End = s.Canvas.Height
		if a == axisY {
			g.End = s.Canvas.Width
		}
		return []Guide{g}
	}
	o := others[t.other]
	g.Start = math.Min(edge(r, cross, refLow), edge(o, cross, refLow))
	g.End = math.Max(edge(r, cross, refHigh), edge(o, cross, refHigh))
	return []Guide{g}
}
