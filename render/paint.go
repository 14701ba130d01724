package render

import (
	"image/color"
	"math"

	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/scene"
)

// resolvePaint turns a scene paint into a surface paint over box, with
// opacity multiplied into every color.
func resolvePaint(p scene.Paint, box geom.Rect, opacity float64) Paint {
	if g := p.Gradient; g != nil {
		x0, y0, x1, y1 := GradientVector(box, g.AngleOr(0))
		start, end := g.StopPositions()
		return Paint{Gradient: &LinearGradient{
			X0: x0, Y0: y0, X1: x1, Y1: y1,
			Stops: []Stop{
				{Offset: start, Color: scene.WithAlpha(scene.ParseColor(g.Start), opacity)},
				{Offset: end, Color: scene.WithAlpha(scene.ParseColor(g.End), opacity)},
			},
		}}
	}
	if p.Color == "" {
		return Paint{}
	}
	return Paint{Color: scene.WithAlpha(scene.ParseColor(p.Color), opacity)}
}

// solid returns a solid paint of a hex color with opacity applied.
func solid(hex string, opacity float64) Paint {
	return Paint{Color: scene.WithAlpha(scene.ParseColor(hex), opacity)}
}

// GradientVector returns the start and end points of a linear gradient at
// angle degrees over box (0 runs left to right, 90 top to bottom). The
// vector passes through the center and is long enough that the first and
// last stops land exactly on the box corners, so the gradient covers the
// whole box at any angle.
func GradientVector(box geom.Rect, angle float64) (x0, y0, x1, y1 float64) {
	sin, cos := math.Sincos(geom.Radians(angle))
	half := (math.Abs(box.W*cos) + math.Abs(box.H*sin)) / 2
	c := box.Center()
	return c.X - cos*half, c.Y - sin*half, c.X + cos*half, c.Y + sin*half
}

// colorOr parses hex, falling back to def when hex is empty.
func colorOr(hex, def string) color.NRGBA {
	if hex == "" {
		hex = def
	}
	return scene.ParseColor(hex)
}
