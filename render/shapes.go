package render

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/icons"
	"github.com/VantageDataChat/GoSlides/scene"
)

// cornerPath is the outline of box under the corner-radius rule: 100% on
// every corner gives the inscribed ellipse, anything else a rounded
// rectangle.
func cornerPath(box geom.Rect, cr scene.CornerRadius) *geom.Path {
	if cr.Full() {
		return geom.EllipsePath(box)
	}
	return geom.RoundedRectPath(box, cr.Radii(box.W, box.H))
}

func (e *Engine) drawShape(s Surface, el *scene.Element) error {
	box := el.Bounds()
	var path *geom.Path
	switch el.Shape.Kind {
	case scene.ShapeEllipse:
		path = geom.EllipsePath(box)
	case scene.ShapeCircle:
		d := math.Min(box.W, box.H)
		path = geom.EllipsePath(geom.R(box.CenterX()-d/2, box.CenterY()-d/2, d, d))
	case scene.ShapePath:
		p, err := e.shapePath(el.Shape, box)
		if err != nil {
			e.log.Warn("malformed shape path, drawing rectangle",
				slog.String("element", el.ID), slog.Any("err", err))
			p = geom.RectPath(box)
		}
		path = p
	default:
		path = cornerPath(box, el.Style.CornerRadius)
	}

	st := el.Style
	if fill := resolvePaint(st.Fill, box, el.Opacity); !fill.IsZero() {
		s.FillPath(path, fill)
	}
	if st.StrokeWidth > 0 {
		if stroke := resolvePaint(st.Stroke, box, el.Opacity); !stroke.IsZero() {
			s.StrokePath(path, stroke, StrokeStyle{Width: st.StrokeWidth})
		}
	}
	return nil
}

// shapePath parses path data and maps its view box onto box. Without a
// view box the data is taken to be in element-local coordinates.
func (e *Engine) shapePath(sh *scene.ShapeContent, box geom.Rect) (*geom.Path, error) {
	p, err := e.parsePath(sh.PathData)
	if err != nil {
		return nil, err
	}
	sx, sy := 1.0, 1.0
	if vb := sh.ViewBox; vb != nil {
		if vb.W <= 0 || vb.H <= 0 {
			return nil, fmt.Errorf("invalid view box %gx%g", vb.W, vb.H)
		}
		sx, sy = box.W/vb.W, box.H/vb.H
	}
	return p.Transform(geom.Identity().Translate(box.X, box.Y).Scale(sx, sy)), nil
}

func (e *Engine) drawLine(s Surface, el *scene.Element) error {
	ln := el.Line
	path := geom.LinePath(
		geom.Pt(el.X+ln.X1, el.Y+ln.Y1),
		geom.Pt(el.X+ln.X2, el.Y+ln.Y2),
	)
	width := el.Style.StrokeWidth
	if width <= 0 {
		width = 2
	}
	paint := resolvePaint(el.Style.Stroke, el.Bounds(), 1)
	if el.Style.Stroke.IsNone() {
		paint = solid("#000000", 1)
	}
	c := CapButt
	if ln.Cap == scene.CapRound {
		c = CapRound
	}
	s.StrokePath(path, paint, StrokeStyle{Width: width, Cap: c})
	return nil
}

func (e *Engine) drawIcon(s Surface, el *scene.Element) error {
	box := el.Bounds()
	width := el.Icon.StrokeWidth
	if width <= 0 {
		width = 2
	}

	ic, ok := e.icons.Lookup(el.Icon.Name)
	var path *geom.Path
	var err error
	if ok {
		path, err = e.parsePath(ic.Path)
	} else {
		err = fmt.Errorf("unknown icon %q", el.Icon.Name)
	}
	if err != nil {
		e.log.Warn("icon unavailable, drawing circle", slog.String("element", el.ID), slog.Any("err", err))
		d := math.Min(box.W, box.H) - width
		circle := geom.EllipsePath(geom.R(box.CenterX()-d/2, box.CenterY()-d/2, d, d))
		s.StrokePath(circle, iconPaint(el.Style, box), StrokeStyle{Width: width, Cap: CapRound})
		return nil
	}

	// uniform scale into the 24-unit view box, centered
	k := math.Min(box.W, box.H) / icons.ViewBox
	if k <= 0 {
		return nil
	}
	s.Save()
	defer s.Restore()
	s.Translate(box.X+(box.W-icons.ViewBox*k)/2, box.Y+(box.H-icons.ViewBox*k)/2)
	s.Scale(k, k)
	// paint coordinates live in the view box from here on
	paint := iconPaint(el.Style, geom.R(0, 0, icons.ViewBox, icons.ViewBox))
	if ic.Filled {
		s.FillPath(path, paint)
		return nil
	}
	s.StrokePath(path, paint, StrokeStyle{Width: width / k, Cap: CapRound})
	return nil
}

// iconPaint picks the icon color: stroke, then fill, then typography color.
func iconPaint(st scene.Style, box geom.Rect) Paint {
	switch {
	case !st.Stroke.IsNone():
		return resolvePaint(st.Stroke, box, 1)
	case !st.Fill.IsNone():
		return resolvePaint(st.Fill, box, 1)
	}
	return solid(st.Typography.Normalized().Color, 1)
}
