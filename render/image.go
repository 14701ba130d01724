package render

import (
	"math"

	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/scene"
)

func (e *Engine) drawImage(s Surface, el *scene.Element, img Image) error {
	iw, ih := img.Size()
	if iw <= 0 || ih <= 0 {
		return nil
	}
	box := el.Bounds()
	src, dst := FitImage(el.Image, box, iw, ih)
	if src.Empty() || dst.Empty() {
		return nil
	}
	s.Save()
	defer s.Restore()
	s.ClipPath(cornerPath(box, el.Style.CornerRadius))
	s.DrawImage(img, src, dst)

	if st := el.Style; st.StrokeWidth > 0 && !st.Stroke.IsNone() {
		s.StrokePath(cornerPath(box, st.CornerRadius), resolvePaint(st.Stroke, box, 1), StrokeStyle{Width: st.StrokeWidth})
	}
	return nil
}

// FitImage computes the source sub-rectangle (image pixels) and the
// destination rectangle (user units) for an iw×ih image placed in box.
//
// For cover, the image is scaled to fill the box times the zoom factor,
// shifted by the pan offset, and the visible part of the box is mapped back
// through that scale and offset to find the source rectangle.
func FitImage(c *scene.ImageContent, box geom.Rect, iw, ih float64) (src, dst geom.Rect) {
	full := geom.R(0, 0, iw, ih)
	switch c.Fit {
	case scene.FitFill:
		return full, box
	case scene.FitContain:
		k := math.Min(box.W/iw, box.H/ih)
		w, h := iw*k, ih*k
		return full, geom.R(box.X+(box.W-w)/2, box.Y+(box.H-h)/2, w, h)
	case scene.FitNone:
		natural := geom.R(box.X+(box.W-iw)/2, box.Y+(box.H-ih)/2, iw, ih)
		vis := natural.Intersect(box)
		if vis.Empty() {
			return geom.Rect{}, geom.Rect{}
		}
		return geom.R(vis.X-natural.X, vis.Y-natural.Y, vis.W, vis.H), vis
	}

	// cover
	k := math.Max(box.W/iw, box.H/ih) * math.Max(1, c.Scale)
	pan := c.PanOrCenter()
	dx := -(iw*k - box.W) * pan.X
	dy := -(ih*k - box.H) * pan.Y
	src = geom.R(-dx/k, -dy/k, box.W/k, box.H/k).Intersect(full)
	return src, box
}
