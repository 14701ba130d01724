// Package render draws slides onto a Surface. One Engine implements the
// whole drawing algorithm; backends only provide the Surface primitives.
package render

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/icons"
	"github.com/VantageDataChat/GoSlides/pathdata"
	"github.com/VantageDataChat/GoSlides/scene"
)

// Logical slide size in user units.
const (
	SlideWidth  = 960
	SlideHeight = 540
)

// errSkipped marks an element that is intentionally not drawn, such as an
// image whose source is unavailable.
var errSkipped = errors.New("element skipped")

// Assets resolves image sources to decoded images.
type Assets interface {
	Image(src string) (image.Image, bool)
}

// AssetMap is an in-memory Assets keyed by source.
type AssetMap map[string]image.Image

// Image implements Assets.
func (m AssetMap) Image(src string) (image.Image, bool) {
	img, ok := m[src]
	return img, ok && img != nil
}

// IconSet resolves icon names to registry entries.
type IconSet interface {
	Lookup(name string) (icons.Icon, bool)
}

// Options configures an Engine.
type Options struct {
	// Width and Height are the logical canvas size. Default: 960×540.
	Width, Height float64
	// Logger receives per-element failures. Nil means slog.Default().
	Logger *slog.Logger
	// Assets resolves image sources. Nil means no images are available.
	Assets Assets
	// Icons resolves icon names. Nil means the built-in icon set.
	Icons IconSet
	// ParsePath parses shape and icon path data. Nil means pathdata.Parse.
	ParsePath func(string) (*geom.Path, error)
}

// DefaultOptions returns the default engine options.
func DefaultOptions() *Options {
	return &Options{Width: SlideWidth, Height: SlideHeight}
}

// Engine draws slides. It holds no per-render state and is safe for
// concurrent use as long as each goroutine draws onto its own Surface.
type Engine struct {
	width, height float64
	log           *slog.Logger
	assets        Assets
	icons         IconSet
	parsePath     func(string) (*geom.Path, error)
}

// NewEngine creates an Engine. A nil opts uses DefaultOptions.
func NewEngine(opts *Options) *Engine {
	if opts == nil {
		opts = DefaultOptions()
	}
	e := &Engine{
		width:     opts.Width,
		height:    opts.Height,
		log:       opts.Logger,
		assets:    opts.Assets,
		icons:     opts.Icons,
		parsePath: opts.ParsePath,
	}
	if e.width <= 0 || e.height <= 0 {
		e.width, e.height = SlideWidth, SlideHeight
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.assets == nil {
		e.assets = AssetMap(nil)
	}
	if e.icons == nil {
		e.icons = icons.Default()
	}
	if e.parsePath == nil {
		e.parsePath = pathdata.Parse
	}
	return e
}

// WithAssets returns a copy of e that resolves images through a.
func (e *Engine) WithAssets(a Assets) *Engine {
	c := *e
	c.assets = a
	return &c
}

// Size returns the logical canvas size.
func (e *Engine) Size() (w, h float64) { return e.width, e.height }

// DrawSlide paints the background and every visible element of slide in
// array order. A failing element is logged and skipped; it never stops the
// rest of the slide.
func (e *Engine) DrawSlide(s Surface, slide *scene.Slide) {
	e.drawBackground(s, slide.Background)
	for _, el := range slide.DrawOrder() {
		if el == nil || el.Hidden {
			continue
		}
		err := e.drawElement(s, el)
		switch {
		case err == nil:
		case errors.Is(err, errSkipped):
			e.log.Debug("element skipped", slog.String("slide", slide.ID), slog.String("element", el.ID), slog.Any("reason", err))
		default:
			e.log.Warn("render element failed",
				slog.String("slide", slide.ID),
				slog.String("element", el.ID),
				slog.String("type", string(el.Type)),
				slog.Any("err", err))
		}
	}
}

func (e *Engine) drawBackground(s Surface, bg scene.Paint) {
	full := geom.R(0, 0, e.width, e.height)
	if bg.Gradient != nil && bg.Gradient.Angle == nil {
		// no angle: plain top-to-bottom
		g := *bg.Gradient
		vertical := 90.0
		g.Angle = &vertical
		bg.Gradient = &g
	}
	paint := resolvePaint(bg, full, 1)
	if paint.IsZero() {
		return
	}
	s.FillPath(geom.RectPath(full), paint)
}

// drawElement paints one element inside its own save scope. Panics raised
// by a painter are turned into errors.
func (e *Engine) drawElement(s Surface, el *scene.Element) (err error) {
	painter, err := e.painterFor(el)
	if err != nil {
		return err
	}

	s.Save()
	defer s.Restore()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if el.Rotation != 0 {
		c := el.Bounds().Center()
		s.Translate(c.X, c.Y)
		s.Rotate(geom.Radians(el.Rotation))
		s.Translate(-c.X, -c.Y)
	}

	layer := layerStyle(el)
	if !layer.IsNoop() {
		s.BeginLayer(layer)
		defer s.EndLayer()
	}
	return painter(s)
}

// painterFor resolves everything an element needs before any drawing
// happens, so a skipped element leaves no trace on the surface.
func (e *Engine) painterFor(el *scene.Element) (func(Surface) error, error) {
	switch el.Type {
	case scene.ElementText:
		if el.Text == nil {
			return nil, errors.New("text element without content")
		}
		return func(s Surface) error { return e.drawText(s, el) }, nil
	case scene.ElementShape:
		if el.Shape == nil {
			return nil, errors.New("shape element without content")
		}
		return func(s Surface) error { return e.drawShape(s, el) }, nil
	case scene.ElementImage:
		if el.Image == nil {
			return nil, errors.New("image element without content")
		}
		img, ok := e.assets.Image(el.Image.Src)
		if !ok {
			return nil, fmt.Errorf("%w: image %q not loaded", errSkipped, el.Image.Src)
		}
		return func(s Surface) error { return e.drawImage(s, el, Image{Key: el.Image.Src, Img: img}) }, nil
	case scene.ElementLine:
		if el.Line == nil {
			return nil, errors.New("line element without content")
		}
		return func(s Surface) error { return e.drawLine(s, el) }, nil
	case scene.ElementIcon:
		if el.Icon == nil {
			return nil, errors.New("icon element without content")
		}
		return func(s Surface) error { return e.drawIcon(s, el) }, nil
	case scene.ElementTable:
		if el.Table == nil {
			return nil, errors.New("table element without content")
		}
		return func(s Surface) error { return e.drawTable(s, el) }, nil
	case scene.ElementBlurb:
		if el.Blurb == nil {
			return nil, errors.New("blurb element without content")
		}
		return func(s Surface) error { return e.drawBlurb(s, el) }, nil
	}
	return nil, fmt.Errorf("unknown element type %q", el.Type)
}

// layerStyle derives the group compositing of an element. Shapes carry
// their opacity in their paints instead of the layer.
func layerStyle(el *scene.Element) LayerStyle {
	l := LayerStyle{
		Opacity: scene.Clamp01(el.Opacity),
		Blend:   el.Style.Blend,
		Blur:    el.Style.Blur,
	}
	if el.Type == scene.ElementShape {
		l.Opacity = 1
	}
	if sh := el.Style.Shadow; sh.Enabled && sh.Opacity > 0 {
		l.Shadow = &Shadow{
			OffsetX: sh.OffsetX,
			OffsetY: sh.OffsetY,
			Blur:    sh.Blur,
			Spread:  sh.Spread,
			Color:   sh.RGBA(),
		}
	}
	return l
}
