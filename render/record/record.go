// Package record is a render.Surface that captures drawing calls as a
// display list. The editor preview streams the list to browsers as JSON,
// and Replay draws it onto any other Surface.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/VantageDataChat/GoSlides/fonts"
	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/pathdata"
	"github.com/VantageDataChat/GoSlides/render"
)

// Kind names a display list operation.
type Kind string

const (
	OpSave       Kind = "save"
	OpRestore    Kind = "restore"
	OpTranslate  Kind = "translate"
	OpRotate     Kind = "rotate"
	OpScale      Kind = "scale"
	OpBeginLayer Kind = "beginLayer"
	OpEndLayer   Kind = "endLayer"
	OpFill       Kind = "fill"
	OpStroke     Kind = "stroke"
	OpClip       Kind = "clip"
	OpImage      Kind = "image"
	OpText       Kind = "text"
)

// Op is one recorded call. Paths are SVG path data so a browser can feed
// them to Path2D unchanged.
type Op struct {
	Kind   Kind                `json:"op"`
	Args   []float64           `json:"args,omitempty"`
	Path   string              `json:"path,omitempty"`
	Paint  *render.Paint       `json:"paint,omitempty"`
	Stroke *render.StrokeStyle `json:"stroke,omitempty"`
	Layer  *render.LayerStyle  `json:"layer,omitempty"`
	Image  string              `json:"image,omitempty"`
	Src    *geom.Rect          `json:"src,omitempty"`
	Dst    *geom.Rect          `json:"dst,omitempty"`
	Text   string              `json:"text,omitempty"`
	Font   *render.Font        `json:"font,omitempty"`
}

// Recorder captures drawing calls. Text is measured with the same font
// cache the raster backend uses, so wrapped lines agree with the export.
type Recorder struct {
	fonts  *fonts.Cache
	ops    []Op
	images map[string]image.Image
}

var _ render.Surface = (*Recorder)(nil)

// New returns an empty Recorder. A nil fc uses the bundled Go fonts.
func New(fc *fonts.Cache) *Recorder {
	if fc == nil {
		fc = fonts.NewCacheDirs()
	}
	return &Recorder{fonts: fc, images: map[string]image.Image{}}
}

// Ops returns the recorded operations.
func (r *Recorder) Ops() []Op { return r.ops }

// Reset drops all recorded operations.
func (r *Recorder) Reset() {
	r.ops = r.ops[:0]
	clear(r.images)
}

// Image implements render.Assets over the images seen while recording.
func (r *Recorder) Image(key string) (image.Image, bool) {
	img, ok := r.images[key]
	return img, ok
}

func (r *Recorder) add(op Op) { r.ops = append(r.ops, op) }

func (r *Recorder) Save()                  { r.add(Op{Kind: OpSave}) }
func (r *Recorder) Restore()               { r.add(Op{Kind: OpRestore}) }
func (r *Recorder) Translate(x, y float64) { r.add(Op{Kind: OpTranslate, Args: []float64{x, y}}) }
func (r *Recorder) Rotate(rad float64)     { r.add(Op{Kind: OpRotate, Args: []float64{rad}}) }
func (r *Recorder) Scale(sx, sy float64)   { r.add(Op{Kind: OpScale, Args: []float64{sx, sy}}) }
func (r *Recorder) EndLayer()              { r.add(Op{Kind: OpEndLayer}) }

func (r *Recorder) BeginLayer(style render.LayerStyle) {
	r.add(Op{Kind: OpBeginLayer, Layer: &style})
}

func (r *Recorder) FillPath(p *geom.Path, paint render.Paint) {
	r.add(Op{Kind: OpFill, Path: p.SVG(), Paint: &paint})
}

func (r *Recorder) StrokePath(p *geom.Path, paint render.Paint, s render.StrokeStyle) {
	r.add(Op{Kind: OpStroke, Path: p.SVG(), Paint: &paint, Stroke: &s})
}

func (r *Recorder) ClipPath(p *geom.Path) {
	r.add(Op{Kind: OpClip, Path: p.SVG()})
}

func (r *Recorder) DrawImage(img render.Image, src, dst geom.Rect) {
	r.images[img.Key] = img.Img
	r.add(Op{Kind: OpImage, Image: img.Key, Src: &src, Dst: &dst})
}

func (r *Recorder) FillText(text string, x, y float64, f render.Font, paint render.Paint) {
	r.add(Op{Kind: OpText, Text: text, Args: []float64{x, y}, Font: &f, Paint: &paint})
}

func (r *Recorder) MeasureText(text string, f render.Font) float64 {
	return r.fonts.Measure(text, f.Family, f.Size, f.Bold, f.Italic)
}

// WriteJSON encodes the display list.
func (r *Recorder) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(r.ops)
}

// ReadJSON decodes a display list written by WriteJSON.
func ReadJSON(rd io.Reader) ([]Op, error) {
	var ops []Op
	if err := json.NewDecoder(rd).Decode(&ops); err != nil {
		return nil, fmt.Errorf("decode display list: %w", err)
	}
	return ops, nil
}

// Replay draws ops onto s. Images are resolved through assets; an op whose
// image is missing is skipped. Replay stops at the first malformed op.
func Replay(s render.Surface, ops []Op, assets render.Assets) error {
	for i, op := range ops {
		if err := replay(s, op, assets); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
	}
	return nil
}

func replay(s render.Surface, op Op, assets render.Assets) error {
	switch op.Kind {
	case OpSave:
		s.Save()
	case OpRestore:
		s.Restore()
	case OpTranslate:
		if len(op.Args) != 2 {
			return errArgs
		}
		s.Translate(op.Args[0], op.Args[1])
	case OpRotate:
		if len(op.Args) != 1 {
			return errArgs
		}
		s.Rotate(op.Args[0])
	case OpScale:
		if len(op.Args) != 2 {
			return errArgs
		}
		s.Scale(op.Args[0], op.Args[1])
	case OpBeginLayer:
		if op.Layer == nil {
			return errArgs
		}
		s.BeginLayer(*op.Layer)
	case OpEndLayer:
		s.EndLayer()
	case OpFill, OpStroke, OpClip:
		p := &geom.Path{}
		if op.Path != "" {
			var err error
			if p, err = pathdata.Parse(op.Path); err != nil {
				return err
			}
		}
		switch {
		case op.Kind == OpClip:
			s.ClipPath(p)
		case op.Paint == nil:
			return errArgs
		case op.Kind == OpFill:
			s.FillPath(p, *op.Paint)
		case op.Stroke == nil:
			return errArgs
		default:
			s.StrokePath(p, *op.Paint, *op.Stroke)
		}
	case OpImage:
		if op.Src == nil || op.Dst == nil {
			return errArgs
		}
		if assets == nil {
			return nil
		}
		if img, ok := assets.Image(op.Image); ok {
			s.DrawImage(render.Image{Key: op.Image, Img: img}, *op.Src, *op.Dst)
		}
	case OpText:
		if len(op.Args) != 2 || op.Font == nil || op.Paint == nil {
			return errArgs
		}
		s.FillText(op.Text, op.Args[0], op.Args[1], *op.Font, *op.Paint)
	default:
		return fmt.Errorf("unknown op %q", op.Kind)
	}
	return nil
}

var errArgs = errors.New("missing arguments")
