package render

import (
	"bytes"
	"image"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/scene"
)

// op is one call captured by fakeSurface.
type op struct {
	name   string
	path   *geom.Path
	paint  Paint
	stroke StrokeStyle
	layer  LayerStyle
	text   string
	x, y   float64
}

// fakeSurface records calls and measures every rune as 11 units wide.
type fakeSurface struct {
	ops   []op
	depth int
}

func (f *fakeSurface) add(o op) { f.ops = append(f.ops, o) }

func (f *fakeSurface) Save()    { f.depth++; f.add(op{name: "save"}) }
func (f *fakeSurface) Restore() { f.depth--; f.add(op{name: "restore"}) }
func (f *fakeSurface) Translate(x, y float64) {
	f.add(op{name: "translate", x: x, y: y})
}
func (f *fakeSurface) Rotate(rad float64)      { f.add(op{name: "rotate", x: rad}) }
func (f *fakeSurface) Scale(sx, sy float64)    { f.add(op{name: "scale", x: sx, y: sy}) }
func (f *fakeSurface) BeginLayer(l LayerStyle) { f.add(op{name: "layer", layer: l}) }
func (f *fakeSurface) EndLayer()               { f.add(op{name: "endlayer"}) }
func (f *fakeSurface) FillPath(p *geom.Path, paint Paint) {
	f.add(op{name: "fill", path: p, paint: paint})
}
func (f *fakeSurface) StrokePath(p *geom.Path, paint Paint, s StrokeStyle) {
	f.add(op{name: "stroke", path: p, paint: paint, stroke: s})
}
func (f *fakeSurface) ClipPath(p *geom.Path) { f.add(op{name: "clip", path: p}) }
func (f *fakeSurface) DrawImage(img Image, src, dst geom.Rect) {
	f.add(op{name: "image", text: img.Key})
}
func (f *fakeSurface) FillText(text string, x, y float64, fnt Font, paint Paint) {
	f.add(op{name: "text", text: text, x: x, y: y, paint: paint})
}
func (f *fakeSurface) MeasureText(text string, fnt Font) float64 {
	return float64(utf8.RuneCountInString(text)) * 11
}

func (f *fakeSurface) named(name string) []op {
	var out []op
	for _, o := range f.ops {
		if o.name == name {
			out = append(out, o)
		}
	}
	return out
}

func measure11(s string) float64 { return float64(utf8.RuneCountInString(s)) * 11 }

func quietEngine(opts *Options) (*Engine, *bytes.Buffer) {
	var buf bytes.Buffer
	if opts == nil {
		opts = DefaultOptions()
	}
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewEngine(opts), &buf
}

func slideWith(els ...*scene.Element) *scene.Slide {
	s := scene.NewSlide("p")
	for _, e := range els {
		s.AddElement(e)
	}
	return s
}

func TestWrapText_TwoLines(t *testing.T) {
	// each word is 55 units wide
	lines := WrapText("aaaaa bbbbb ccccc", 100, measure11)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Text() != "aaaaa bbbbb" || lines[1].Text() != "ccccc" {
		t.Errorf("got %q / %q", lines[0].Text(), lines[1].Text())
	}
	if lines[0].ParagraphEnd || !lines[1].ParagraphEnd {
		t.Error("only the last line should end the paragraph")
	}
}

func TestWrapText_Paragraphs(t *testing.T) {
	lines := WrapText("one two\n\nthree", 0, measure11)
	got := make([]string, len(lines))
	for i, l := range lines {
		got[i] = l.Text()
	}
	want := []string{"one two", "", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	for _, l := range lines {
		if !l.ParagraphEnd {
			t.Errorf("line %q should end its paragraph", l.Text())
		}
	}
}

func TestWrapText_NormalizesToNFC(t *testing.T) {
	// "e" + combining acute becomes one rune
	lines := WrapText("cafe\u0301", 0, measure11)
	if lines[0].Text() != "caf\u00e9" || lines[0].Width != 44 {
		t.Errorf("got %q width %v", lines[0].Text(), lines[0].Width)
	}
}

func TestGradientVector(t *testing.T) {
	box := geom.R(0, 0, 100, 50)
	tests := []struct {
		angle          float64
		x0, y0, x1, y1 float64
	}{
		{0, 0, 25, 100, 25},
		{90, 50, 0, 50, 50},
		{180, 100, 25, 0, 25},
	}
	for _, tt := range tests {
		x0, y0, x1, y1 := GradientVector(box, tt.angle)
		got := []float64{x0, y0, x1, y1}
		want := []float64{tt.x0, tt.y0, tt.x1, tt.y1}
		for i := range got {
			if math.Abs(got[i]-want[i]) > 1e-9 {
				t.Errorf("angle %v: got %v, want %v", tt.angle, got, want)
				break
			}
		}
	}
	// At 45° on a square the ends project exactly onto opposite corners.
	x0, y0, x1, y1 := GradientVector(geom.R(0, 0, 100, 100), 45)
	if math.Abs(x0-0) > 1e-9 || math.Abs(y0-0) > 1e-9 || math.Abs(x1-100) > 1e-9 || math.Abs(y1-100) > 1e-9 {
		t.Errorf("45°: got (%v,%v)-(%v,%v)", x0, y0, x1, y1)
	}
}

func TestFitImage(t *testing.T) {
	box := geom.R(10, 10, 100, 100)
	tests := []struct {
		name     string
		content  scene.ImageContent
		src, dst geom.Rect
	}{
		{"cover centered", scene.ImageContent{Fit: scene.FitCover}, geom.R(50, 0, 100, 100), box},
		{"cover panned left", scene.ImageContent{Fit: scene.FitCover, Pan: &scene.Pan{X: 0, Y: 0.5}}, geom.R(0, 0, 100, 100), box},
		{"cover zoomed", scene.ImageContent{Fit: scene.FitCover, Scale: 2}, geom.R(75, 25, 50, 50), box},
		{"contain", scene.ImageContent{Fit: scene.FitContain}, geom.R(0, 0, 200, 100), geom.R(10, 35, 100, 50)},
		{"fill", scene.ImageContent{Fit: scene.FitFill}, geom.R(0, 0, 200, 100), box},
		{"none", scene.ImageContent{Fit: scene.FitNone}, geom.R(50, 0, 100, 100), box},
	}
	for _, tt := range tests {
		src, dst := FitImage(&tt.content, box, 200, 100)
		if src != tt.src || dst != tt.dst {
			t.Errorf("%s: src %v dst %v, want src %v dst %v", tt.name, src, dst, tt.src, tt.dst)
		}
	}
}

func TestTracks(t *testing.T) {
	if got := Tracks(300, 3, nil); !reflect.DeepEqual(got, []float64{100, 100, 100}) {
		t.Errorf("equal split: %v", got)
	}
	if got := Tracks(300, 3, []float64{1, 2, 3}); !reflect.DeepEqual(got, []float64{50, 100, 150}) {
		t.Errorf("weighted split: %v", got)
	}
	if got := Tracks(300, 3, []float64{1, 2}); !reflect.DeepEqual(got, []float64{100, 100, 100}) {
		t.Errorf("mismatched weights should fall back to equal: %v", got)
	}
}

func TestDrawSlide_SkipsHiddenAndMissingImages(t *testing.T) {
	hidden := scene.NewElement(scene.ElementShape, 0, 0, 10, 10)
	hidden.Shape = &scene.ShapeContent{Kind: scene.ShapeRectangle}
	hidden.Style.Fill = scene.Solid("#FF0000")
	hidden.Hidden = true

	img := scene.NewElement(scene.ElementImage, 0, 0, 10, 10)
	img.Image = &scene.ImageContent{Src: "missing.png"}

	e, _ := quietEngine(nil)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(hidden, img))

	// only the background
	if n := len(s.named("fill")); n != 1 {
		t.Errorf("expected only the background fill, got %d fills", n)
	}
	if n := len(s.named("save")); n != 0 {
		t.Errorf("skipped elements should not open a scope, got %d saves", n)
	}
}

func TestDrawSlide_ShapeOpacityInPaint(t *testing.T) {
	el := scene.NewElement(scene.ElementShape, 10, 10, 100, 50)
	el.Shape = &scene.ShapeContent{Kind: scene.ShapeRectangle}
	el.Style.Fill = scene.Solid("#0000FF")
	el.Opacity = 0.5

	e, _ := quietEngine(nil)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(el))

	if len(s.named("layer")) != 0 {
		t.Error("shape opacity must not open a layer")
	}
	fills := s.named("fill")
	if len(fills) != 2 {
		t.Fatalf("expected background + shape fills, got %d", len(fills))
	}
	if a := fills[1].paint.Color.A; a != 128 {
		t.Errorf("fill alpha = %d, want 128", a)
	}
}

func TestDrawSlide_TextOpacityUsesLayer(t *testing.T) {
	el := scene.NewElement(scene.ElementText, 0, 0, 200, 100)
	el.Text = &scene.TextContent{Content: "hello"}
	el.Opacity = 0.25
	el.Style.Blend = scene.BlendMultiply

	e, _ := quietEngine(nil)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(el))

	layers := s.named("layer")
	if len(layers) != 1 {
		t.Fatalf("expected one layer, got %d", len(layers))
	}
	if l := layers[0].layer; l.Opacity != 0.25 || l.Blend != scene.BlendMultiply {
		t.Errorf("layer = %+v", l)
	}
	if len(s.named("endlayer")) != 1 || s.depth != 0 {
		t.Error("layer or scope left open")
	}
}

func TestDrawSlide_FullRadiusIsEllipse(t *testing.T) {
	el := scene.NewElement(scene.ElementShape, 0, 0, 300, 100)
	el.Shape = &scene.ShapeContent{Kind: scene.ShapeRectangle}
	el.Style.Fill = scene.Solid("#000000")
	el.Style.CornerRadius = scene.CornerRadius{Uniform: 100}

	e, _ := quietEngine(nil)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(el))

	p := s.named("fill")[1].path
	want := geom.EllipsePath(geom.R(0, 0, 300, 100))
	if !reflect.DeepEqual(p, want) {
		t.Errorf("100%% radius should draw the inscribed ellipse")
	}
}

func TestDrawSlide_MalformedPathFallsBackToRect(t *testing.T) {
	el := scene.NewElement(scene.ElementShape, 5, 5, 40, 20)
	el.Shape = &scene.ShapeContent{Kind: scene.ShapePath, PathData: "M0 0 L zz"}
	el.Style.Fill = scene.Solid("#00FF00")

	e, logs := quietEngine(nil)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(el))

	p := s.named("fill")[1].path
	if !reflect.DeepEqual(p, geom.RectPath(geom.R(5, 5, 40, 20))) {
		t.Errorf("expected rectangle fallback, got %+v", p)
	}
	if !strings.Contains(logs.String(), "malformed shape path") {
		t.Errorf("fallback not logged: %s", logs.String())
	}
}

func TestDrawSlide_RecoversPerElement(t *testing.T) {
	bad := scene.NewElement(scene.ElementShape, 0, 0, 10, 10)
	bad.Shape = &scene.ShapeContent{Kind: scene.ShapePath, PathData: "boom"}
	good := scene.NewElement(scene.ElementShape, 0, 0, 10, 10)
	good.Shape = &scene.ShapeContent{Kind: scene.ShapeRectangle}
	good.Style.Fill = scene.Solid("#123456")

	opts := DefaultOptions()
	opts.ParsePath = func(string) (*geom.Path, error) { panic("parser exploded") }
	e, logs := quietEngine(opts)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(bad, good))

	if s.depth != 0 {
		t.Errorf("unbalanced save/restore after panic: depth %d", s.depth)
	}
	fills := s.named("fill")
	if len(fills) != 2 || fills[1].paint.Color != scene.ParseColor("#123456") {
		t.Errorf("element after the failing one was not drawn: %+v", fills)
	}
	if !strings.Contains(logs.String(), "render element failed") || !strings.Contains(logs.String(), bad.ID) {
		t.Errorf("failure not logged with element id: %s", logs.String())
	}
}

func TestDrawSlide_BackgroundGradientDefaultsVertical(t *testing.T) {
	sl := scene.NewSlide("p")
	sl.Background = scene.Paint{Gradient: &scene.Gradient{Start: "#000000", End: "#FFFFFF"}}

	e, _ := quietEngine(nil)
	s := &fakeSurface{}
	e.DrawSlide(s, sl)

	g := s.named("fill")[0].paint.Gradient
	if g == nil {
		t.Fatal("expected gradient background")
	}
	if math.Abs(g.X0-g.X1) > 1e-9 || math.Abs(g.Y0) > 1e-9 || math.Abs(g.Y1-SlideHeight) > 1e-9 {
		t.Errorf("expected top-to-bottom vector, got %+v", g)
	}
}

func TestDrawSlide_IconStrokeScaled(t *testing.T) {
	el := scene.NewElement(scene.ElementIcon, 0, 0, 96, 48)
	el.Icon = &scene.IconContent{Name: "check", StrokeWidth: 2}

	e, _ := quietEngine(nil)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(el))

	strokes := s.named("stroke")
	if len(strokes) != 1 {
		t.Fatalf("expected one stroke, got %d", len(strokes))
	}
	if w := strokes[0].stroke.Width; w != 1 {
		t.Errorf("stroke width = %v, want 1 (2 / scale 2)", w)
	}
	scales := s.named("scale")
	if len(scales) != 1 || scales[0].x != 2 || scales[0].y != 2 {
		t.Errorf("icon must be scaled uniformly by 2, got %+v", scales)
	}
	// 48 units of icon centered in 96 units of width
	tr := s.named("translate")
	if len(tr) != 1 || tr[0].x != 24 || tr[0].y != 0 {
		t.Errorf("icon not centered: %+v", tr)
	}
}

func TestDrawSlide_UnknownIconDrawsCircle(t *testing.T) {
	el := scene.NewElement(scene.ElementIcon, 0, 0, 40, 40)
	el.Icon = &scene.IconContent{Name: "no-such-icon"}

	e, _ := quietEngine(nil)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(el))

	strokes := s.named("stroke")
	if len(strokes) != 1 {
		t.Fatalf("expected fallback circle stroke, got %d", len(strokes))
	}
	b := strokes[0].path.Bounds()
	if math.Abs(b.CenterX()-20) > 1e-9 || math.Abs(b.W-38) > 1e-9 {
		t.Errorf("fallback circle bounds = %v", b)
	}
}

func TestDrawSlide_TextTruncatedToHeight(t *testing.T) {
	el := scene.NewElement(scene.ElementText, 0, 0, 100, 40)
	el.Text = &scene.TextContent{Content: "aaaaa bbbbb ccccc ddddd eeeee fffff"}
	el.Style.Typography = scene.Typography{Size: 16, LineHeight: 1.25} // 20 per line

	e, _ := quietEngine(nil)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(el))

	if n := len(s.named("text")); n != 2 {
		t.Errorf("expected 2 visible lines in 40 units, got %d", n)
	}
}

func TestDrawSlide_JustifySpreadsWords(t *testing.T) {
	el := scene.NewElement(scene.ElementText, 0, 0, 100, 200)
	el.Text = &scene.TextContent{Content: "aaa bbb cc dd"}
	el.Style.Typography = scene.Typography{Align: scene.AlignJustify}

	e, _ := quietEngine(nil)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(el))

	texts := s.named("text")
	// line 1 "aaa bbb cc" is justified word by word, line 2 "dd" is the
	// paragraph's last line
	if len(texts) != 4 {
		t.Fatalf("expected 4 text draws, got %d", len(texts))
	}
	last := texts[2]
	if last.text != "cc" || math.Abs(last.x+22-100) > 1e-9 {
		t.Errorf("last justified word should end at the right edge: %+v", last)
	}
	if texts[3].text != "dd" || texts[3].x != 0 {
		t.Errorf("final line should be left aligned: %+v", texts[3])
	}
}

func TestDrawSlide_ImageDrawnWithClip(t *testing.T) {
	el := scene.NewElement(scene.ElementImage, 0, 0, 50, 50)
	el.Image = &scene.ImageContent{Src: "logo"}
	opts := DefaultOptions()
	opts.Assets = AssetMap{"logo": image.NewRGBA(image.Rect(0, 0, 10, 10))}
	e, _ := quietEngine(opts)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(el))

	var names []string
	for _, o := range s.ops {
		if o.name == "clip" || o.name == "image" {
			names = append(names, o.name)
		}
	}
	if !reflect.DeepEqual(names, []string{"clip", "image"}) {
		t.Errorf("expected clip before image, got %v", names)
	}
}

func rectNear(a, b geom.Rect) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.W-b.W) < eps && math.Abs(a.H-b.H) < eps
}

func TestDrawSlide_BlurbOutlineFillsBox(t *testing.T) {
	tails := []scene.TailPosition{
		scene.TailTopLeft, scene.TailTop, scene.TailTopRight, scene.TailRight,
		scene.TailBottomRight, scene.TailBottom, scene.TailBottomLeft, scene.TailLeft,
	}
	for _, tail := range tails {
		t.Run(string(tail), func(t *testing.T) {
			el := scene.NewElement(scene.ElementBlurb, 100, 50, 200, 120)
			el.Blurb = &scene.BlurbContent{Text: "hi", Tail: tail}

			e, _ := quietEngine(nil)
			s := &fakeSurface{}
			e.DrawSlide(s, slideWith(el))

			fills := s.named("fill")
			if len(fills) != 2 {
				t.Fatalf("expected background + blurb fills, got %d", len(fills))
			}
			if b := fills[1].path.Bounds(); !rectNear(b, el.Bounds()) {
				t.Errorf("outline bounds = %+v, want %+v", b, el.Bounds())
			}

			body := BlurbBody(el.Bounds(), tail)
			if body.W != el.Width && body.H != el.Height {
				t.Errorf("body %+v not inset on one side only", body)
			}
			texts := s.named("text")
			if len(texts) != 1 {
				t.Fatalf("expected one text run, got %d", len(texts))
			}
			inner := body.Inset(BlurbPadding)
			if x := texts[0].x; x < inner.X || x > inner.Right() {
				t.Errorf("text x = %v outside padded body %+v", x, inner)
			}
		})
	}
}

func TestBlurbPath_TooSmallForTail(t *testing.T) {
	box := geom.R(0, 0, 10, 10)
	for _, tail := range []scene.TailPosition{scene.TailLeft, scene.TailTop, scene.TailBottomRight} {
		body := BlurbBody(box, tail)
		if body != box {
			t.Errorf("%s: body = %+v, want the whole box", tail, body)
		}
		p := BlurbPath(box, tail, geom.Corners{2, 2, 2, 2})
		if b := p.Bounds(); !rectNear(b, box) {
			t.Errorf("%s: outline bounds = %+v, want %+v", tail, b, box)
		}
	}
}

func TestDrawSlide_LineOffsetAndCap(t *testing.T) {
	tests := []struct {
		name  string
		cap   scene.LineCap
		width float64
		paint string
		want  StrokeStyle
		color uint8
	}{
		{"round", scene.CapRound, 3, "#00FF00", StrokeStyle{Width: 3, Cap: CapRound}, 255},
		{"defaults", "", 0, "", StrokeStyle{Width: 2, Cap: CapButt}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := scene.NewElement(scene.ElementLine, 50, 60, 100, 40)
			el.Line = &scene.LineContent{X1: 0, Y1: 40, X2: 100, Y2: 0, Cap: tt.cap}
			el.Style.StrokeWidth = tt.width
			if tt.paint != "" {
				el.Style.Stroke = scene.Solid(tt.paint)
			}

			e, _ := quietEngine(nil)
			s := &fakeSurface{}
			e.DrawSlide(s, slideWith(el))

			strokes := s.named("stroke")
			if len(strokes) != 1 {
				t.Fatalf("expected one stroke, got %d", len(strokes))
			}
			st := strokes[0]
			want := []geom.Point{geom.Pt(50, 100), geom.Pt(150, 60)}
			if !reflect.DeepEqual(st.path.Points, want) {
				t.Errorf("line points = %v, want %v", st.path.Points, want)
			}
			if st.stroke != tt.want {
				t.Errorf("stroke = %+v, want %+v", st.stroke, tt.want)
			}
			if c := st.paint.Color; c.G != tt.color || c.A != 255 {
				t.Errorf("stroke color = %v", c)
			}
		})
	}
}

func TestDrawSlide_TableFollowsWeights(t *testing.T) {
	el := scene.NewElement(scene.ElementTable, 10, 20, 300, 100)
	el.Table = scene.NewTable(2, 2)
	el.Table.ColumnWidths = []float64{1, 2}
	el.Table.RowHeights = []float64{1, 3}
	el.Table.Cells[0][0].Text = "ab"
	el.Table.Cells[1][1].Background = "#FF0000"

	e, _ := quietEngine(nil)
	s := &fakeSurface{}
	e.DrawSlide(s, slideWith(el))

	want := []geom.Rect{
		geom.R(10, 20, 100, 25), geom.R(110, 20, 200, 25),
		geom.R(10, 45, 100, 75), geom.R(110, 45, 200, 75),
	}
	strokes := s.named("stroke")
	if len(strokes) != len(want) {
		t.Fatalf("expected %d cell borders, got %d", len(want), len(strokes))
	}
	for i, st := range strokes {
		if b := st.path.Bounds(); !rectNear(b, want[i]) {
			t.Errorf("cell %d = %+v, want %+v", i, b, want[i])
		}
	}

	fills := s.named("fill")
	if len(fills) != 2 {
		t.Fatalf("expected background + one cell fill, got %d", len(fills))
	}
	if b := fills[1].path.Bounds(); !rectNear(b, want[3]) {
		t.Errorf("filled cell = %+v, want %+v", b, want[3])
	}

	texts := s.named("text")
	if len(texts) != 1 {
		t.Fatalf("expected one text run, got %d", len(texts))
	}
	// centered in the padded 92-wide cell: 14 + (92-22)/2
	if x := texts[0].x; math.Abs(x-49) > 1e-9 {
		t.Errorf("cell text x = %v, want 49", x)
	}
}

func TestTracks_EqualSplitUnevenWeights(t *testing.T) {
	if got := Tracks(90, 3, []float64{1, 0, 2}); !reflect.DeepEqual(got, []float64{30, 30, 30}) {
		t.Errorf("non-positive weight should fall back to equal: %v", got)
	}
	if got := Tracks(10, 0, nil); len(got) != 0 {
		t.Errorf("zero tracks = %v", got)
	}
}
