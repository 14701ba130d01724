package pptx

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/VantageDataChat/GoSlides/scene"
)

const (
	emuPerPoint = 12700
	// rotation and angle attributes are in 60000ths of a degree
	angleUnit = 60000
	// percentages are in 1000ths of a percent
	pctUnit = 100000
	// roundRect corner adjustment when the deck gives none
	defaultRoundRectAdj = 16667
)

// groupXform maps a group's child coordinate space into its parent's.
type groupXform struct {
	offX, offY, extCX, extCY         int64
	chOffX, chOffY, chExtCX, chExtCY int64
}

func (g groupXform) apply(x, y, cx, cy float64) (float64, float64, float64, float64) {
	sx, sy := 1.0, 1.0
	if g.chExtCX != 0 {
		sx = float64(g.extCX) / float64(g.chExtCX)
	}
	if g.chExtCY != 0 {
		sy = float64(g.extCY) / float64(g.chExtCY)
	}
	return float64(g.offX) + (x-float64(g.chOffX))*sx,
		float64(g.offY) + (y-float64(g.chOffY))*sy,
		cx * sx, cy * sy
}

type xfrm struct {
	offX, offY, cx, cy int64
	rot                float64
	flipH, flipV       bool
}

// shape accumulates one p:sp, p:pic, p:cxnSp or p:graphicFrame.
type shape struct {
	kind   string
	hidden bool
	xf     xfrm
	prst   string
	adj    int64

	fill   scene.Paint
	noFill bool
	line   scene.Paint
	lineW  int64
	hasLn  bool
	noLine bool
	shadow *scene.Shadow

	paras    []string
	para     strings.Builder
	typo     scene.Typography
	sizeSet  bool
	colorSet bool
	alignSet bool

	embed string

	pathData strings.Builder
	pathW    int64
	pathH    int64

	table *tableBuilder
}

type tableBuilder struct {
	cols    []float64
	rows    []float64
	cells   [][]scene.TableCell
	para    strings.Builder
	border  string
	borderW int64
}

func (t *tableBuilder) cell() *scene.TableCell {
	row := &t.cells[len(t.cells)-1]
	return &(*row)[len(*row)-1]
}

// colorRef is a color being read, applied to its destination when the
// color element closes so child modifiers such as alpha are included.
type colorRef struct {
	rgb    [3]float64
	alpha  float64
	lumMod float64
	lumOff float64
	dest   func(hex string, alpha float64)
}

type gradStop struct {
	pos float64
	hex string
}

type gradBuilder struct {
	stops []gradStop
	pos   float64
	angle *float64
	dest  func(scene.Paint)
}

type slideParser struct {
	a      *archive
	rels   map[string]string
	slide  *scene.Slide
	stack  []string
	groups []groupXform
	cur    *shape
	color  *colorRef
	grad   *gradBuilder
}

func (a *archive) readSlide(part string) (*scene.Slide, error) {
	data, err := a.read(part)
	if err != nil {
		return nil, err
	}
	rels, err := a.rels(part)
	if err != nil {
		return nil, err
	}
	p := &slideParser{a: a, rels: rels, slide: scene.NewSlide("")}
	if err := p.parse(xml.NewDecoder(bytes.NewReader(data))); err != nil {
		return nil, fmt.Errorf("%s: %w", part, err)
	}
	return p.slide, nil
}

func (p *slideParser) parent(n int) string {
	if i := len(p.stack) - 1 - n; i >= 0 {
		return p.stack[i]
	}
	return ""
}

func (p *slideParser) within(name string) bool {
	for _, s := range p.stack {
		if s == name {
			return true
		}
	}
	return false
}

func (p *slideParser) parse(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to parse slide XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.stack = append(p.stack, t.Name.Local)
			p.start(t)
		case xml.EndElement:
			p.end(t.Name.Local)
			p.stack = p.stack[:len(p.stack)-1]
		case xml.CharData:
			p.text(string(t))
		}
	}
}

func (p *slideParser) start(t xml.StartElement) {
	name := t.Name.Local
	switch name {
	case "sp", "pic", "cxnSp", "graphicFrame":
		if p.cur == nil {
			p.cur = &shape{kind: name}
		}
	case "grpSp":
		p.groups = append(p.groups, groupXform{})
	case "cNvPr":
		if p.cur != nil && attrBool(t, "hidden") {
			p.cur.hidden = true
		}
	case "xfrm":
		if xf := p.xfrmTarget(0); xf != nil {
			xf.flipH = attrBool(t, "flipH")
			xf.flipV = attrBool(t, "flipV")
			if v, ok := attrInt(t, "rot"); ok {
				xf.rot = float64(v) / angleUnit
			}
		}
	case "off", "ext", "chOff", "chExt":
		p.position(name, t)
	case "prstGeom":
		if p.cur != nil {
			p.cur.prst = attr(t, "prst")
		}
	case "gd":
		if p.cur != nil && p.parent(1) == "avLst" && attr(t, "name") == "adj" {
			if v, err := strconv.ParseInt(strings.TrimPrefix(attr(t, "fmla"), "val "), 10, 64); err == nil {
				p.cur.adj = v
			}
		}
	case "noFill":
		if p.cur != nil {
			switch p.parent(1) {
			case "spPr":
				p.cur.noFill = true
			case "ln":
				p.cur.noLine = true
			}
		}
	case "ln":
		if p.cur != nil && p.parent(1) == "spPr" {
			p.cur.hasLn = true
			if w, ok := attrInt(t, "w"); ok {
				p.cur.lineW = w
			}
		}
	case "outerShdw":
		if p.cur != nil && p.within("spPr") {
			p.cur.shadow = outerShadow(t, p.a.scale)
		}
	case "srgbClr", "schemeClr", "sysClr", "prstClr":
		p.startColor(name, t)
	case "alpha", "lumMod", "lumOff":
		if p.color != nil {
			if v, ok := attrInt(t, "val"); ok {
				f := float64(v) / pctUnit
				switch name {
				case "alpha":
					p.color.alpha = f
				case "lumMod":
					p.color.lumMod = f
				case "lumOff":
					p.color.lumOff = f
				}
			}
		}
	case "gradFill":
		if dest := p.paintDest(); dest != nil {
			p.grad = &gradBuilder{dest: dest}
		}
	case "gs":
		if p.grad != nil {
			if v, ok := attrInt(t, "pos"); ok {
				p.grad.pos = float64(v) / pctUnit
			}
		}
	case "lin":
		if p.grad != nil {
			if v, ok := attrInt(t, "ang"); ok {
				a := float64(v) / angleUnit
				p.grad.angle = &a
			}
		}
	case "blip":
		if p.cur != nil && p.cur.kind == "pic" {
			p.cur.embed = attr(t, "embed")
		}
	case "p":
		if p.cur != nil && p.parent(1) == "txBody" {
			p.cur.para.Reset()
		}
	case "br":
		p.appendText("\n")
	case "pPr":
		if p.cur != nil && !p.cur.alignSet && !p.within("tbl") {
			if a := alignment(attr(t, "algn")); a != "" {
				p.cur.typo.Align = a
				p.cur.alignSet = true
			}
		}
	case "rPr":
		p.runProps(t)
	case "latin":
		if p.cur != nil && p.parent(1) == "rPr" && p.cur.typo.Family == "" {
			p.cur.typo.Family = attr(t, "typeface")
		}
	case "path":
		if p.cur != nil && p.parent(1) == "pathLst" {
			p.cur.pathW, _ = attrInt(t, "w")
			p.cur.pathH, _ = attrInt(t, "h")
		}
	case "moveTo", "lnTo", "cubicBezTo", "quadBezTo":
		if p.cur != nil && p.within("custGeom") {
			p.cur.pathData.WriteString(pathCommands[name])
		}
	case "pt":
		if p.cur != nil && p.within("custGeom") {
			x, _ := attrInt(t, "x")
			y, _ := attrInt(t, "y")
			fmt.Fprintf(&p.cur.pathData, " %d %d ", x, y)
		}
	case "close":
		if p.cur != nil && p.within("custGeom") {
			p.cur.pathData.WriteString("Z ")
		}
	case "tbl":
		if p.cur != nil {
			p.cur.table = &tableBuilder{}
		}
	case "gridCol":
		if tb := p.table(); tb != nil {
			w, _ := attrInt(t, "w")
			tb.cols = append(tb.cols, float64(w))
		}
	case "tr":
		if tb := p.table(); tb != nil {
			h, _ := attrInt(t, "h")
			tb.rows = append(tb.rows, float64(h))
			tb.cells = append(tb.cells, nil)
		}
	case "tc":
		if tb := p.table(); tb != nil && len(tb.cells) > 0 {
			row := &tb.cells[len(tb.cells)-1]
			*row = append(*row, scene.TableCell{})
			tb.para.Reset()
		}
	case "lnL", "lnR", "lnT", "lnB":
		if tb := p.table(); tb != nil && tb.borderW == 0 {
			tb.borderW, _ = attrInt(t, "w")
		}
	}
}

func (p *slideParser) end(name string) {
	switch name {
	case "sp", "pic", "cxnSp", "graphicFrame":
		if p.cur != nil && p.cur.kind == name {
			p.emit(p.cur)
			p.cur = nil
		}
	case "grpSp":
		p.groups = p.groups[:len(p.groups)-1]
	case "srgbClr", "schemeClr", "sysClr", "prstClr":
		if c := p.color; c != nil {
			p.color = nil
			c.dest(c.hex(), c.alpha)
		}
	case "gradFill":
		if g := p.grad; g != nil {
			p.grad = nil
			if paint, ok := g.paint(); ok {
				g.dest(paint)
			}
		}
	case "p":
		if p.cur == nil {
			return
		}
		if tb := p.table(); tb != nil && p.within("tc") {
			c := tb.cell()
			if c.Text != "" {
				c.Text += "\n"
			}
			c.Text += tb.para.String()
			tb.para.Reset()
			return
		}
		if p.parent(1) == "txBody" {
			p.cur.paras = append(p.cur.paras, p.cur.para.String())
			p.cur.para.Reset()
		}
	}
}

func (p *slideParser) text(s string) {
	if p.parent(0) == "t" {
		p.appendText(s)
	}
}

func (p *slideParser) appendText(s string) {
	if p.cur == nil {
		return
	}
	if tb := p.table(); tb != nil && p.within("tc") {
		tb.para.WriteString(s)
		return
	}
	if p.within("txBody") {
		p.cur.para.WriteString(s)
	}
}

func (p *slideParser) table() *tableBuilder {
	if p.cur == nil {
		return nil
	}
	return p.cur.table
}

// xfrmTarget returns the transform owned by the xfrm element at parent(n),
// or nil for transforms the importer does not track.
func (p *slideParser) xfrmTarget(n int) *xfrm {
	switch p.parent(n + 1) {
	case "spPr", "graphicFrame":
		if p.cur != nil {
			return &p.cur.xf
		}
	}
	return nil
}

func (p *slideParser) position(name string, t xml.StartElement) {
	if p.parent(1) != "xfrm" {
		return
	}
	if p.parent(2) == "grpSpPr" && len(p.groups) > 0 {
		g := &p.groups[len(p.groups)-1]
		x, _ := attrInt(t, "x")
		y, _ := attrInt(t, "y")
		cx, _ := attrInt(t, "cx")
		cy, _ := attrInt(t, "cy")
		switch name {
		case "off":
			g.offX, g.offY = x, y
		case "ext":
			g.extCX, g.extCY = cx, cy
		case "chOff":
			g.chOffX, g.chOffY = x, y
		case "chExt":
			g.chExtCX, g.chExtCY = cx, cy
		}
		return
	}
	xf := p.xfrmTarget(1)
	if xf == nil {
		return
	}
	switch name {
	case "off":
		xf.offX, _ = attrInt(t, "x")
		xf.offY, _ = attrInt(t, "y")
	case "ext":
		xf.cx, _ = attrInt(t, "cx")
		xf.cy, _ = attrInt(t, "cy")
	}
}

func (p *slideParser) runProps(t xml.StartElement) {
	if p.cur == nil || p.within("tbl") {
		return
	}
	if v, ok := attrInt(t, "sz"); ok && !p.cur.sizeSet {
		p.cur.typo.Size = float64(v) / 100 * emuPerPoint * p.a.scale
		p.cur.sizeSet = true
	}
	if attrBool(t, "b") {
		p.cur.typo.Bold = true
	}
	if attrBool(t, "i") {
		p.cur.typo.Italic = true
	}
}

// paintDest returns where a fill read at the current position belongs.
func (p *slideParser) paintDest() func(scene.Paint) {
	switch p.parent(1) {
	case "bgPr":
		return func(pt scene.Paint) { p.slide.Background = pt }
	case "spPr":
		if p.cur != nil {
			return func(pt scene.Paint) { p.cur.fill = pt }
		}
	case "ln":
		if p.cur != nil && p.parent(2) == "spPr" {
			return func(pt scene.Paint) { p.cur.line = pt }
		}
	case "rPr":
		if p.cur != nil && !p.within("tbl") {
			return func(pt scene.Paint) {
				if !p.cur.colorSet && pt.Gradient != nil {
					fill := pt
					p.cur.typo.Fill = &fill
					p.cur.colorSet = true
				}
			}
		}
	}
	return nil
}

func (p *slideParser) startColor(name string, t xml.StartElement) {
	var hex string
	switch name {
	case "srgbClr":
		hex = attr(t, "val")
	case "sysClr":
		hex = attr(t, "lastClr")
	case "schemeClr":
		hex = p.a.theme[attr(t, "val")]
	case "prstClr":
		hex = presetColors[attr(t, "val")]
	}
	rgb, ok := parseRGB(hex)
	if !ok {
		return
	}
	if dest := p.colorDest(); dest != nil {
		p.color = &colorRef{rgb: rgb, alpha: 1, lumMod: 1, dest: dest}
	}
}

// colorDest returns where a color read at the current position belongs.
// The color element itself is on top of the stack.
func (p *slideParser) colorDest() func(hex string, alpha float64) {
	switch p.parent(1) {
	case "gs":
		if g := p.grad; g != nil {
			pos := g.pos
			return func(hex string, alpha float64) {
				g.stops = append(g.stops, gradStop{pos: pos, hex: withAlpha(hex, alpha)})
			}
		}
		return nil
	case "outerShdw":
		if p.cur != nil && p.cur.shadow != nil {
			sh := p.cur.shadow
			return func(hex string, alpha float64) {
				sh.Color, sh.Opacity = hex, alpha
			}
		}
		return nil
	case "solidFill":
	default:
		return nil
	}

	switch owner := p.parent(2); owner {
	case "bgPr", "spPr", "ln":
		dest := p.solidDest(owner)
		if dest == nil {
			return nil
		}
		return func(hex string, alpha float64) { dest(scene.Solid(withAlpha(hex, alpha))) }
	case "rPr":
		if p.cur == nil {
			return nil
		}
		if tb := p.table(); tb != nil && p.within("tc") {
			return func(hex string, alpha float64) {
				if c := tb.cell(); c.Color == "" {
					c.Color = withAlpha(hex, alpha)
				}
			}
		}
		return func(hex string, alpha float64) {
			if !p.cur.colorSet {
				p.cur.typo.Color = withAlpha(hex, alpha)
				p.cur.colorSet = true
			}
		}
	case "tcPr":
		if tb := p.table(); tb != nil {
			return func(hex string, alpha float64) { tb.cell().Background = withAlpha(hex, alpha) }
		}
	case "lnL", "lnR", "lnT", "lnB":
		if tb := p.table(); tb != nil && tb.border == "" {
			return func(hex string, alpha float64) { tb.border = withAlpha(hex, alpha) }
		}
	}
	return nil
}

func (p *slideParser) solidDest(owner string) func(scene.Paint) {
	switch owner {
	case "bgPr":
		return func(pt scene.Paint) { p.slide.Background = pt }
	case "spPr":
		if p.cur != nil && p.parent(3) == p.cur.kind {
			return func(pt scene.Paint) { p.cur.fill = pt }
		}
	case "ln":
		if p.cur != nil && p.parent(3) == "spPr" {
			return func(pt scene.Paint) { p.cur.line = pt }
		}
	}
	return nil
}

// box returns the shape bounds in slide units, after group transforms.
func (p *slideParser) box(xf xfrm) (x, y, w, h float64) {
	x, y, w, h = float64(xf.offX), float64(xf.offY), float64(xf.cx), float64(xf.cy)
	for i := len(p.groups) - 1; i >= 0; i-- {
		x, y, w, h = p.groups[i].apply(x, y, w, h)
	}
	s := p.a.scale
	return x * s, y * s, w * s, h * s
}

func (p *slideParser) emit(sh *shape) {
	x, y, w, h := p.box(sh.xf)
	add := func(el *scene.Element) {
		el.Rotation = sh.xf.rot
		el.Hidden = sh.hidden
		p.slide.AddElement(el)
	}

	switch {
	case sh.kind == "pic":
		src, ok := p.media(sh.embed)
		if !ok {
			return
		}
		el := scene.NewElement(scene.ElementImage, x, y, w, h)
		el.Image = &scene.ImageContent{Src: src, Fit: scene.FitFill}
		add(el)
	case sh.kind == "graphicFrame":
		if sh.table != nil {
			if el := p.tableElement(sh.table, x, y, w, h); el != nil {
				add(el)
			}
		}
	case sh.kind == "cxnSp" || strings.HasSuffix(sh.prst, "line") || strings.HasPrefix(sh.prst, "straightConnector"):
		if sh.noLine {
			return
		}
		el := scene.NewElement(scene.ElementLine, x, y, max(w, 1), max(h, 1))
		x1, y1, x2, y2 := 0.0, 0.0, w, h
		if sh.xf.flipH {
			x1, x2 = x2, x1
		}
		if sh.xf.flipV {
			y1, y2 = y2, y1
		}
		el.Line = &scene.LineContent{X1: x1, Y1: y1, X2: x2, Y2: y2}
		el.Style.Stroke = sh.line
		if el.Style.Stroke.IsNone() {
			el.Style.Stroke = scene.Solid("#" + p.a.theme["tx1"])
		}
		el.Style.StrokeWidth = p.strokeWidth(sh)
		add(el)
	default:
		if el := p.shapeElement(sh, x, y, w, h); el != nil {
			add(el)
		}
		if txt := strings.TrimRight(strings.Join(sh.paras, "\n"), "\n"); strings.TrimSpace(txt) != "" {
			el := scene.NewElement(scene.ElementText, x, y, w, h)
			el.Text = &scene.TextContent{Content: txt}
			el.Style.Typography = sh.typo
			if el.Style.Typography.Size == 0 {
				el.Style.Typography.Size = 18 * emuPerPoint * p.a.scale
			}
			add(el)
		}
	}
}

func (p *slideParser) strokeWidth(sh *shape) float64 {
	w := sh.lineW
	if w <= 0 {
		w = emuPerPoint
	}
	return float64(w) * p.a.scale
}

// shapeElement returns the visible geometry of sh, or nil when it has
// neither fill nor outline.
func (p *slideParser) shapeElement(sh *shape, x, y, w, h float64) *scene.Element {
	filled := !sh.noFill && !sh.fill.IsNone()
	stroked := sh.hasLn && !sh.noLine && !sh.line.IsNone()
	if !filled && !stroked && sh.shadow == nil {
		return nil
	}
	el := scene.NewElement(scene.ElementShape, x, y, w, h)
	el.Shape = &scene.ShapeContent{Kind: scene.ShapeRectangle}
	switch sh.prst {
	case "ellipse":
		el.Shape.Kind = scene.ShapeEllipse
	case "roundRect":
		adj := sh.adj
		if adj == 0 {
			adj = defaultRoundRectAdj
		}
		// radius is adj of the shorter side; scene corners are percent of half of it
		el.Style.CornerRadius.Uniform = math.Min(100, float64(adj)/pctUnit*200)
	}
	if d := strings.TrimSpace(sh.pathData.String()); d != "" && sh.pathW > 0 && sh.pathH > 0 {
		el.Shape.Kind = scene.ShapePath
		el.Shape.PathData = d
		el.Shape.ViewBox = &scene.ViewBox{W: float64(sh.pathW), H: float64(sh.pathH)}
	}
	if filled {
		el.Style.Fill = sh.fill
	}
	if stroked {
		el.Style.Stroke = sh.line
		el.Style.StrokeWidth = p.strokeWidth(sh)
	}
	if sh.shadow != nil {
		el.Style.Shadow = *sh.shadow
	}
	return el
}

func (p *slideParser) tableElement(tb *tableBuilder, x, y, w, h float64) *scene.Element {
	rows, cols := len(tb.cells), len(tb.cols)
	for _, r := range tb.cells {
		cols = max(cols, len(r))
	}
	if rows == 0 || cols == 0 {
		return nil
	}
	t := scene.NewTable(rows, cols)
	for r, row := range tb.cells {
		copy(t.Cells[r], row)
	}
	if len(tb.cols) == cols {
		t.ColumnWidths = tb.cols
	}
	if len(tb.rows) == rows {
		t.RowHeights = tb.rows
	}
	t.BorderColor = tb.border
	if tb.borderW > 0 {
		t.BorderWidth = float64(tb.borderW) * p.a.scale
	}
	el := scene.NewElement(scene.ElementTable, x, y, w, h)
	el.Table = t
	return el
}

// media returns a data: URI for the picture behind relationship id.
func (p *slideParser) media(id string) (string, bool) {
	target, ok := p.rels[id]
	if !ok {
		return "", false
	}
	data, err := p.a.read(target)
	if err != nil {
		return "", false
	}
	return "data:" + guessMimeType(target) + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

func (g *gradBuilder) paint() (scene.Paint, bool) {
	if len(g.stops) < 2 {
		return scene.Paint{}, false
	}
	first, last := g.stops[0], g.stops[len(g.stops)-1]
	return scene.Paint{Gradient: &scene.Gradient{
		Start: first.hex,
		End:   last.hex,
		Angle: g.angle,
		Stops: []float64{first.pos, last.pos},
	}}, true
}

func outerShadow(t xml.StartElement, scale float64) *scene.Shadow {
	blur, _ := attrInt(t, "blurRad")
	dist, _ := attrInt(t, "dist")
	dir, _ := attrInt(t, "dir")
	rad := float64(dir) / angleUnit * math.Pi / 180
	return &scene.Shadow{
		Enabled: true,
		OffsetX: float64(dist) * math.Cos(rad) * scale,
		OffsetY: float64(dist) * math.Sin(rad) * scale,
		Blur:    float64(blur) * scale,
		Color:   "#000000",
		Opacity: 1,
	}
}

func alignment(algn string) scene.TextAlign {
	switch algn {
	case "l":
		return scene.AlignLeft
	case "ctr":
		return scene.AlignCenter
	case "r":
		return scene.AlignRight
	case "just", "dist":
		return scene.AlignJustify
	}
	return ""
}

var pathCommands = map[string]string{"moveTo": "M", "lnTo": "L", "cubicBezTo": "C", "quadBezTo": "Q"}

var presetColors = map[string]string{
	"black": "000000", "white": "FFFFFF", "red": "FF0000", "green": "008000",
	"blue": "0000FF", "yellow": "FFFF00", "gray": "808080", "orange": "FFA500",
}

func parseRGB(hex string) ([3]float64, bool) {
	if len(hex) != 6 {
		return [3]float64{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]float64{}, false
	}
	return [3]float64{
		float64(v>>16&0xFF) / 255,
		float64(v>>8&0xFF) / 255,
		float64(v&0xFF) / 255,
	}, true
}

// hex returns the color with luminance modifiers applied, as #RRGGBB.
func (c *colorRef) hex() string {
	rgb := c.rgb
	if c.lumMod != 1 || c.lumOff != 0 {
		h, s, l := rgbToHSL(rgb)
		l = math.Max(0, math.Min(1, l*c.lumMod+c.lumOff))
		rgb = hslToRGB(h, s, l)
	}
	return fmt.Sprintf("#%02X%02X%02X",
		uint8(math.Round(rgb[0]*255)), uint8(math.Round(rgb[1]*255)), uint8(math.Round(rgb[2]*255)))
}

func withAlpha(hex string, alpha float64) string {
	if alpha >= 1 {
		return hex
	}
	return fmt.Sprintf("%s%02X", hex, uint8(math.Round(scene.Clamp01(alpha)*255)))
}

func rgbToHSL(c [3]float64) (h, s, l float64) {
	hi := math.Max(c[0], math.Max(c[1], c[2]))
	lo := math.Min(c[0], math.Min(c[1], c[2]))
	l = (hi + lo) / 2
	if hi == lo {
		return 0, 0, l
	}
	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}
	switch hi {
	case c[0]:
		h = (c[1] - c[2]) / d
		if c[1] < c[2] {
			h += 6
		}
	case c[1]:
		h = (c[2]-c[0])/d + 2
	default:
		h = (c[0]-c[1])/d + 4
	}
	return h / 6, s, l
}

func hslToRGB(h, s, l float64) [3]float64 {
	if s == 0 {
		return [3]float64{l, l, l}
	}
	q := l * (1 + s)
	if l >= 0.5 {
		q = l + s - l*s
	}
	p := 2*l - q
	hue := func(t float64) float64 {
		switch {
		case t < 0:
			t++
		case t > 1:
			t--
		}
		switch {
		case t < 1.0/6:
			return p + (q-p)*6*t
		case t < 0.5:
			return q
		case t < 2.0/3:
			return p + (q-p)*(2.0/3-t)*6
		}
		return p
	}
	return [3]float64{hue(h + 1.0/3), hue(h), hue(h - 1.0/3)}
}
