package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VantageDataChat/GoSlides/scene"
)

const (
	nsP = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	nsA = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`
	nsR = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
)

const presentationXML = `<?xml version="1.0" encoding="UTF-8"?>
<p:presentation ` + nsP + ` ` + nsA + ` ` + nsR + `>
  <p:sldIdLst>
    <p:sldId id="257" r:id="rId3"/>
    <p:sldId id="256" r:id="rId2"/>
  </p:sldIdLst>
  <p:sldSz cx="12192000" cy="6858000"/>
</p:presentation>`

const presentationRels = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide2.xml"/>
</Relationships>`

const themeXML = `<?xml version="1.0" encoding="UTF-8"?>
<a:theme ` + nsA + ` name="Test">
  <a:themeElements>
    <a:clrScheme name="Test">
      <a:dk1><a:sysClr val="windowText" lastClr="111111"/></a:dk1>
      <a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>
      <a:accent1><a:srgbClr val="123456"/></a:accent1>
    </a:clrScheme>
  </a:themeElements>
</a:theme>`

// slide1 holds a filled rectangle with text, an ellipse, a picture and a
// connector; slide2 holds a table on a colored background.
const slide1XML = `<?xml version="1.0" encoding="UTF-8"?>
<p:sld ` + nsP + ` ` + nsA + ` ` + nsR + `>
  <p:cSld>
    <p:spTree>
      <p:sp>
        <p:nvSpPr><p:cNvPr id="2" name="Title"/></p:nvSpPr>
        <p:spPr>
          <a:xfrm><a:off x="1270000" y="635000"/><a:ext cx="2540000" cy="1270000"/></a:xfrm>
          <a:prstGeom prst="rect"><a:avLst/></a:prstGeom>
          <a:solidFill><a:schemeClr val="accent1"/></a:solidFill>
        </p:spPr>
        <p:txBody>
          <a:bodyPr/>
          <a:p>
            <a:pPr algn="ctr"/>
            <a:r><a:rPr sz="2400" b="1"><a:solidFill><a:srgbClr val="FF0000"/></a:solidFill><a:latin typeface="Arial"/></a:rPr><a:t>Hello</a:t></a:r>
            <a:br/>
            <a:r><a:t>world</a:t></a:r>
          </a:p>
          <a:p><a:r><a:t>second</a:t></a:r></a:p>
        </p:txBody>
      </p:sp>
      <p:sp>
        <p:nvSpPr><p:cNvPr id="3" name="Oval" hidden="1"/></p:nvSpPr>
        <p:spPr>
          <a:xfrm rot="5400000"><a:off x="0" y="0"/><a:ext cx="127000" cy="127000"/></a:xfrm>
          <a:prstGeom prst="ellipse"><a:avLst/></a:prstGeom>
          <a:solidFill><a:srgbClr val="00FF00"><a:alpha val="50000"/></a:srgbClr></a:solidFill>
          <a:ln w="25400"><a:solidFill><a:srgbClr val="0000FF"/></a:solidFill></a:ln>
        </p:spPr>
      </p:sp>
      <p:pic>
        <p:nvPicPr><p:cNvPr id="4" name="Picture"/></p:nvPicPr>
        <p:blipFill><a:blip r:embed="rId2"/></p:blipFill>
        <p:spPr><a:xfrm><a:off x="6096000" y="3429000"/><a:ext cx="1270000" cy="1270000"/></a:xfrm></p:spPr>
      </p:pic>
      <p:cxnSp>
        <p:nvCxnSpPr><p:cNvPr id="5" name="Connector"/></p:nvCxnSpPr>
        <p:spPr>
          <a:xfrm flipV="1"><a:off x="0" y="0"/><a:ext cx="1270000" cy="635000"/></a:xfrm>
          <a:prstGeom prst="straightConnector1"><a:avLst/></a:prstGeom>
        </p:spPr>
      </p:cxnSp>
      <p:sp>
        <p:nvSpPr><p:cNvPr id="6" name="Empty"/></p:nvSpPr>
        <p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="100" cy="100"/></a:xfrm></p:spPr>
      </p:sp>
    </p:spTree>
  </p:cSld>
</p:sld>`

const slide1Rels = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image1.png"/>
  <Relationship Id="rId9" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com" TargetMode="External"/>
</Relationships>`

const slide2XML = `<?xml version="1.0" encoding="UTF-8"?>
<p:sld ` + nsP + ` ` + nsA + ` ` + nsR + `>
  <p:cSld>
    <p:bg><p:bgPr><a:solidFill><a:srgbClr val="ABCDEF"/></a:solidFill></p:bgPr></p:bg>
    <p:spTree>
      <p:graphicFrame>
        <p:nvGraphicFramePr><p:cNvPr id="2" name="Table"/></p:nvGraphicFramePr>
        <p:xfrm><a:off x="127000" y="254000"/><a:ext cx="2540000" cy="1270000"/></p:xfrm>
        <a:graphic><a:graphicData>
          <a:tbl>
            <a:tblGrid><a:gridCol w="100"/><a:gridCol w="300"/></a:tblGrid>
            <a:tr h="50">
              <a:tc><a:txBody><a:p><a:r><a:t>A1</a:t></a:r></a:p></a:txBody>
                <a:tcPr><a:lnL w="12700"><a:solidFill><a:srgbClr val="222222"/></a:solidFill></a:lnL><a:solidFill><a:srgbClr val="EEEEEE"/></a:solidFill></a:tcPr></a:tc>
              <a:tc><a:txBody><a:p><a:r><a:rPr><a:solidFill><a:srgbClr val="FF0000"/></a:solidFill></a:rPr><a:t>B1</a:t></a:r></a:p><a:p><a:r><a:t>more</a:t></a:r></a:p></a:txBody></a:tc>
            </a:tr>
            <a:tr h="50">
              <a:tc><a:txBody><a:p/></a:txBody></a:tc>
              <a:tc><a:txBody><a:p><a:r><a:t>B2</a:t></a:r></a:p></a:txBody></a:tc>
            </a:tr>
          </a:tbl>
        </a:graphicData></a:graphic>
      </p:graphicFrame>
      <p:grpSp>
        <p:grpSpPr><a:xfrm><a:off x="1270000" y="1270000"/><a:ext cx="1270000" cy="1270000"/><a:chOff x="0" y="0"/><a:chExt cx="2540000" cy="2540000"/></a:xfrm></p:grpSpPr>
        <p:sp>
          <p:nvSpPr><p:cNvPr id="3" name="Grouped"/></p:nvSpPr>
          <p:spPr>
            <a:xfrm><a:off x="254000" y="0"/><a:ext cx="254000" cy="254000"/></a:xfrm>
            <a:prstGeom prst="roundRect"><a:avLst><a:gd name="adj" fmla="val 25000"/></a:avLst></a:prstGeom>
            <a:gradFill><a:gsLst>
              <a:gs pos="0"><a:srgbClr val="000000"/></a:gs>
              <a:gs pos="100000"><a:srgbClr val="FFFFFF"/></a:gs>
            </a:gsLst><a:lin ang="5400000"/></a:gradFill>
          </p:spPr>
        </p:sp>
      </p:grpSp>
    </p:spTree>
  </p:cSld>
</p:sld>`

const coreXML = `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">
  <dc:title> Quarterly Review </dc:title>
  <dcterms:created>2024-03-01T10:00:00Z</dcterms:created>
</cp:coreProperties>`

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func sampleDeck(t *testing.T) []byte {
	return buildArchive(t, map[string]string{
		"ppt/presentation.xml":             presentationXML,
		"ppt/_rels/presentation.xml.rels":  presentationRels,
		"ppt/theme/theme1.xml":             themeXML,
		"ppt/slides/slide1.xml":            slide1XML,
		"ppt/slides/_rels/slide1.xml.rels": slide1Rels,
		"ppt/slides/slide2.xml":            slide2XML,
		"ppt/media/image1.png":             string(pngBytes(t)),
		"docProps/core.xml":                coreXML,
		"[Content_Types].xml":              `<Types/>`,
	})
}

func importDeck(t *testing.T) *scene.Document {
	t.Helper()
	data := sampleDeck(t)
	doc, err := ImportReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestImport_SlideOrderAndMetadata(t *testing.T) {
	doc := importDeck(t)
	if doc.Presentation.Title != "Quarterly Review" {
		t.Errorf("title = %q", doc.Presentation.Title)
	}
	if got := doc.Presentation.CreatedAt.Format("2006-01-02"); got != "2024-03-01" {
		t.Errorf("created = %s", got)
	}
	slides := doc.OrderedSlides()
	if len(slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(slides))
	}
	// sldIdLst lists slide2 first
	if slides[0].Background.Color != "#ABCDEF" {
		t.Errorf("first slide background = %+v", slides[0].Background)
	}
	for i, sl := range slides {
		if sl.Order != i || sl.PresentationID != doc.Presentation.ID {
			t.Errorf("slide %d: order %d presentation %q", i, sl.Order, sl.PresentationID)
		}
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestImport_ShapesAndText(t *testing.T) {
	sl := importDeck(t).OrderedSlides()[1]
	els := sl.Elements
	if len(els) != 5 {
		for _, e := range els {
			t.Logf("%s %+v", e.Type, e.Bounds())
		}
		t.Fatalf("got %d elements, want 5", len(els))
	}

	rect, text, oval, pic, line := els[0], els[1], els[2], els[3], els[4]
	if rect.Type != scene.ElementShape || rect.Shape.Kind != scene.ShapeRectangle {
		t.Fatalf("element 0 = %s", rect.Type)
	}
	// 12700 EMU per unit on a 16:9 deck
	if !near(rect.X, 100) || !near(rect.Y, 50) || !near(rect.Width, 200) || !near(rect.Height, 100) {
		t.Errorf("rect bounds = %+v", rect.Bounds())
	}
	if rect.Style.Fill.Color != "#123456" {
		t.Errorf("rect fill = %+v", rect.Style.Fill)
	}

	if text.Type != scene.ElementText {
		t.Fatalf("element 1 = %s", text.Type)
	}
	if text.Text.Content != "Hello\nworld\nsecond" {
		t.Errorf("text = %q", text.Text.Content)
	}
	typo := text.Style.Typography
	if !near(typo.Size, 24) || !typo.Bold || typo.Color != "#FF0000" || typo.Family != "Arial" || typo.Align != scene.AlignCenter {
		t.Errorf("typography = %+v", typo)
	}
	if text.Bounds() != rect.Bounds() {
		t.Errorf("text bounds %+v differ from shape %+v", text.Bounds(), rect.Bounds())
	}

	if oval.Shape.Kind != scene.ShapeEllipse || !oval.Hidden || !near(oval.Rotation, 90) {
		t.Errorf("oval = %+v hidden=%v rot=%v", oval.Shape, oval.Hidden, oval.Rotation)
	}
	if oval.Style.Fill.Color != "#00FF0080" {
		t.Errorf("oval fill = %q", oval.Style.Fill.Color)
	}
	if oval.Style.Stroke.Color != "#0000FF" || !near(oval.Style.StrokeWidth, 2) {
		t.Errorf("oval stroke = %+v width %v", oval.Style.Stroke, oval.Style.StrokeWidth)
	}

	if pic.Type != scene.ElementImage || !strings.HasPrefix(pic.Image.Src, "data:image/png;base64,") {
		t.Errorf("picture = %s %+v", pic.Type, pic.Image)
	}
	if !near(pic.X, 480) || !near(pic.Y, 270) {
		t.Errorf("picture at %v,%v", pic.X, pic.Y)
	}

	if line.Type != scene.ElementLine {
		t.Fatalf("element 4 = %s", line.Type)
	}
	if l := line.Line; !near(l.X1, 0) || !near(l.Y1, 50) || !near(l.X2, 100) || !near(l.Y2, 0) {
		t.Errorf("flipped line = %+v", l)
	}
	if line.Style.Stroke.Color != "#111111" || !near(line.Style.StrokeWidth, 1) {
		t.Errorf("default connector stroke = %+v %v", line.Style.Stroke, line.Style.StrokeWidth)
	}
}

func TestImport_TableAndGroup(t *testing.T) {
	sl := importDeck(t).OrderedSlides()[0]
	if len(sl.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(sl.Elements))
	}
	tbl := sl.Elements[0]
	if tbl.Type != scene.ElementTable || tbl.Table.Rows != 2 || tbl.Table.Cols != 2 {
		t.Fatalf("table = %s %+v", tbl.Type, tbl.Table)
	}
	if !near(tbl.X, 10) || !near(tbl.Y, 20) {
		t.Errorf("table at %v,%v", tbl.X, tbl.Y)
	}
	tc := tbl.Table
	if c := tc.Cell(0, 0); c.Text != "A1" || c.Background != "#EEEEEE" {
		t.Errorf("A1 = %+v", c)
	}
	if c := tc.Cell(0, 1); c.Text != "B1\nmore" || c.Color != "#FF0000" {
		t.Errorf("B1 = %+v", c)
	}
	if c := tc.Cell(1, 0); c.Text != "" {
		t.Errorf("A2 = %+v", c)
	}
	if tc.BorderColor != "#222222" || !near(tc.BorderWidth, 1) {
		t.Errorf("border = %q %v", tc.BorderColor, tc.BorderWidth)
	}
	if len(tc.ColumnWidths) != 2 || tc.ColumnWidths[1] != 300 {
		t.Errorf("column widths = %v", tc.ColumnWidths)
	}

	g := sl.Elements[1]
	// child space is twice the group extent
	if !near(g.X, 110) || !near(g.Y, 100) || !near(g.Width, 10) || !near(g.Height, 10) {
		t.Errorf("grouped bounds = %+v", g.Bounds())
	}
	if !near(g.Style.CornerRadius.Uniform, 50) {
		t.Errorf("corner radius = %v", g.Style.CornerRadius.Uniform)
	}
	gr := g.Style.Fill.Gradient
	if gr == nil || gr.Start != "#000000" || gr.End != "#FFFFFF" || gr.Angle == nil || *gr.Angle != 90 {
		t.Errorf("gradient = %+v", gr)
	}
}

func TestImport_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, sampleDeck(t), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Import(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.SlideCount() != 2 {
		t.Errorf("slides = %d", doc.SlideCount())
	}
	if _, err := Import(filepath.Join(t.TempDir(), "missing.pptx")); err == nil {
		t.Error("missing file imported")
	}
}

func TestImport_Rejects(t *testing.T) {
	notDeck := buildArchive(t, map[string]string{"word/document.xml": "<w/>"})
	if _, err := ImportReader(bytes.NewReader(notDeck), int64(len(notDeck))); !errors.Is(err, ErrNotPresentation) {
		t.Errorf("docx err = %v", err)
	}
	garbage := []byte("not a zip at all")
	if _, err := ImportReader(bytes.NewReader(garbage), int64(len(garbage))); err == nil {
		t.Error("garbage imported")
	}
	if _, err := ImportReader(bytes.NewReader(nil), 0); err == nil {
		t.Error("empty reader imported")
	}
}

func TestImport_EmptyDeckKeepsBlankSlide(t *testing.T) {
	data := buildArchive(t, map[string]string{
		"ppt/presentation.xml": `<p:presentation ` + nsP + `><p:sldSz cx="9144000" cy="6858000"/></p:presentation>`,
	})
	doc, err := ImportReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if doc.SlideCount() != 1 {
		t.Errorf("slides = %d, want the blank slide", doc.SlideCount())
	}
}

func TestResolvePart(t *testing.T) {
	cases := []struct{ dir, target, want string }{
		{"ppt/slides/", "../media/image1.png", "ppt/media/image1.png"},
		{"ppt/", "slides/slide1.xml", "ppt/slides/slide1.xml"},
		{"ppt/slides/", "/ppt/media/a.png", "ppt/media/a.png"},
		{"ppt/", "../../../etc/passwd", "etc/passwd"},
	}
	for _, c := range cases {
		if got := resolvePart(c.dir, c.target); got != c.want {
			t.Errorf("resolvePart(%q, %q) = %q, want %q", c.dir, c.target, got, c.want)
		}
	}
}

func TestColorModifiers(t *testing.T) {
	c := colorRef{rgb: [3]float64{1, 0, 0}, alpha: 1, lumMod: 0.5}
	if got := c.hex(); got != "#800000" {
		t.Errorf("lumMod 50%% = %s", got)
	}
	c = colorRef{rgb: [3]float64{0, 0, 0}, alpha: 1, lumMod: 1, lumOff: 1}
	if got := c.hex(); got != "#FFFFFF" {
		t.Errorf("lumOff 100%% = %s", got)
	}
	if got := withAlpha("#102030", 0); got != "#10203000" {
		t.Errorf("withAlpha = %s", got)
	}
}
