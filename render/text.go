package render

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/scene"
)

// Line is one wrapped line of text.
type Line struct {
	Words []string
	Width float64
	// ParagraphEnd marks the last line of a paragraph, which is never
	// justified.
	ParagraphEnd bool
}

// Text returns the words joined by single spaces.
func (l Line) Text() string { return strings.Join(l.Words, " ") }

// WrapText splits text into paragraphs on newlines and greedily wraps each
// paragraph to maxWidth. Words are appended to the current line as long as
// the line so far, including its trailing space, fits in maxWidth; a word
// longer than the line is never split. maxWidth <= 0 disables wrapping.
func WrapText(text string, maxWidth float64, measure func(string) float64) []Line {
	text = norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))
	var lines []Line
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, Line{ParagraphEnd: true})
			continue
		}
		var cur []string
		flush := func(end bool) {
			lines = append(lines, Line{Words: cur, Width: measure(strings.Join(cur, " ")), ParagraphEnd: end})
			cur = nil
		}
		for _, w := range words {
			if len(cur) > 0 && maxWidth > 0 && measure(strings.Join(cur, " ")+" ") > maxWidth {
				flush(false)
			}
			cur = append(cur, w)
		}
		flush(true)
	}
	return lines
}

// textBlock is a wrapped text run laid out inside a box.
type textBlock struct {
	text    string
	box     geom.Rect
	typo    scene.Typography
	paint   Paint
	vcenter bool
}

func fontOf(t scene.Typography) Font {
	return Font{Family: t.Family, Size: t.Size, Bold: t.Bold, Italic: t.Italic}
}

// textPaint returns the typography's fill, a gradient spanning box when one
// is set.
func textPaint(t scene.Typography, box geom.Rect) Paint {
	if t.Fill != nil && !t.Fill.IsNone() {
		return resolvePaint(*t.Fill, box, 1)
	}
	return solid(t.Color, 1)
}

// drawTextBlock wraps and draws b. Lines that do not fit in the box height
// are dropped, except the first line which is always drawn.
func drawTextBlock(s Surface, b textBlock) {
	f := fontOf(b.typo)
	lines := WrapText(b.text, b.box.W, func(t string) float64 { return s.MeasureText(t, f) })
	lh := b.typo.Size * b.typo.LineHeight

	visible := len(lines)
	for i := 1; i < len(lines); i++ {
		if float64(i+1)*lh > b.box.H+0.01 {
			visible = i
			break
		}
	}
	top := b.box.Y
	if b.vcenter {
		top += math.Max(0, (b.box.H-float64(visible)*lh)/2)
	}
	// half-leading above the glyph box
	lead := (lh - b.typo.Size) / 2

	for i, ln := range lines[:visible] {
		if len(ln.Words) == 0 {
			continue
		}
		y := top + float64(i)*lh + lead
		switch b.typo.Align {
		case scene.AlignCenter:
			s.FillText(ln.Text(), b.box.X+(b.box.W-ln.Width)/2, y, f, b.paint)
		case scene.AlignRight:
			s.FillText(ln.Text(), b.box.Right()-ln.Width, y, f, b.paint)
		case scene.AlignJustify:
			if ln.ParagraphEnd || len(ln.Words) < 2 {
				s.FillText(ln.Text(), b.box.X, y, f, b.paint)
				continue
			}
			var words float64
			widths := make([]float64, len(ln.Words))
			for j, w := range ln.Words {
				widths[j] = s.MeasureText(w, f)
				words += widths[j]
			}
			gap := math.Max(0, (b.box.W-words)/float64(len(ln.Words)-1))
			x := b.box.X
			for j, w := range ln.Words {
				s.FillText(w, x, y, f, b.paint)
				x += widths[j] + gap
			}
		default:
			s.FillText(ln.Text(), b.box.X, y, f, b.paint)
		}
	}
}

func (e *Engine) drawText(s Surface, el *scene.Element) error {
	box := el.Bounds()
	if !el.Style.Fill.IsNone() {
		s.FillPath(cornerPath(box, el.Style.CornerRadius), resolvePaint(el.Style.Fill, box, 1))
	}
	typo := el.Style.Typography.Normalized()
	drawTextBlock(s, textBlock{
		text:  el.Text.Content,
		box:   box,
		typo:  typo,
		paint: textPaint(typo, box),
	})
	return nil
}
