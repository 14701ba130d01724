package render

import (
	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/scene"
)

const (
	tableBorderColor = "#D1D5DB"
	tableCellPadding = 4
)

// Tracks divides total into n segments. Explicit weights are honored when
// there is exactly one positive weight per segment; otherwise every segment
// gets an equal share.
func Tracks(total float64, n int, weights []float64) []float64 {
	out := make([]float64, n)
	if n <= 0 {
		return out
	}
	var sum float64
	valid := len(weights) == n
	for _, w := range weights {
		if w <= 0 {
			valid = false
		}
		sum += w
	}
	for i := range out {
		if valid {
			out[i] = total * weights[i] / sum
		} else {
			out[i] = total / float64(n)
		}
	}
	return out
}

func (e *Engine) drawTable(s Surface, el *scene.Element) error {
	t := el.Table
	if t.Rows <= 0 || t.Cols <= 0 {
		return nil
	}
	box := el.Bounds()
	cols := Tracks(box.W, t.Cols, t.ColumnWidths)
	rows := Tracks(box.H, t.Rows, t.RowHeights)

	bw := t.BorderWidth
	if bw <= 0 {
		bw = 1
	}
	border := Paint{Color: colorOr(t.BorderColor, tableBorderColor)}
	typo := el.Style.Typography.Normalized()
	typo.Align = scene.AlignCenter

	y := box.Y
	for r, rh := range rows {
		x := box.X
		for c, cw := range cols {
			cell := t.Cell(r, c)
			rect := geom.R(x, y, cw, rh)
			path := geom.RectPath(rect)

			bg := cell.Background
			if bg == "" {
				bg = el.Style.Fill.Color
			}
			if bg != "" {
				s.FillPath(path, solid(bg, 1))
			}
			s.StrokePath(path, border, StrokeStyle{Width: bw})

			if cell.Text != "" {
				ct := typo
				if cell.Color != "" {
					ct.Color = cell.Color
				}
				drawTextBlock(s, textBlock{
					text:    cell.Text,
					box:     rect.Inset(tableCellPadding),
					typo:    ct,
					paint:   solid(ct.Color, 1),
					vcenter: true,
				})
			}
			x += cw
		}
		y += rh
	}
	return nil
}
