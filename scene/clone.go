package scene

// Clone returns a deep copy of the document. Later mutation of either copy
// never affects the other.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Presentation: d.Presentation.Clone(),
		Slides:       make(map[string]*Slide, len(d.Slides)),
	}
	for id, s := range d.Slides {
		out.Slides[id] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the presentation.
func (p *Presentation) Clone() *Presentation {
	if p == nil {
		return nil
	}
	out := *p
	out.SlideIDs = append(List[string]{}, p.SlideIDs...)
	return &out
}

// Clone returns a deep copy of the slide, keeping all ids.
func (s *Slide) Clone() *Slide {
	if s == nil {
		return nil
	}
	out := *s
	out.Background = s.Background.Clone()
	out.Elements = make(List[*Element], len(s.Elements))
	for i, e := range s.Elements {
		out.Elements[i] = e.Clone()
	}
	return &out
}

// CloneWithNewIDs deep-copies the slide and assigns fresh ids to the slide
// and all of its elements.
func (s *Slide) CloneWithNewIDs() *Slide {
	out := s.Clone()
	out.ID = NewID()
	for _, e := range out.Elements {
		e.ID = NewID()
	}
	return out
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := *e
	out.Style = e.Style.Clone()
	if e.Text != nil {
		t := *e.Text
		out.Text = &t
	}
	if e.Shape != nil {
		sh := *e.Shape
		if e.Shape.ViewBox != nil {
			vb := *e.Shape.ViewBox
			sh.ViewBox = &vb
		}
		out.Shape = &sh
	}
	if e.Image != nil {
		im := *e.Image
		if e.Image.Pan != nil {
			pan := *e.Image.Pan
			im.Pan = &pan
		}
		out.Image = &im
	}
	if e.Line != nil {
		l := *e.Line
		out.Line = &l
	}
	if e.Icon != nil {
		ic := *e.Icon
		out.Icon = &ic
	}
	if e.Table != nil {
		out.Table = e.Table.Clone()
	}
	if e.Blurb != nil {
		b := *e.Blurb
		out.Blurb = &b
	}
	return &out
}

// Clone returns a deep copy of the table.
func (t *TableContent) Clone() *TableContent {
	out := *t
	out.Cells = make([][]TableCell, len(t.Cells))
	for i, row := range t.Cells {
		out.Cells[i] = append([]TableCell(nil), row...)
	}
	out.ColumnWidths = cloneFloats(t.ColumnWidths)
	out.RowHeights = cloneFloats(t.RowHeights)
	return &out
}

// Clone returns a deep copy of the style.
func (s Style) Clone() Style {
	out := s
	out.Fill = s.Fill.Clone()
	out.Stroke = s.Stroke.Clone()
	if s.CornerRadius.Corners != nil {
		c := *s.CornerRadius.Corners
		out.CornerRadius.Corners = &c
	}
	if s.Typography.Fill != nil {
		f := s.Typography.Fill.Clone()
		out.Typography.Fill = &f
	}
	return out
}

// Clone returns a deep copy of the paint.
func (p Paint) Clone() Paint {
	out := p
	if p.Gradient != nil {
		g := *p.Gradient
		if p.Gradient.Angle != nil {
			a := *p.Gradient.Angle
			g.Angle = &a
		}
		g.Stops = cloneFloats(p.Gradient.Stops)
		out.Gradient = &g
	}
	return out
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	return append([]float64(nil), v...)
}
