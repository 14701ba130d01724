package scene

import (
	"bytes"
	"errors"
	"image/color"
	"reflect"
	"strings"
	"testing"

	"github.com/VantageDataChat/GoSlides/geom"
)

func TestNew_HasOneSlide(t *testing.T) {
	d := New("Deck")
	if d.SlideCount() != 1 {
		t.Fatalf("expected 1 slide, got %d", d.SlideCount())
	}
	s := d.OrderedSlides()[0]
	if s.PresentationID != d.Presentation.ID {
		t.Errorf("slide not linked to presentation")
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestRemoveSlide_LastSlideIsKept(t *testing.T) {
	d := New("Deck")
	id := d.Presentation.SlideIDs[0]
	if err := d.RemoveSlide(id); !errors.Is(err, ErrLastSlide) {
		t.Fatalf("expected ErrLastSlide, got %v", err)
	}
	if d.SlideCount() != 1 || d.Slide(id) == nil {
		t.Fatal("last slide was removed")
	}
}

func TestRemoveSlide_KeepsOrderInSync(t *testing.T) {
	d := New("Deck")
	second := d.InsertSlide(NewSlide(""), 1)
	third := d.InsertSlide(NewSlide(""), 2)
	if err := d.RemoveSlide(second.ID); err != nil {
		t.Fatalf("RemoveSlide: %v", err)
	}
	if d.SlideCount() != 2 || len(d.Slides) != 2 {
		t.Fatalf("order and storage out of sync: %d ids, %d slides", d.SlideCount(), len(d.Slides))
	}
	if third.Order != 1 {
		t.Errorf("expected third slide renumbered to 1, got %d", third.Order)
	}
	if err := d.RemoveSlide("nope"); !errors.Is(err, ErrSlideNotFound) {
		t.Errorf("expected ErrSlideNotFound, got %v", err)
	}
}

func TestMoveSlide(t *testing.T) {
	d := New("Deck")
	a := d.Presentation.SlideIDs[0]
	b := d.InsertSlide(NewSlide(""), 1).ID
	c := d.InsertSlide(NewSlide(""), 2).ID
	if !d.MoveSlide(0, 2) {
		t.Fatal("MoveSlide reported no change")
	}
	got := []string(d.Presentation.SlideIDs)
	want := []string{b, c, a}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if d.MoveSlide(5, 0) {
		t.Error("out of range move should be a no-op")
	}
}

func TestList_InsertRemoveMove(t *testing.T) {
	l := List[string]{"a", "b", "c"}
	l.Insert(1, "x")
	l.Insert(99, "z")
	l.Insert(-3, "first")
	if got := strings.Join(l, ""); got != "firstaxbcz" {
		t.Fatalf("after inserts: %q", got)
	}
	if v, ok := l.Remove(0); !ok || v != "first" {
		t.Fatalf("Remove(0) = %q, %v", v, ok)
	}
	if _, ok := l.Remove(10); ok {
		t.Fatal("Remove out of range should fail")
	}
	l.Move(0, 10)
	if got := strings.Join(l, ""); got != "xbcza" {
		t.Fatalf("after move: %q", got)
	}
}

func TestSlide_Reorder(t *testing.T) {
	s := NewSlide("p")
	a := s.AddElement(NewElement(ElementShape, 0, 0, 10, 10))
	b := s.AddElement(NewElement(ElementShape, 0, 0, 10, 10))
	c := s.AddElement(NewElement(ElementShape, 0, 0, 10, 10))

	order := func() string {
		var ids []string
		for _, e := range s.Elements {
			switch e {
			case a:
				ids = append(ids, "a")
			case b:
				ids = append(ids, "b")
			case c:
				ids = append(ids, "c")
			}
		}
		return strings.Join(ids, "")
	}

	tests := []struct {
		name string
		op   func() bool
		want string
	}{
		{"bring a to front", func() bool { return s.BringToFront(a.ID) }, "bca"},
		{"send a to back", func() bool { return s.SendToBack(a.ID) }, "abc"},
		{"step a forward", func() bool { return s.StepForward(a.ID) }, "bac"},
		{"step c backward", func() bool { return s.StepBackward(c.ID) }, "bca"},
	}
	for _, tt := range tests {
		tt.op()
		if got := order(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
	if s.BringToFront("missing") {
		t.Error("unknown id should be a no-op")
	}
	if s.StepForward(a.ID) {
		t.Error("stepping the top element forward should be a no-op")
	}
}

func TestClone_IsIndependent(t *testing.T) {
	d := New("Deck")
	s := d.OrderedSlides()[0]
	e := NewElement(ElementTable, 10, 10, 100, 50)
	e.Table = NewTable(2, 2)
	e.Table.Cells[0][0].Text = "A1"
	angle := 45.0
	e.Style.Fill = Paint{Gradient: &Gradient{Start: "#000", End: "#fff", Angle: &angle}}
	s.AddElement(e)

	c := d.Clone()
	if !reflect.DeepEqual(d, c) {
		t.Fatal("clone differs from original")
	}

	e.Table.Cells[0][0].Text = "changed"
	*e.Style.Fill.Gradient.Angle = 90
	d.Presentation.Title = "changed"

	ce := c.Slide(s.ID).Elements[0]
	if ce.Table.Cells[0][0].Text != "A1" {
		t.Error("table cells shared between clones")
	}
	if *ce.Style.Fill.Gradient.Angle != 45 {
		t.Error("gradient angle shared between clones")
	}
	if c.Presentation.Title != "Deck" {
		t.Error("presentation shared between clones")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#FF0000", color.NRGBA{R: 255, A: 255}},
		{"00ff00", color.NRGBA{G: 255, A: 255}},
		{"#00f", color.NRGBA{B: 255, A: 255}},
		{"#11223380", color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}},
		{"transparent", color.NRGBA{}},
		{"", color.NRGBA{}},
		{"#GGGGGG", ColorBlack},
		{"#12345", ColorBlack},
	}
	for _, tt := range tests {
		if got := ParseColor(tt.in); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCornerRadius(t *testing.T) {
	full := CornerRadius{Uniform: 100}
	if !full.Full() {
		t.Error("100% uniform radius should be full")
	}
	r := full.Radii(200, 100)
	if r[0] != 50 || r[3] != 50 {
		t.Errorf("radii = %v, want 50 on every corner", r)
	}
	mixed := CornerRadius{Corners: &geom.Corners{100, 100, 100, 50}}
	if mixed.Full() {
		t.Error("mixed radii should not be full")
	}
}

func TestCodec_RoundTripAndDefaults(t *testing.T) {
	d := New("Deck")
	s := d.OrderedSlides()[0]
	e := s.AddElement(NewElement(ElementText, 1, 2, 300, 40))
	e.Text = &TextContent{Content: "Hello"}

	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Slide(s.ID).Elements[0].Text.Content != "Hello" {
		t.Fatal("text content lost")
	}

	raw := `{"presentation":{"id":"p","slideIds":["s"]},"slides":{"s":{"id":"s","elements":[{"id":"e","type":"shape","shape":{"kind":"rectangle"}}]}}}`
	doc, err := Decode(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode raw: %v", err)
	}
	if op := doc.Slide("s").Elements[0].Opacity; op != 1 {
		t.Errorf("missing opacity should default to 1, got %v", op)
	}
}

func TestValidate_ReportsProblems(t *testing.T) {
	d := New("Deck")
	s := d.OrderedSlides()[0]
	a := s.AddElement(NewElement(ElementText, 0, 0, 10, 10))
	a.Text = &TextContent{}
	b := s.AddElement(NewElement(ElementShape, 0, 0, 10, 10))
	b.ID = a.ID
	b.Opacity = 2
	d.Slides["orphan"] = &Slide{ID: "orphan"}

	err := d.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"duplicate id", "opacity out of [0,1]", "shape element has no shape content", "not in the presentation order"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestValidate_StableOrder(t *testing.T) {
	d := New("Deck")
	var order []string
	for i := 0; i < 4; i++ {
		s := d.InsertSlide(NewSlide(d.Presentation.ID), d.SlideCount())
		s.Background = Solid("nope")
		order = append(order, s.ID)
	}
	for _, id := range []string{"zeta", "alpha"} {
		d.Slides[id] = &Slide{ID: id, Background: Solid("nope")}
	}
	order = append(order, "alpha", "zeta")

	first := d.Validate()
	if first == nil {
		t.Fatal("expected validation error")
	}
	msg := first.Error()
	if a, z := strings.Index(msg, `slide "alpha" is not`), strings.Index(msg, `slide "zeta" is not`); a < 0 || a > z {
		t.Errorf("orphans out of order: %v", msg)
	}
	last := -1
	for _, id := range order {
		at := strings.Index(msg, `slide "`+id+`": background color is invalid`)
		if at <= last {
			t.Fatalf("slide %s reported out of order: %v", id, msg)
		}
		last = at
	}
	for i := 0; i < 20; i++ {
		if got := d.Validate().Error(); got != msg {
			t.Fatalf("run %d differs:\n%s\nwant:\n%s", i, got, msg)
		}
	}
}
