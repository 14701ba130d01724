package scene

import (
	"encoding/json"
	"time"

	"github.com/VantageDataChat/GoSlides/geom"
)

// ElementType tags the kind of an Element.
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementShape ElementType = "shape"
	ElementImage ElementType = "image"
	ElementLine  ElementType = "line"
	ElementIcon  ElementType = "icon"
	ElementTable ElementType = "table"
	ElementBlurb ElementType = "blurb"
)

// Valid reports whether t is a known element type.
func (t ElementType) Valid() bool {
	switch t {
	case ElementText, ElementShape, ElementImage, ElementLine, ElementIcon, ElementTable, ElementBlurb:
		return true
	}
	return false
}

// Element is a single positioned, styled visual object on a slide.
// Exactly one content record matching Type is expected to be set.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation,omitempty"` // degrees about the center
	Hidden   bool        `json:"hidden,omitempty"`
	Locked   bool        `json:"locked,omitempty"`
	Opacity  float64     `json:"opacity"`
	Style    Style       `json:"style"`

	Text  *TextContent  `json:"text,omitempty"`
	Shape *ShapeContent `json:"shape,omitempty"`
	Image *ImageContent `json:"image,omitempty"`
	Line  *LineContent  `json:"line,omitempty"`
	Icon  *IconContent  `json:"icon,omitempty"`
	Table *TableContent `json:"table,omitempty"`
	Blurb *BlurbContent `json:"blurb,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// NewElement creates a visible, fully opaque element with a fresh id.
func NewElement(t ElementType, x, y, w, h float64) *Element {
	return &Element{
		ID:      NewID(),
		Type:    t,
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
		Opacity: 1,
	}
}

// UnmarshalJSON decodes an element, defaulting a missing opacity to 1.
func (e *Element) UnmarshalJSON(data []byte) error {
	type plain Element
	tmp := plain{Opacity: 1}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*e = Element(tmp)
	e.Opacity = Clamp01(e.Opacity)
	return nil
}

// Bounds returns the unrotated bounding box.
func (e *Element) Bounds() geom.Rect {
	return geom.R(e.X, e.Y, e.Width, e.Height)
}

// SetOpacity sets the opacity, clamped to [0,1].
func (e *Element) SetOpacity(o float64) *Element {
	e.Opacity = Clamp01(o)
	return e
}

// SetPosition moves the element.
func (e *Element) SetPosition(x, y float64) *Element {
	e.X, e.Y = x, y
	return e
}

// SetSize resizes the element.
func (e *Element) SetSize(w, h float64) *Element {
	e.Width, e.Height = w, h
	return e
}

// TextContent is the payload of a text element.
type TextContent struct {
	Content string `json:"content"`
}

// ShapeKind selects the geometry of a shape element.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeCircle    ShapeKind = "circle"
	ShapePath      ShapeKind = "path"
)

// ViewBox is the coordinate space path data is authored in.
type ViewBox struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ShapeContent is the payload of a shape element.
type ShapeContent struct {
	Kind     ShapeKind `json:"kind"`
	PathData string    `json:"pathData,omitempty"`
	// ViewBox defaults to the element size when nil.
	ViewBox *ViewBox `json:"viewBox,omitempty"`
}

// FitMode controls how an image fills its box.
type FitMode string

const (
	FitCover   FitMode = "cover"
	FitContain FitMode = "contain"
	FitFill    FitMode = "fill"
	FitNone    FitMode = "none"
)

// Pan is a normalized (0..1 per axis) image offset used by cover fit.
type Pan struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ImageContent is the payload of an image element.
type ImageContent struct {
	Src string  `json:"src"`
	Fit FitMode `json:"fit,omitempty"`
	// Pan defaults to the center (0.5, 0.5) when nil.
	Pan *Pan `json:"pan,omitempty"`
	// Scale is the cover zoom factor; values below 1 are treated as 1.
	Scale float64 `json:"scale,omitempty"`
}

// PanOrCenter returns the pan offset, defaulting to the center.
func (c *ImageContent) PanOrCenter() Pan {
	if c.Pan == nil {
		return Pan{X: 0.5, Y: 0.5}
	}
	return Pan{X: Clamp01(c.Pan.X), Y: Clamp01(c.Pan.Y)}
}

// LineCap is the end style of a line.
type LineCap string

const (
	CapButt  LineCap = "butt"
	CapRound LineCap = "round"
)

// LineContent is the payload of a line element. Points are relative to the
// element origin.
type LineContent struct {
	X1  float64 `json:"x1"`
	Y1  float64 `json:"y1"`
	X2  float64 `json:"x2"`
	Y2  float64 `json:"y2"`
	Cap LineCap `json:"cap,omitempty"`
}

// IconContent is the payload of an icon element.
type IconContent struct {
	Name string `json:"name"`
	// StrokeWidth is the apparent stroke thickness; 0 means 2.
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// TableCell is one cell of a table element.
type TableCell struct {
	Text       string `json:"text"`
	Background string `json:"background,omitempty"`
	Color      string `json:"color,omitempty"`
}

// TableContent is the payload of a table element.
type TableContent struct {
	Rows  int           `json:"rows"`
	Cols  int           `json:"cols"`
	Cells [][]TableCell `json:"cells"`
	// ColumnWidths and RowHeights are optional relative weights.
	ColumnWidths []float64 `json:"columnWidths,omitempty"`
	RowHeights   []float64 `json:"rowHeights,omitempty"`
	BorderColor  string    `json:"borderColor,omitempty"`
	BorderWidth  float64   `json:"borderWidth,omitempty"`
}

// NewTable creates a rows×cols table with empty cells.
func NewTable(rows, cols int) *TableContent {
	cells := make([][]TableCell, rows)
	for i := range cells {
		cells[i] = make([]TableCell, cols)
	}
	return &TableContent{Rows: rows, Cols: cols, Cells: cells}
}

// Cell returns the cell at (row, col), or an empty cell when out of range.
func (t *TableContent) Cell(row, col int) TableCell {
	if row < 0 || row >= len(t.Cells) || col < 0 || col >= len(t.Cells[row]) {
		return TableCell{}
	}
	return t.Cells[row][col]
}

// TailPosition anchors a blurb's tail.
type TailPosition string

const (
	TailTopLeft     TailPosition = "top-left"
	TailTop         TailPosition = "top"
	TailTopRight    TailPosition = "top-right"
	TailRight       TailPosition = "right"
	TailBottomRight TailPosition = "bottom-right"
	TailBottom      TailPosition = "bottom"
	TailBottomLeft  TailPosition = "bottom-left"
	TailLeft        TailPosition = "left"
)

// BlurbContent is the payload of a speech-bubble element.
type BlurbContent struct {
	Text string       `json:"text"`
	Tail TailPosition `json:"tail,omitempty"`
}
