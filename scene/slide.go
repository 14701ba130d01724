package scene

import "time"

// Slide is one page of a presentation. Elements are drawn in array order,
// so later elements sit on top.
type Slide struct {
	ID             string         `json:"id"`
	PresentationID string         `json:"presentationId"`
	Elements       List[*Element] `json:"elements"`
	Background     Paint          `json:"background"`
	Order          int            `json:"order"`
	TemplateID     string         `json:"templateId,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// NewSlide creates an empty slide with a white background.
func NewSlide(presentationID string) *Slide {
	return &Slide{
		ID:             NewID(),
		PresentationID: presentationID,
		Elements:       List[*Element]{},
		Background:     Solid("#FFFFFF"),
	}
}

// Element returns the element with the given id and its z-index, or
// (nil, -1).
func (s *Slide) Element(id string) (*Element, int) {
	i := s.Elements.Index(func(e *Element) bool { return e.ID == id })
	if i < 0 {
		return nil, -1
	}
	return s.Elements[i], i
}

// AddElement appends e on top of the slide.
func (s *Slide) AddElement(e *Element) *Element {
	s.Elements.Append(e)
	return e
}

// RemoveElement deletes the element with the given id.
func (s *Slide) RemoveElement(id string) bool {
	_, i := s.Element(id)
	if i < 0 {
		return false
	}
	s.Elements.Remove(i)
	return true
}

// MoveElement moves the element with the given id to z-index to.
func (s *Slide) MoveElement(id string, to int) bool {
	_, i := s.Element(id)
	if i < 0 {
		return false
	}
	return s.Elements.Move(i, to)
}

// BringToFront moves the element to the top of the stack.
func (s *Slide) BringToFront(id string) bool { return s.MoveElement(id, len(s.Elements)-1) }

// SendToBack moves the element to the bottom of the stack.
func (s *Slide) SendToBack(id string) bool { return s.MoveElement(id, 0) }

// StepForward moves the element one position up.
func (s *Slide) StepForward(id string) bool {
	_, i := s.Element(id)
	if i < 0 {
		return false
	}
	return s.Elements.Move(i, i+1)
}

// StepBackward moves the element one position down.
func (s *Slide) StepBackward(id string) bool {
	_, i := s.Element(id)
	if i < 0 {
		return false
	}
	return s.Elements.Move(i, i-1)
}

// DrawOrder returns the elements in painting order. Array position is the
// authority; ZIndex is persisted data only and is never consulted because
// positions within a slide are unique.
func (s *Slide) DrawOrder() []*Element {
	return s.Elements
}
