// Package scene is the document model of GoSlides: presentations, slides,
// elements and their styles, plus the invariants that tie them together.
//
// A Presentation owns the slide ordering; slides are stored independently in
// a Document and referenced by id. A Slide exclusively owns its elements,
// and an element's position in Slide.Elements is its z-order.
package scene

import (
	"errors"
	"time"
)

var (
	// ErrLastSlide is returned when removing the only remaining slide.
	ErrLastSlide = errors.New("cannot remove the last slide")
	// ErrSlideNotFound is returned for an unknown slide id.
	ErrSlideNotFound = errors.New("slide not found")
)

// Presentation holds document metadata and the slide order.
type Presentation struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	SlideIDs  List[string] `json:"slideIds"`
	Version   int          `json:"version"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Document is the full scene graph: a presentation and its slides.
type Document struct {
	Presentation *Presentation     `json:"presentation"`
	Slides       map[string]*Slide `json:"slides"`
}

// New creates a Document with one default blank slide.
func New(title string) *Document {
	now := time.Now().UTC()
	p := &Presentation{
		ID:        NewID(),
		Title:     title,
		SlideIDs:  List[string]{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d := &Document{Presentation: p, Slides: make(map[string]*Slide)}
	s := NewSlide(p.ID)
	s.UpdatedAt = now
	d.InsertSlide(s, 0)
	return d
}

// Slide returns the slide with the given id, or nil.
func (d *Document) Slide(id string) *Slide {
	return d.Slides[id]
}

// SlideCount returns the number of slides.
func (d *Document) SlideCount() int {
	return len(d.Presentation.SlideIDs)
}

// OrderedSlides returns the slides in presentation order.
func (d *Document) OrderedSlides() []*Slide {
	out := make([]*Slide, 0, len(d.Presentation.SlideIDs))
	for _, id := range d.Presentation.SlideIDs {
		if s := d.Slides[id]; s != nil {
			out = append(out, s)
		}
	}
	return out
}

// SlideIndex returns the position of a slide, or -1.
func (d *Document) SlideIndex(id string) int {
	return d.Presentation.SlideIDs.Index(func(s string) bool { return s == id })
}

// InsertSlide stores s and places it at index at in the slide order.
func (d *Document) InsertSlide(s *Slide, at int) *Slide {
	s.PresentationID = d.Presentation.ID
	d.Slides[s.ID] = s
	d.Presentation.SlideIDs.Insert(at, s.ID)
	d.renumber()
	return s
}

// RemoveSlide deletes a slide. Removing the last remaining slide fails with
// ErrLastSlide and leaves the document untouched.
func (d *Document) RemoveSlide(id string) error {
	i := d.SlideIndex(id)
	if i < 0 {
		return ErrSlideNotFound
	}
	if d.SlideCount() <= 1 {
		return ErrLastSlide
	}
	d.Presentation.SlideIDs.Remove(i)
	delete(d.Slides, id)
	d.renumber()
	return nil
}

// MoveSlide moves a slide from one index to another.
func (d *Document) MoveSlide(fromIndex, toIndex int) bool {
	if !d.Presentation.SlideIDs.Move(fromIndex, toIndex) {
		return false
	}
	d.renumber()
	return true
}

// renumber keeps each slide's Order field equal to its position.
func (d *Document) renumber() {
	for i, id := range d.Presentation.SlideIDs {
		if s := d.Slides[id]; s != nil {
			s.Order = i
		}
	}
}
