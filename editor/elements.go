package editor

import (
	"fmt"
	"time"

	"github.com/VantageDataChat/GoSlides/geom"
	"github.com/VantageDataChat/GoSlides/scene"
	"github.com/VantageDataChat/GoSlides/snap"
)

// AddElement places a copy of el on top of a slide and selects it. An
// empty or already used id is replaced by a fresh one. It returns the id
// of the stored element.
func (s *Session) AddElement(slideID string, el *scene.Element) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, err := s.slide(slideID)
	if err != nil {
		return "", err
	}
	if el == nil {
		return "", fmt.Errorf("nil element: %w", ErrInvalidTarget)
	}
	cp := el.Clone()
	if dup, _ := sl.Element(cp.ID); cp.ID == "" || dup != nil {
		cp.ID = scene.NewID()
	}
	cp.UpdatedAt = s.now().UTC()
	sl.AddElement(cp)
	s.selectOn(slideID, cp.ID)
	s.commit()
	return cp.ID, nil
}

// selectOn makes id the only selection when slideID is current.
func (s *Session) selectOn(slideID string, ids ...string) {
	if s.state.CurrentSlide == slideID {
		s.state.selectOnly(ids...)
	}
}

// UpdateElement applies fn to an element. Updates are debounced, so a
// stream of calls during one gesture becomes a single undo step.
func (s *Session) UpdateElement(slideID, elementID string, fn func(*scene.Element)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, el, err := s.element(slideID, elementID)
	if err != nil {
		return err
	}
	settle(el, fn, s.now().UTC())
	s.commitLater()
	return nil
}

// settle applies fn to el, keeping its id and a valid opacity.
func settle(el *scene.Element, fn func(*scene.Element), now time.Time) {
	id := el.ID
	fn(el)
	el.ID = id
	el.Opacity = scene.Clamp01(el.Opacity)
	el.UpdatedAt = now
}

// BatchUpdate applies fn to several elements of one slide as one debounced
// change. If any id is unknown nothing is changed.
func (s *Session) BatchUpdate(slideID string, elementIDs []string, fn func(*scene.Element)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	els := make([]*scene.Element, 0, len(elementIDs))
	for _, id := range elementIDs {
		_, el, err := s.element(slideID, id)
		if err != nil {
			return err
		}
		els = append(els, el)
	}
	now := s.now().UTC()
	for _, el := range els {
		settle(el, fn, now)
	}
	s.commitLater()
	return nil
}

// DeleteElement removes an element and drops it from the selection.
func (s *Session) DeleteElement(slideID, elementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, _, err := s.element(slideID, elementID)
	if err != nil {
		return err
	}
	sl.RemoveElement(elementID)
	s.state.deselect(elementID)
	s.commit()
	return nil
}

// DuplicateElement places a shifted copy of an element on top of its slide
// and selects it.
func (s *Session) DuplicateElement(slideID, elementID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, el, err := s.element(slideID, elementID)
	if err != nil {
		return "", err
	}
	cp := s.copyOf(el, PasteOffset)
	sl.AddElement(cp)
	s.selectOn(slideID, cp.ID)
	s.commit()
	return cp.ID, nil
}

func (s *Session) copyOf(el *scene.Element, offset float64) *scene.Element {
	cp := el.Clone()
	cp.ID = scene.NewID()
	cp.X += offset
	cp.Y += offset
	cp.UpdatedAt = s.now().UTC()
	return cp
}

// Select makes an element of the current slide the only selection.
func (s *Session) Select(elementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, _, err := s.element(s.state.CurrentSlide, elementID); err != nil {
		return err
	}
	s.state.selectOnly(elementID)
	return nil
}

// ToggleSelect adds an element of the current slide to the selection, or
// removes it if already selected.
func (s *Session) ToggleSelect(elementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, _, err := s.element(s.state.CurrentSlide, elementID); err != nil {
		return err
	}
	if s.state.isSelected(elementID) {
		s.state.deselect(elementID)
		return nil
	}
	s.state.Selection = append(s.state.Selection, elementID)
	s.state.SelectedElement = elementID
	return nil
}

// ClearSelection deselects everything.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.selectOnly()
}

// Copy puts copies of the selected elements on the clipboard, in z-order.
// It returns how many were copied.
func (s *Session) Copy() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := s.state.Doc.Slide(s.state.CurrentSlide)
	if sl == nil {
		return 0
	}
	s.clipboard = s.clipboard[:0]
	for _, el := range sl.Elements {
		if s.state.isSelected(el.ID) {
			s.clipboard = append(s.clipboard, el.Clone())
		}
	}
	s.pastes = 0
	return len(s.clipboard)
}

// Paste places the clipboard on the current slide with fresh ids, shifted
// by PasteOffset per paste, and selects the pasted elements. It returns the
// new ids.
func (s *Session) Paste() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := s.state.Doc.Slide(s.state.CurrentSlide)
	if sl == nil || len(s.clipboard) == 0 {
		return nil
	}
	s.pastes++
	ids := make([]string, 0, len(s.clipboard))
	for _, el := range s.clipboard {
		cp := s.copyOf(el, float64(PasteOffset*s.pastes))
		sl.AddElement(cp)
		ids = append(ids, cp.ID)
	}
	s.state.selectOnly(ids...)
	s.commit()
	return ids
}

// BringToFront moves an element to the top of its slide.
func (s *Session) BringToFront(slideID, elementID string) error {
	return s.reorder(slideID, elementID, (*scene.Slide).BringToFront)
}

// SendToBack moves an element to the bottom of its slide.
func (s *Session) SendToBack(slideID, elementID string) error {
	return s.reorder(slideID, elementID, (*scene.Slide).SendToBack)
}

// StepForward moves an element up one position.
func (s *Session) StepForward(slideID, elementID string) error {
	return s.reorder(slideID, elementID, (*scene.Slide).StepForward)
}

// StepBackward moves an element down one position.
func (s *Session) StepBackward(slideID, elementID string) error {
	return s.reorder(slideID, elementID, (*scene.Slide).StepBackward)
}

// reorder applies a z-order move. A move that changes nothing, such as
// raising the top element, records nothing.
func (s *Session) reorder(slideID, elementID string, move func(*scene.Slide, string) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, _, err := s.element(slideID, elementID)
	if err != nil {
		return err
	}
	if move(sl, elementID) {
		s.commit()
	}
	return nil
}

// movable is element for geometry gestures: a locked element is an
// invalid target.
func (s *Session) movable(slideID, elementID string) (*scene.Slide, *scene.Element, error) {
	sl, el, err := s.element(slideID, elementID)
	if err != nil {
		return nil, nil, err
	}
	if el.Locked {
		return nil, nil, fmt.Errorf("element %q is locked: %w", elementID, ErrInvalidTarget)
	}
	return sl, el, nil
}

// others returns the bounds of every visible element of sl except id.
func others(sl *scene.Slide, id string) []geom.Rect {
	out := make([]geom.Rect, 0, len(sl.Elements))
	for _, el := range sl.Elements {
		if el.ID != id && !el.Hidden {
			out = append(out, el.Bounds())
		}
	}
	return out
}

// Drag moves an element to (x, y), snapped against the canvas and the
// slide's other visible elements. Moves are debounced. Locked elements
// do not move.
func (s *Session) Drag(slideID, elementID string, x, y float64) (snap.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, el, err := s.movable(slideID, elementID)
	if err != nil {
		return snap.Result{}, err
	}
	res := s.snap.Drag(geom.R(x, y, el.Width, el.Height), others(sl, el.ID))
	el.X, el.Y = res.Rect.X, res.Rect.Y
	el.UpdatedAt = s.now().UTC()
	s.commitLater()
	return res, nil
}

// Resize moves the edges named by handle to those of proposed, snapped
// like Drag. Resizes are debounced.
func (s *Session) Resize(slideID, elementID string, handle snap.Handle, proposed geom.Rect) (snap.Result, error) {
	if !handle.Valid() {
		return snap.Result{}, fmt.Errorf("resize handle %q: %w", handle, ErrInvalidTarget)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, el, err := s.movable(slideID, elementID)
	if err != nil {
		return snap.Result{}, err
	}
	res := s.snap.Resize(el.Bounds(), handle, proposed, others(sl, el.ID))
	el.X, el.Y, el.Width, el.Height = res.Rect.X, res.Rect.Y, res.Rect.W, res.Rect.H
	el.UpdatedAt = s.now().UTC()
	s.commitLater()
	return res, nil
}
