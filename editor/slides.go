package editor

import (
	"fmt"

	"github.com/VantageDataChat/GoSlides/scene"
)

// AddSlide inserts a blank slide after the current one and makes it
// current. It returns the new slide id.
func (s *Session) AddSlide() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := scene.NewSlide(s.state.Doc.Presentation.ID)
	return s.insertAfterCurrent(sl)
}

// AddSlideFromTemplate inserts a copy of tpl with fresh ids after the
// current slide and makes it current. The copy remembers tpl's id.
func (s *Session) AddSlideFromTemplate(tpl *scene.Slide) (string, error) {
	if tpl == nil {
		return "", fmt.Errorf("template: %w", ErrInvalidTarget)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := tpl.CloneWithNewIDs()
	sl.TemplateID = tpl.ID
	return s.insertAfterCurrent(sl), nil
}

func (s *Session) insertAfterCurrent(sl *scene.Slide) string {
	at := s.state.Doc.SlideIndex(s.state.CurrentSlide) + 1
	sl.UpdatedAt = s.now().UTC()
	s.state.Doc.InsertSlide(sl, at)
	s.state.CurrentSlide = sl.ID
	s.state.selectOnly()
	s.commit()
	return sl.ID
}

// DuplicateSlide inserts a copy of the slide right after it and makes the
// copy current.
func (s *Session) DuplicateSlide(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, err := s.slide(id)
	if err != nil {
		return "", err
	}
	cp := src.CloneWithNewIDs()
	cp.UpdatedAt = s.now().UTC()
	s.state.Doc.InsertSlide(cp, s.state.Doc.SlideIndex(id)+1)
	s.state.CurrentSlide = cp.ID
	s.state.selectOnly()
	s.commit()
	return cp.ID, nil
}

// DeleteSlide removes a slide. Deleting the only slide is a no-op and
// returns scene.ErrLastSlide. When the current slide is deleted, the slide
// that takes its place (or the new last slide) becomes current.
func (s *Session) DeleteSlide(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.slide(id); err != nil {
		return err
	}
	i := s.state.Doc.SlideIndex(id)
	if err := s.state.Doc.RemoveSlide(id); err != nil {
		return err
	}
	if s.state.CurrentSlide == id {
		ids := s.state.Doc.Presentation.SlideIDs
		s.state.CurrentSlide = ids[min(i, len(ids)-1)]
		s.state.selectOnly()
	}
	s.commit()
	return nil
}

// MoveSlide moves a slide to position to. Moving a slide onto its own
// position records nothing.
func (s *Session) MoveSlide(id string, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.slide(id); err != nil {
		return err
	}
	if s.state.Doc.MoveSlide(s.state.Doc.SlideIndex(id), to) {
		s.commit()
	}
	return nil
}

// UpdateSlide applies fn to a slide. Updates are debounced. The slide keeps
// its id and presentation regardless of fn.
func (s *Session) UpdateSlide(id string, fn func(*scene.Slide)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, err := s.slide(id)
	if err != nil {
		return err
	}
	presentationID := sl.PresentationID
	fn(sl)
	sl.ID, sl.PresentationID = id, presentationID
	sl.UpdatedAt = s.now().UTC()
	s.commitLater()
	return nil
}

// SetCurrentSlide switches the slide being edited and clears the
// selection. Navigation is not an undo step.
func (s *Session) SetCurrentSlide(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.slide(id); err != nil {
		return err
	}
	if s.state.CurrentSlide != id {
		s.state.CurrentSlide = id
		s.state.selectOnly()
	}
	return nil
}
