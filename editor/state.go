package editor

import (
	"slices"

	"github.com/VantageDataChat/GoSlides/scene"
)

// State is the part of a session that undo and redo restore.
type State struct {
	Doc             *scene.Document `json:"doc"`
	CurrentSlide    string          `json:"currentSlide"`
	SelectedElement string          `json:"selectedElement,omitempty"`
	// Selection is the ordered set of selected element ids on the current
	// slide.
	Selection []string `json:"selection,omitempty"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Doc = s.Doc.Clone()
	s.Selection = slices.Clone(s.Selection)
	return s
}

func (s *State) isSelected(id string) bool {
	return slices.Contains(s.Selection, id)
}

// deselect removes id from the selection.
func (s *State) deselect(id string) {
	s.Selection = slices.DeleteFunc(s.Selection, func(v string) bool { return v == id })
	if s.SelectedElement == id {
		s.SelectedElement = ""
		if n := len(s.Selection); n > 0 {
			s.SelectedElement = s.Selection[n-1]
		}
	}
}

func (s *State) selectOnly(ids ...string) {
	s.Selection = slices.Clone(ids)
	s.SelectedElement = ""
	if n := len(ids); n > 0 {
		s.SelectedElement = ids[n-1]
	}
}
