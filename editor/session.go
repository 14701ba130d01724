// Package editor is the scene mutation API. A Session owns one open
// document, its selection and clipboard, and the undo/redo timeline for
// that document.
//
// Structural operations (add, delete, duplicate, reorder, paste) record a
// snapshot immediately. Continuous ones (updates, drags, renames) are
// debounced so one gesture becomes one undo step. An operation naming an
// unknown slide or element, or dragging or resizing a locked element,
// returns ErrInvalidTarget, changes nothing and records nothing.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/VantageDataChat/GoSlides/history"
	"github.com/VantageDataChat/GoSlides/render"
	"github.com/VantageDataChat/GoSlides/scene"
	"github.com/VantageDataChat/GoSlides/snap"
)

// ErrInvalidTarget is returned for operations on an unknown slide or
// element.
var ErrInvalidTarget = errors.New("invalid target")

// PasteOffset is how far pasted and duplicated elements are shifted from
// their source, in user units.
const PasteOffset = 20

// Options configures a Session.
type Options struct {
	// HistoryMax caps the undo timeline. Default history.DefaultMax.
	HistoryMax int
	// Debounce is the coalescing window for continuous edits.
	// Default history.DefaultWindow.
	Debounce time.Duration
	// Snap aligns drags and resizes. Nil uses a solver for the default
	// slide size.
	Snap *snap.Solver
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Now is the clock for UpdatedAt stamps. Default time.Now.
	Now func() time.Time
}

// Session is an editing session over one document. All methods are safe
// for concurrent use.
type Session struct {
	mu        sync.Mutex
	state     State
	clipboard []*scene.Element
	pastes    int

	hist *history.Manager[State]
	snap *snap.Solver
	log  *slog.Logger
	now  func() time.Time
}

// NewSession starts a session on a new single-slide document.
func NewSession(title string, opts *Options) *Session {
	if opts == nil {
		opts = &Options{}
	}
	s := &Session{
		hist: history.New(State.Clone,
			history.WithMax(opts.HistoryMax),
			history.WithWindow(opts.Debounce)),
		snap: opts.Snap,
		log:  opts.Logger,
		now:  opts.Now,
	}
	if s.snap == nil {
		s.snap = snap.NewSolver(render.SlideWidth, render.SlideHeight)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.New(title)
	return s
}

// New replaces the session's document with a fresh one and resets history.
func (s *Session) New(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(scene.New(title))
}

// Open replaces the session's document with a copy of doc and resets
// history. doc must pass validation.
func (s *Session) Open(doc *scene.Document) error {
	if doc == nil {
		return fmt.Errorf("open: %w", ErrInvalidTarget)
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(doc.Clone())
	return nil
}

func (s *Session) reset(doc *scene.Document) {
	s.state = State{Doc: doc}
	if ids := doc.Presentation.SlideIDs; len(ids) > 0 {
		s.state.CurrentSlide = ids[0]
	}
	s.clipboard = nil
	s.pastes = 0
	s.hist.Reset(s.state)
}

// Close stops pending debounced saves and drops the history.
func (s *Session) Close() {
	s.hist.Close()
}

// Document returns a deep copy of the current document.
func (s *Session) Document() *scene.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Doc.Clone()
}

// State returns a deep copy of the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// CurrentSlide returns the id of the slide being edited.
func (s *Session) CurrentSlide() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentSlide
}

// Selection returns the selected element ids in selection order.
func (s *Session) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.state.Selection...)
}

// commit records a snapshot of the current state immediately.
func (s *Session) commit() {
	s.touch()
	s.hist.Record(s.state)
}

// commitLater records a snapshot once the gesture settles.
func (s *Session) commitLater() {
	s.touch()
	s.hist.RecordDebounced(s.state)
}

func (s *Session) touch() {
	s.state.Doc.Presentation.UpdatedAt = s.now().UTC()
}

func (s *Session) slide(id string) (*scene.Slide, error) {
	sl := s.state.Doc.Slide(id)
	if sl == nil {
		return nil, fmt.Errorf("slide %q: %w", id, ErrInvalidTarget)
	}
	return sl, nil
}

func (s *Session) element(slideID, elementID string) (*scene.Slide, *scene.Element, error) {
	sl, err := s.slide(slideID)
	if err != nil {
		return nil, nil, err
	}
	el, _ := sl.Element(elementID)
	if el == nil {
		return nil, nil, fmt.Errorf("element %q on slide %q: %w", elementID, slideID, ErrInvalidTarget)
	}
	return sl, el, nil
}

// Rename sets the presentation title. Renames are debounced.
func (s *Session) Rename(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Doc.Presentation.Title = title
	s.commitLater()
}

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.state = st
	s.log.Debug("undo", slog.String("presentation", st.Doc.Presentation.ID))
	return true
}

// Redo re-applies the next snapshot. It reports false when there is
// nothing to redo.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.state = st
	s.log.Debug("redo", slog.String("presentation", st.Doc.Presentation.ID))
	return true
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// Flush commits a pending debounced snapshot now.
func (s *Session) Flush() { s.hist.Flush() }
