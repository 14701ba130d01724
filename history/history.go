// Package history keeps a bounded, linear undo/redo timeline of deep
// snapshots.
//
// The timeline is a list plus a cursor. Recording while the cursor is not
// at the tail first discards everything after it. Past Max entries the
// oldest one is evicted. Continuous edits are coalesced with a debounce
// window so one gesture produces one entry.
package history

import (
	"sync"
	"time"
)

// Defaults.
const (
	DefaultMax    = 50
	DefaultWindow = 500 * time.Millisecond
)

// Manager is an undo/redo timeline of T snapshots. Stored snapshots are
// private deep copies made with the clone function, so later mutation of a
// live value never reaches the timeline. Manager is safe for concurrent use;
// debounced saves fire on a timer goroutine.
type Manager[T any] struct {
	max    int
	window time.Duration
	clone  func(T) T

	mu      sync.Mutex
	entries []T
	cursor  int
	timer   *time.Timer
	pending *T
	// gen invalidates a timer that fired after its save was flushed or
	// cancelled.
	gen    uint64
	closed bool
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	max    int
	window time.Duration
}

// WithMax sets the maximum number of entries. Values below 1 are ignored.
func WithMax(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.max = n
		}
	}
}

// WithWindow sets the debounce window.
func WithWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.window = d
		}
	}
}

// New creates an empty Manager. clone must return a deep copy.
func New[T any](clone func(T) T, opts ...Option) *Manager[T] {
	o := options{max: DefaultMax, window: DefaultWindow}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[T]{max: o.max, window: o.window, clone: clone, cursor: -1}
}

// Reset replaces the timeline with a single entry holding initial.
// A pending debounced save is dropped.
func (m *Manager[T]) Reset(initial T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.cancelLocked()
	m.entries = []T{m.clone(initial)}
	m.cursor = 0
}

// Record appends a snapshot of state immediately. A pending debounced save
// is committed first so it is not lost.
func (m *Manager[T]) Record(state T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.flushLocked()
	m.pushLocked(m.clone(state))
}

// RecordDebounced stages a snapshot of state and records it once no
// further continuous edit arrives within the window. Each call restarts the
// window and replaces the staged snapshot.
func (m *Manager[T]) RecordDebounced(state T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	s := m.clone(state)
	m.pending = &s
	m.gen++
	gen := m.gen
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.window, func() { m.fire(gen) })
}

func (m *Manager[T]) fire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen || m.pending == nil || m.closed {
		return
	}
	s := *m.pending
	m.pending = nil
	m.timer = nil
	m.pushLocked(s)
}

// Pending reports whether a debounced save is waiting.
func (m *Manager[T]) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Flush commits a pending debounced save now.
func (m *Manager[T]) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()
}

func (m *Manager[T]) flushLocked() {
	staged := m.pending
	m.cancelLocked()
	if staged != nil {
		m.pushLocked(*staged)
	}
}

func (m *Manager[T]) cancelLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.pending = nil
	m.gen++
}

func (m *Manager[T]) pushLocked(s T) {
	m.entries = append(m.entries[:m.cursor+1], s)
	if over := len(m.entries) - m.max; over > 0 {
		clear(m.entries[:over])
		m.entries = m.entries[over:]
	}
	m.cursor = len(m.entries) - 1
}

// Undo moves the cursor back one entry and returns a copy of it. ok is
// false at the start of the timeline.
func (m *Manager[T]) Undo() (state T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()
	if m.cursor <= 0 {
		return state, false
	}
	m.cursor--
	return m.clone(m.entries[m.cursor]), true
}

// Redo moves the cursor forward one entry and returns a copy of it. ok is
// false at the end of the timeline.
func (m *Manager[T]) Redo() (state T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()
	if m.cursor >= len(m.entries)-1 {
		return state, false
	}
	m.cursor++
	return m.clone(m.entries[m.cursor]), true
}

// CanUndo reports whether Undo would succeed. A pending debounced save
// counts as an undoable step.
func (m *Manager[T]) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0 || (m.pending != nil && m.cursor >= 0)
}

// CanRedo reports whether Redo would succeed.
func (m *Manager[T]) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending == nil && m.cursor < len(m.entries)-1
}

// Len returns the number of stored entries.
func (m *Manager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Cursor returns the index of the current entry, or -1 when empty.
func (m *Manager[T]) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// Close stops the debounce timer and drops the timeline. Later calls are
// no-ops.
func (m *Manager[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
	m.closed = true
	m.entries = nil
	m.cursor = -1
}
