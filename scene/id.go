package scene

import "github.com/google/uuid"

// NewID returns a fresh random identifier for presentations, slides and
// elements.
func NewID() string {
	return uuid.NewString()
}
