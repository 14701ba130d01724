// Package icons is the icon registry consumed by the renderer. Every icon
// is SVG path data authored in a 24×24 view box, plus a flag telling the
// renderer whether to fill the outline or stroke it.
package icons

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// ViewBox is the side length of the square coordinate space icons are
// drawn in.
const ViewBox = 24

// Icon is one registry entry.
type Icon struct {
	Path   string
	Filled bool
}

// Registry maps icon names to icons. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	icons map[string]Icon
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{icons: make(map[string]Icon)}
}

// Default returns a registry preloaded with the built-in icon set.
func Default() *Registry {
	r := NewRegistry()
	for name, ic := range builtin {
		r.icons[name] = ic
	}
	return r
}

// Register adds or replaces an icon.
func (r *Registry) Register(name string, ic Icon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.icons[Normalize(name)] = ic
}

// Lookup returns the icon registered under name. Names are matched after
// normalisation, so "ArrowRight", "arrow_right" and "arrow-right" are the
// same icon.
func (r *Registry) Lookup(name string) (Icon, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ic, ok := r.icons[Normalize(name)]
	return ic, ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.icons))
	for n := range r.icons {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Normalize converts an icon name to its kebab-case registry key.
func Normalize(name string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '_' || r == ' ' || r == '-':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

const circle = "M2 12a10 10 0 1 0 20 0a10 10 0 1 0-20 0"

var builtin = map[string]Icon{
	"alert-triangle": {Path: "M10.29 3.86L1.82 18a2 2 0 0 0 1.71 3h16.94a2 2 0 0 0 1.71-3L13.71 3.86a2 2 0 0 0-3.42 0zM12 9v4M12 17h.01"},
	"arrow-down":     {Path: "M12 5v14M19 12l-7 7-7-7"},
	"arrow-left":     {Path: "M19 12H5M12 19l-7-7 7-7"},
	"arrow-right":    {Path: "M5 12h14M12 5l7 7-7 7"},
	"arrow-up":       {Path: "M12 19V5M5 12l7-7 7 7"},
	"check":          {Path: "M20 6 9 17l-5-5"},
	"chevron-left":   {Path: "M15 18l-6-6 6-6"},
	"chevron-right":  {Path: "M9 18l6-6-6-6"},
	"circle":         {Path: circle},
	"clock":          {Path: circle + "M12 6v6l4 2"},
	"globe":          {Path: circle + "M2 12h20M12 2a15.3 15.3 0 0 1 4 10 15.3 15.3 0 0 1-4 10 15.3 15.3 0 0 1-4-10 15.3 15.3 0 0 1 4-10z"},
	"heart":          {Path: "M19 14c1.49-1.46 3-3.21 3-5.5A5.5 5.5 0 0 0 16.5 3c-1.76 0-3 .5-4.5 2-1.5-1.5-2.74-2-4.5-2A5.5 5.5 0 0 0 2 8.5c0 2.3 1.5 4.05 3 5.5l7 7z"},
	"home":           {Path: "M3 10l9-7 9 7v10a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2zM9 22V12h6v10"},
	"info":           {Path: circle + "M12 16v-4M12 8h.01"},
	"lightbulb":      {Path: "M9 18h6M10 22h4M15.09 14c.18-.98.65-1.74 1.41-2.5A4.65 4.65 0 0 0 18 8 6 6 0 0 0 6 8c0 1 .23 2.23 1.5 3.5A4.61 4.61 0 0 1 8.91 14"},
	"mail":           {Path: "M4 4h16a2 2 0 0 1 2 2v12a2 2 0 0 1-2 2H4a2 2 0 0 1-2-2V6a2 2 0 0 1 2-2zM22 6l-10 7L2 6"},
	"minus":          {Path: "M5 12h14"},
	"play":           {Path: "M6 3l14 9-14 9z", Filled: true},
	"plus":           {Path: "M5 12h14M12 5v14"},
	"search":         {Path: "M3 11a8 8 0 1 0 16 0a8 8 0 1 0-16 0M21 21l-4.35-4.35"},
	"square":         {Path: "M5 3h14a2 2 0 0 1 2 2v14a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2V5a2 2 0 0 1 2-2z"},
	"star":           {Path: "M12 2l3.09 6.26L22 9.27l-5 4.87 1.18 6.88L12 17.77l-6.18 3.25L7 14.14 2 9.27l6.91-1.01z"},
	"star-filled":    {Path: "M12 2l3.09 6.26L22 9.27l-5 4.87 1.18 6.88L12 17.77l-6.18 3.25L7 14.14 2 9.27l6.91-1.01z", Filled: true},
	"target":         {Path: circle + "M6 12a6 6 0 1 0 12 0a6 6 0 1 0-12 0M10 12a2 2 0 1 0 4 0a2 2 0 1 0-4 0"},
	"trending-up":    {Path: "M22 7l-8.5 8.5-5-5L2 17M16 7h6v6"},
	"user":           {Path: "M20 21v-2a4 4 0 0 0-4-4H8a4 4 0 0 0-4 4v2M8 7a4 4 0 1 0 8 0a4 4 0 1 0-8 0"},
	"x":              {Path: "M18 6 6 18M6 6l12 12"},
	"zap":            {Path: "M13 2L3 14h9l-1 8 10-12h-9l1-8z", Filled: true},
}
