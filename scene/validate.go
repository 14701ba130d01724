package scene

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks the document for structural issues and returns an error
// describing all problems found, or nil if the document is valid.
func (d *Document) Validate() error {
	var errs []string

	if d.Presentation == nil {
		return fmt.Errorf("validation failed:\n  presentation is nil")
	}
	if len(d.Presentation.SlideIDs) == 0 {
		errs = append(errs, "presentation must have at least one slide")
	}

	seen := make(map[string]bool, len(d.Presentation.SlideIDs))
	order := make([]string, 0, len(d.Slides))
	for i, id := range d.Presentation.SlideIDs {
		if seen[id] {
			errs = append(errs, fmt.Sprintf("slide order %d: duplicate slide id %q", i+1, id))
			continue
		}
		seen[id] = true
		if _, ok := d.Slides[id]; !ok {
			errs = append(errs, fmt.Sprintf("slide order %d: slide %q is missing", i+1, id))
			continue
		}
		order = append(order, id)
	}
	var orphans []string
	for id := range d.Slides {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		errs = append(errs, fmt.Sprintf("slide %q is not in the presentation order", id))
	}

	for _, id := range append(order, orphans...) {
		s := d.Slides[id]
		if s == nil {
			errs = append(errs, fmt.Sprintf("slide %q is nil", id))
			continue
		}
		if s.ID != id {
			errs = append(errs, fmt.Sprintf("slide %q is stored under id %q", s.ID, id))
		}
		prefix := fmt.Sprintf("slide %q", id)
		for _, e := range validateSlide(s) {
			errs = append(errs, prefix+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateSlide(s *Slide) []string {
	var errs []string
	if !validPaint(s.Background) {
		errs = append(errs, "background color is invalid")
	}
	ids := make(map[string]bool, len(s.Elements))
	for j, e := range s.Elements {
		prefix := fmt.Sprintf("element %d", j+1)
		if e == nil {
			errs = append(errs, prefix+": element is nil")
			continue
		}
		if e.ID == "" {
			errs = append(errs, prefix+": id is empty")
		} else if ids[e.ID] {
			errs = append(errs, prefix+": duplicate id "+e.ID)
		}
		ids[e.ID] = true
		if !e.Type.Valid() {
			errs = append(errs, prefix+": unknown type "+string(e.Type))
		}
		if e.Width < 0 {
			errs = append(errs, prefix+": width is negative")
		}
		if e.Height < 0 {
			errs = append(errs, prefix+": height is negative")
		}
		if e.Opacity < 0 || e.Opacity > 1 {
			errs = append(errs, prefix+": opacity out of [0,1]")
		}
		if !validPaint(e.Style.Fill) || !validPaint(e.Style.Stroke) {
			errs = append(errs, prefix+": style color is invalid")
		}
		if msg := validateContent(e); msg != "" {
			errs = append(errs, prefix+": "+msg)
		}
	}
	return errs
}

// validateContent checks that the content record matches the type tag.
func validateContent(e *Element) string {
	switch e.Type {
	case ElementText:
		if e.Text == nil {
			return "text element has no text content"
		}
	case ElementShape:
		if e.Shape == nil {
			return "shape element has no shape content"
		}
	case ElementImage:
		if e.Image == nil {
			return "image element has no image content"
		}
	case ElementLine:
		if e.Line == nil {
			return "line element has no line content"
		}
	case ElementIcon:
		if e.Icon == nil {
			return "icon element has no icon content"
		}
	case ElementTable:
		if e.Table == nil {
			return "table element has no table content"
		}
		if e.Table.Rows <= 0 || e.Table.Cols <= 0 {
			return "table must have at least 1 row and 1 column"
		}
	case ElementBlurb:
		if e.Blurb == nil {
			return "blurb element has no blurb content"
		}
	}
	return ""
}

func validPaint(p Paint) bool {
	if p.Gradient != nil {
		return ValidColor(p.Gradient.Start) && ValidColor(p.Gradient.End)
	}
	return ValidColor(p.Color)
}
