package scene

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decode reads a JSON document and validates it.
func Decode(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if d.Slides == nil {
		d.Slides = make(map[string]*Slide)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Encode writes the document as indented JSON.
func Encode(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}
