package icons

import (
	"testing"

	"github.com/VantageDataChat/GoSlides/pathdata"
)

func TestDefault_AllIconsParse(t *testing.T) {
	r := Default()
	names := r.Names()
	if len(names) == 0 {
		t.Fatal("no built-in icons")
	}
	for _, n := range names {
		ic, _ := r.Lookup(n)
		p, err := pathdata.Parse(ic.Path)
		if err != nil {
			t.Errorf("icon %q: %v", n, err)
			continue
		}
		b := p.Bounds()
		if b.X < 0 || b.Y < 0 || b.Right() > ViewBox+1 || b.Bottom() > ViewBox+1 {
			t.Errorf("icon %q escapes the view box: %v", n, b)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"ArrowRight":    "arrow-right",
		"arrow_right":   "arrow-right",
		"arrow-right":   "arrow-right",
		" Star ":        "star",
		"AlertTriangle": "alert-triangle",
		"x":             "x",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup("logo"); ok {
		t.Fatal("empty registry returned an icon")
	}
	r.Register("CompanyLogo", Icon{Path: "M0 0h24v24H0z", Filled: true})
	ic, ok := r.Lookup("company-logo")
	if !ok || !ic.Filled {
		t.Fatalf("Lookup = %+v, %v", ic, ok)
	}
	if _, ok := Default().Lookup("Play"); !ok {
		t.Error("built-in lookup should ignore case")
	}
}
