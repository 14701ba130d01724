// Package fonts locates TrueType/OpenType fonts and turns text into glyph
// outlines and advance widths. Both render backends measure text through
// the same Cache, so wrapped lines break at the same words everywhere.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// faceKey identifies a cached face by family, size and style.
type faceKey struct {
	family string
	size   float64
	bold   bool
	italic bool
}

// Cache manages font discovery and face caching. It searches the
// configured directories for .ttf, .otf, .ttc and .otc files on first use.
// Families that cannot be found resolve to the bundled Go fonts, so a
// lookup never fails.
type Cache struct {
	mu      sync.RWMutex
	dirs    []string
	fonts   map[string]*sfnt.Font // lowercase name -> parsed font
	faces   map[faceKey]font.Face
	scanned bool
}

// NewCache creates a Cache that searches the OS font directories plus
// extraDirs.
func NewCache(extraDirs ...string) *Cache {
	return NewCacheDirs(append(systemFontDirs(), extraDirs...)...)
}

// NewCacheDirs creates a Cache that searches only dirs. With no dirs every
// family resolves to the Go fonts, which makes output reproducible across
// machines.
func NewCacheDirs(dirs ...string) *Cache {
	return &Cache{
		dirs:  dirs,
		fonts: make(map[string]*sfnt.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Font returns the best match for family and style. The result is never
// nil.
func (c *Cache) Font(family string, bold, italic bool) *sfnt.Font {
	if f := c.Lookup(family, bold, italic); f != nil {
		return f
	}
	return fallbackFont(family, bold, italic)
}

// Lookup returns the installed font for family and style, or nil when the
// family is unknown. Style variants are tried first, then the plain family.
func (c *Cache) Lookup(family string, bold, italic bool) *sfnt.Font {
	c.ensureScanned()
	c.mu.RLock()
	defer c.mu.RUnlock()

	lower := strings.ToLower(strings.TrimSpace(family))
	if f := c.findByKey(lower, bold, italic); f != nil {
		return f
	}
	if alias, ok := familyAliases[lower]; ok {
		return c.findByKey(alias, bold, italic)
	}
	return nil
}

// Face returns an unhinted font.Face for family and style. Unhinted
// advances are what Measure and Outline use, so a face obtained here lays
// text out identically.
func (c *Cache) Face(family string, size float64, bold, italic bool) (font.Face, error) {
	key := faceKey{family: strings.ToLower(family), size: size, bold: bold, italic: italic}

	c.mu.RLock()
	if face, ok := c.faces[key]; ok {
		c.mu.RUnlock()
		return face, nil
	}
	c.mu.RUnlock()

	face, err := opentype.NewFace(c.Font(family, bold, italic), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("new face %s %.1f: %w", family, size, err)
	}

	c.mu.Lock()
	c.faces[key] = face
	c.mu.Unlock()
	return face, nil
}

var styleSuffixes = struct {
	boldItalic, bold, italic []string
}{
	boldItalic: []string{" bold italic", "bi", " bolditalic", "z", "-bolditalic"},
	bold:       []string{" bold", "bd", "b", "-bold"},
	italic:     []string{" italic", "i", " it", "-italic"},
}

// findByKey looks up an already-lowercased name with style variants.
// Callers hold c.mu.
func (c *Cache) findByKey(lower string, bold, italic bool) *sfnt.Font {
	var tries []string
	if bold && italic {
		tries = append(tries, styleSuffixes.boldItalic...)
	}
	if bold {
		tries = append(tries, styleSuffixes.bold...)
	}
	if italic {
		tries = append(tries, styleSuffixes.italic...)
	}
	for _, suffix := range tries {
		if f, ok := c.fonts[lower+suffix]; ok {
			return f
		}
	}
	return c.fonts[lower]
}

// LoadFont registers a font file under name.
func (c *Cache) LoadFont(name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxFontFileSize {
		return fmt.Errorf("font file too large: %d bytes (max %d)", info.Size(), maxFontFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.LoadFontData(name, data)
}

// LoadFontData registers a TrueType/OpenType font from raw bytes.
func (c *Cache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", name, err)
	}
	c.mu.Lock()
	c.fonts[strings.ToLower(name)] = f
	c.registerByFamilyName(f)
	c.mu.Unlock()
	return nil
}

func (c *Cache) ensureScanned() {
	c.mu.RLock()
	scanned := c.scanned
	c.mu.RUnlock()
	if scanned {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scanned {
		return
	}
	c.scanned = true
	for _, dir := range c.dirs {
		c.scanDir(dir, 0)
	}
}

const (
	maxFontScanDepth = 3
	maxFontFileSize  = 20 << 20 // 20 MB
)

func (c *Cache) scanDir(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			c.scanDir(filepath.Join(dir, entry.Name()), depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		ext := filepath.Ext(lower)
		if ext != ".ttf" && ext != ".otf" && ext != ".ttc" && ext != ".otc" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		base := strings.TrimSuffix(lower, ext)
		if ext == ".ttc" || ext == ".otc" {
			c.loadCollection(data, base)
		} else if f, err := opentype.Parse(data); err == nil {
			c.fonts[base] = f
			c.registerByFamilyName(f)
		}
	}
}

// loadCollection registers every font of a TTC/OTC collection by family
// name, and the first one also by file name.
func (c *Cache) loadCollection(data []byte, base string) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if i == 0 {
			c.fonts[base] = f
		}
		c.registerByFamilyName(f)
	}
}

// registerByFamilyName indexes f under its family and full names.
// Callers hold c.mu.
func (c *Cache) registerByFamilyName(f *sfnt.Font) {
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDFull} {
		if name, err := f.Name(nil, id); err == nil && name != "" {
			c.fonts[strings.ToLower(name)] = f
		}
	}
}

// familyAliases maps generic CSS families and localized names to installed
// family names.
var familyAliases = map[string]string{
	"sans-serif": "dejavu sans",
	"serif":      "dejavu serif",
	"system-ui":  "dejavu sans",
	"helvetica":  "arial",
	"宋体":         "simsun",
	"黑体":         "simhei",
	"微软雅黑":       "microsoft yahei",
	"楷体":         "kaiti",
	"等线":         "dengxian",
}

var (
	goFontsOnce sync.Once
	goFonts     map[string]*sfnt.Font
)

// fallbackFont returns one of the bundled Go fonts. Monospace families map
// to Go Mono, everything else to Go (sans).
func fallbackFont(family string, bold, italic bool) *sfnt.Font {
	goFontsOnce.Do(func() {
		goFonts = make(map[string]*sfnt.Font)
		for name, data := range map[string][]byte{
			"regular":         goregular.TTF,
			"bold":            gobold.TTF,
			"italic":          goitalic.TTF,
			"bolditalic":      gobolditalic.TTF,
			"mono-regular":    gomono.TTF,
			"mono-bold":       gomonobold.TTF,
			"mono-italic":     gomonoitalic.TTF,
			"mono-bolditalic": gomonobolditalic.TTF,
		} {
			// The Go fonts are known-good; a parse failure is a broken build.
			goFonts[name] = must(opentype.Parse(data))
		}
	})

	style := "regular"
	switch {
	case bold && italic:
		style = "bolditalic"
	case bold:
		style = "bold"
	case italic:
		style = "italic"
	}
	lower := strings.ToLower(family)
	if strings.Contains(lower, "mono") || strings.Contains(lower, "courier") || strings.Contains(lower, "code") {
		style = "mono-" + style
	}
	return goFonts[style]
}

func must(f *sfnt.Font, err error) *sfnt.Font {
	if err != nil {
		panic(err)
	}
	return f
}

// systemFontDirs returns OS-specific font directories.
func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
