// Package pptx imports PowerPoint 2007+ (.pptx) files into scene documents.
//
// Only what the scene model can express is kept: positioned shapes with
// solid or gradient fills and outlines, text runs flattened into text
// elements, pictures (embedded as data: URIs), connectors as lines, and
// tables. Slides are scaled uniformly into the logical slide size.
package pptx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/VantageDataChat/GoSlides/render"
	"github.com/VantageDataChat/GoSlides/scene"
)

// ErrNotPresentation is returned for archives without ppt/presentation.xml.
var ErrNotPresentation = errors.New("not a pptx presentation")

// maxZipEntrySize is the maximum allowed size for a single file extracted
// from the archive.
const maxZipEntrySize = 50 << 20

// maxZipTotalSize bounds the archive itself.
const maxZipTotalSize = 200 << 20

// maxZipEntries is the maximum number of files allowed in an archive.
const maxZipEntries = 10000

// Default slide size, 13.333in × 7.5in.
const (
	defaultSlideCX = 12192000
	defaultSlideCY = 6858000
)

// Import reads the .pptx file at path.
func Import(path string) (*scene.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return ImportReader(f, info.Size())
}

// ImportReader reads a .pptx archive of the given size.
func ImportReader(r io.ReaderAt, size int64) (*scene.Document, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid reader size: %d", size)
	}
	if size > maxZipTotalSize {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed (%d bytes)", size, maxZipTotalSize)
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("zip archive contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}

	a := &archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.files[f.Name] = f
	}
	return a.document()
}

type archive struct {
	files map[string]*zip.File
	theme map[string]string
	// scale converts EMU to slide units.
	scale float64
}

func (a *archive) read(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found in zip: %s", name)
	}
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, fmt.Errorf("file %s exceeds maximum allowed size (%d bytes)", name, maxZipEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxZipEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", name, err)
	}
	if len(data) > maxZipEntrySize {
		return nil, fmt.Errorf("file %s actual size exceeds maximum allowed size", name)
	}
	return data, nil
}

type xmlRel struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type xmlRels struct {
	XMLName       xml.Name `xml:"Relationships"`
	Relationships []xmlRel `xml:"Relationship"`
}

// rels maps relationship ids of part to archive paths. A part without a
// relationships file has none.
func (a *archive) rels(part string) (map[string]string, error) {
	dir, file := path.Split(part)
	data, err := a.read(dir + "_rels/" + file + ".rels")
	if err != nil {
		return map[string]string{}, nil
	}
	var rels xmlRels
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships of %s: %w", part, err)
	}
	out := make(map[string]string, len(rels.Relationships))
	for _, r := range rels.Relationships {
		if r.TargetMode == "External" {
			continue
		}
		out[r.ID] = resolvePart(dir, r.Target)
	}
	return out, nil
}

// resolvePart resolves a relationship target against the directory of its
// source part. The result never escapes the archive root.
func resolvePart(dir, target string) string {
	if !strings.HasPrefix(target, "/") {
		target = path.Join(dir, target)
	}
	return strings.TrimPrefix(path.Clean("/"+target), "/")
}

type xmlPresentation struct {
	SlideIDs []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
	SlideSize struct {
		CX int64 `xml:"cx,attr"`
		CY int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
}

type xmlCore struct {
	Title    string `xml:"title"`
	Created  string `xml:"created"`
	Modified string `xml:"modified"`
}

func (a *archive) document() (*scene.Document, error) {
	const presPath = "ppt/presentation.xml"
	data, err := a.read(presPath)
	if err != nil {
		return nil, ErrNotPresentation
	}
	var pres xmlPresentation
	if err := xml.Unmarshal(data, &pres); err != nil {
		return nil, fmt.Errorf("failed to parse presentation: %w", err)
	}
	cx, cy := pres.SlideSize.CX, pres.SlideSize.CY
	if cx <= 0 || cy <= 0 {
		cx, cy = defaultSlideCX, defaultSlideCY
	}
	a.scale = min(render.SlideWidth/float64(cx), render.SlideHeight/float64(cy))

	presRels, err := a.rels(presPath)
	if err != nil {
		return nil, err
	}
	a.theme = a.readTheme(presRels)

	doc := scene.New("")
	blank := doc.Presentation.SlideIDs[0]
	a.readCore(doc.Presentation)

	for i, id := range pres.SlideIDs {
		target, ok := presRels[id.RID]
		if !ok {
			continue
		}
		sl, err := a.readSlide(target)
		if err != nil {
			return nil, fmt.Errorf("failed to read slide %d: %w", i+1, err)
		}
		doc.InsertSlide(sl, doc.SlideCount())
	}
	if doc.SlideCount() > 1 {
		if err := doc.RemoveSlide(blank); err != nil {
			return nil, err
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("imported document: %w", err)
	}
	return doc, nil
}

// readCore copies title and timestamps from docProps/core.xml when present.
func (a *archive) readCore(p *scene.Presentation) {
	data, err := a.read("docProps/core.xml")
	if err != nil {
		return
	}
	var core xmlCore
	if xml.Unmarshal(data, &core) != nil {
		return
	}
	p.Title = strings.TrimSpace(core.Title)
	if t, err := time.Parse(time.RFC3339, core.Created); err == nil {
		p.CreatedAt = t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, core.Modified); err == nil {
		p.UpdatedAt = t.UTC()
	}
}

// officeTheme is the default Office color scheme, used when the archive has
// no theme part.
var officeTheme = map[string]string{
	"dk1": "000000", "lt1": "FFFFFF", "dk2": "44546A", "lt2": "E7E6E6",
	"accent1": "4472C4", "accent2": "ED7D31", "accent3": "A5A5A5",
	"accent4": "FFC000", "accent5": "5B9BD5", "accent6": "70AD47",
	"hlink": "0563C1", "folHlink": "954F72",
}

// readTheme collects the color scheme of the presentation's theme.
func (a *archive) readTheme(presRels map[string]string) map[string]string {
	theme := make(map[string]string, len(officeTheme)+4)
	for k, v := range officeTheme {
		theme[k] = v
	}
	var part string
	for _, target := range presRels {
		if strings.HasPrefix(path.Base(target), "theme") {
			part = target
			break
		}
	}
	if data, err := a.read(part); err == nil {
		parseColorScheme(data, theme)
	}
	theme["tx1"], theme["bg1"] = theme["dk1"], theme["lt1"]
	theme["tx2"], theme["bg2"] = theme["dk2"], theme["lt2"]
	return theme
}

func parseColorScheme(data []byte, theme map[string]string) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	inScheme := false
	slot := ""
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "clrScheme":
				inScheme = true
			case !inScheme:
			case t.Name.Local == "srgbClr":
				if slot != "" {
					theme[slot] = strings.ToUpper(attr(t, "val"))
				}
			case t.Name.Local == "sysClr":
				if slot != "" {
					if v := attr(t, "lastClr"); v != "" {
						theme[slot] = strings.ToUpper(v)
					}
				}
			default:
				slot = t.Name.Local
			}
		case xml.EndElement:
			if t.Name.Local == "clrScheme" {
				return
			}
		}
	}
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrInt(t xml.StartElement, name string) (int64, bool) {
	v, err := strconv.ParseInt(attr(t, name), 10, 64)
	return v, err == nil
}

func attrBool(t xml.StartElement, name string) bool {
	v := attr(t, name)
	return v == "1" || v == "true"
}

func guessMimeType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".emf":
		return "image/x-emf"
	case ".wmf":
		return "image/x-wmf"
	default:
		return "image/png"
	}
}
