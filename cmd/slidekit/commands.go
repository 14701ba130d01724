package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/VantageDataChat/GoSlides/editor"
	"github.com/VantageDataChat/GoSlides/export"
	"github.com/VantageDataChat/GoSlides/fonts"
	"github.com/VantageDataChat/GoSlides/internal/config"
	"github.com/VantageDataChat/GoSlides/internal/pptx"
	"github.com/VantageDataChat/GoSlides/internal/preview"
	"github.com/VantageDataChat/GoSlides/internal/store"
	"github.com/VantageDataChat/GoSlides/render"
	"github.com/VantageDataChat/GoSlides/scene"
	"github.com/VantageDataChat/GoSlides/snap"
)

// source selects a document from a JSON file or from the store.
type source struct {
	in string
	id string
}

func (s *source) bind(fs *flag.FlagSet) {
	fs.StringVar(&s.in, "in", "", "input document JSON or .pptx")
	fs.StringVar(&s.id, "id", "", "stored presentation id (instead of -in)")
}

func (s *source) load(ctx context.Context, cfg config.Config) (*scene.Document, error) {
	switch {
	case s.in != "" && s.id != "":
		return nil, errors.New("use either -in or -id")
	case s.in != "":
		return readDocument(s.in)
	case s.id != "":
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.Load(ctx, s.id)
	default:
		return nil, errors.New("-in or -id is required")
	}
}

// readDocument loads a document JSON file, or imports a .pptx deck.
func readDocument(path string) (*scene.Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".pptx") {
		return pptx.Import(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := scene.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func newExporter(cfg config.Config, log *slog.Logger, baseDir string) *export.Exporter {
	return export.New(&export.Options{
		Scale:        cfg.Scale,
		Quality:      cfg.Quality,
		Concurrency:  cfg.Concurrency,
		AssetTimeout: cfg.AssetTimeout,
		Loader:       &export.SourceLoader{BaseDir: baseDir},
		Fonts:        fonts.NewCache(cfg.FontDirs...),
		Logger:       log,
	})
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet("slidekit "+name, flag.ContinueOnError)
}

func splitIDs(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func runExport(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("export")
	var (
		src   source
		out   string
		order string
	)
	src.bind(fs)
	fs.StringVar(&out, "out", export.DefaultFileName, "output PDF")
	fs.StringVar(&order, "order", "", "comma-separated slide ids in page order")
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}
	log := cfg.Logger(os.Stderr)

	doc, err := src.load(ctx, cfg)
	if err != nil {
		return err
	}
	x := newExporter(cfg, log, filepath.Dir(src.in))
	res, err := x.Export(ctx, export.Request{
		Title:    doc.Presentation.Title,
		Slides:   doc.OrderedSlides(),
		Order:    splitIDs(order),
		FileName: out,
		OnProgress: func(pct float64) {
			log.Debug("export progress", slog.Float64("pct", pct))
		},
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(stdout, "Exported %d slides to %s\n", res.Pages, res.Path)
	return nil
}

func runRender(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("render")
	var (
		src   source
		slide int
		out   string
	)
	src.bind(fs)
	fs.IntVar(&slide, "slide", 0, "1-based slide number; 0 renders every slide")
	fs.StringVar(&out, "out", "slide%02d.png", "output image; a %d verb is replaced by the slide number")
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}
	log := cfg.Logger(os.Stderr)

	doc, err := src.load(ctx, cfg)
	if err != nil {
		return err
	}
	slides := doc.OrderedSlides()
	first := 0
	if slide != 0 {
		if slide < 1 || slide > len(slides) {
			return fmt.Errorf("slide %d out of range 1..%d", slide, len(slides))
		}
		first = slide - 1
		slides = slides[first : first+1]
	}

	x := newExporter(cfg, log, filepath.Dir(src.in))
	imgs, err := x.Images(ctx, export.Request{Slides: slides})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	for i, img := range imgs {
		path := out
		if strings.Contains(out, "%") {
			path = fmt.Sprintf(out, first+i+1)
		}
		if err := export.SaveImage(img, path, cfg.Quality); err != nil {
			return fmt.Errorf("slide %d: %w", first+i+1, err)
		}
		fmt.Fprintf(stdout, "Rendered slide %d to %s\n", first+i+1, path)
	}
	return nil
}

func runImport(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("import")
	var in string
	fs.StringVar(&in, "in", "", "input document JSON or .pptx")
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}
	if in == "" {
		return errors.New("-in is required")
	}
	doc, err := readDocument(in)
	if err != nil {
		return err
	}
	return save(ctx, cfg, doc, stdout)
}

func save(ctx context.Context, cfg config.Config, doc *scene.Document, stdout io.Writer) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	version, err := st.Save(ctx, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Stored %s (%q, version %d)\n", doc.Presentation.ID, doc.Presentation.Title, version)
	return nil
}

// runNew creates a document through an editing session so it carries the
// same defaults as one made interactively.
func runNew(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("new")
	var (
		title  string
		slides int
	)
	fs.StringVar(&title, "title", "Untitled", "presentation title")
	fs.IntVar(&slides, "slides", 1, "number of blank slides")
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}
	solver := snap.NewSolver(render.SlideWidth, render.SlideHeight)
	solver.Threshold = cfg.SnapThreshold
	s := editor.NewSession(title, &editor.Options{
		HistoryMax: cfg.HistoryMax,
		Snap:       solver,
		Logger:     cfg.Logger(os.Stderr),
	})
	defer s.Close()
	for i := 1; i < slides; i++ {
		s.AddSlide()
	}
	return save(ctx, cfg, s.Document(), stdout)
}

func runServe(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("serve")
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}
	log := cfg.Logger(os.Stderr)
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := preview.New(st, newExporter(cfg, log, ""), log)
	fmt.Fprintf(stdout, "Serving previews on http://%s\n", cfg.Addr)
	return srv.ListenAndServe(ctx, cfg.Addr)
}
