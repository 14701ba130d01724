// Package export renders slides to a paginated PDF. Every slide becomes one
// page holding a supersampled JPEG of the slide, so the document matches
// what the raster backend draws.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/VantageDataChat/GoSlides/fonts"
	"github.com/VantageDataChat/GoSlides/render"
	"github.com/VantageDataChat/GoSlides/render/raster"
	"github.com/VantageDataChat/GoSlides/scene"
)

// ErrNoSlides is returned when a request resolves to zero slides.
var ErrNoSlides = errors.New("no slides to export")

const (
	DefaultScale        = 2
	DefaultQuality      = 92
	DefaultConcurrency  = 8
	DefaultAssetTimeout = 10 * time.Second
	DefaultFileName     = "presentation.pdf"
)

// Options configures an Exporter.
type Options struct {
	// Scale is the supersampling factor. Default 2.
	Scale int
	// Quality is the default JPEG quality, 1..100.
	Quality int
	// Concurrency bounds parallel asset loads.
	Concurrency int
	// AssetTimeout bounds a single asset load.
	AssetTimeout time.Duration
	// Loader fetches image sources. Default is a SourceLoader.
	Loader Loader
	// Fonts is shared by every slide. Default resolves every family to the
	// bundled Go fonts.
	Fonts *fonts.Cache
	// Engine draws slides. Default render.NewEngine with Logger.
	Engine *render.Engine
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Request describes one export.
type Request struct {
	Title  string
	Slides []*scene.Slide
	// Order lists slide ids in page order. When empty, Slides is used as
	// given.
	Order []string
	// FileName is where the PDF is written unless ReturnBytes is set.
	FileName string
	// Quality overrides Options.Quality when in 1..100.
	Quality int
	// OnProgress receives the completed percentage after each slide.
	OnProgress func(pct float64)
	// ReturnBytes returns the PDF in Result.Bytes instead of writing a file.
	ReturnBytes bool
}

// Result reports a finished export.
type Result struct {
	Pages int
	Bytes []byte
	Path  string
}

// Exporter renders slides to images and PDFs. It is safe for concurrent
// use.
type Exporter struct {
	opts   Options
	engine *render.Engine
	log    *slog.Logger
}

// New creates an Exporter. A nil opts uses the defaults.
func New(opts *Options) *Exporter {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Scale < 1 {
		o.Scale = DefaultScale
	}
	if o.Quality < 1 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.Concurrency < 1 {
		o.Concurrency = DefaultConcurrency
	}
	if o.AssetTimeout <= 0 {
		o.AssetTimeout = DefaultAssetTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Loader == nil {
		o.Loader = &SourceLoader{}
	}
	if o.Fonts == nil {
		o.Fonts = fonts.NewCacheDirs()
	}
	x := &Exporter{opts: o, engine: o.Engine, log: o.Logger}
	if x.engine == nil {
		x.engine = render.NewEngine(&render.Options{
			Width:  render.SlideWidth,
			Height: render.SlideHeight,
			Logger: o.Logger,
		})
	}
	return x
}

// ordered resolves the page order of a request.
func (x *Exporter) ordered(req *Request) []*scene.Slide {
	if len(req.Order) == 0 {
		out := make([]*scene.Slide, 0, len(req.Slides))
		for _, sl := range req.Slides {
			if sl != nil {
				out = append(out, sl)
			}
		}
		return out
	}
	byID := make(map[string]*scene.Slide, len(req.Slides))
	for _, sl := range req.Slides {
		if sl != nil {
			byID[sl.ID] = sl
		}
	}
	out := make([]*scene.Slide, 0, len(req.Order))
	for _, id := range req.Order {
		sl, ok := byID[id]
		if !ok {
			x.log.Warn("export order names unknown slide", slog.String("slide", id))
			continue
		}
		out = append(out, sl)
	}
	return out
}

// Images renders the requested slides in page order, flattened onto white,
// at the supersampled resolution.
func (x *Exporter) Images(ctx context.Context, req Request) ([]*image.RGBA, error) {
	var out []*image.RGBA
	err := x.each(ctx, &req, func(_ int, _ *scene.Slide, img *image.RGBA) error {
		out = append(out, img)
		return nil
	})
	return out, err
}

// each preloads assets then renders slides one by one, calling fn with each
// finished image. Cancellation is checked between slides.
func (x *Exporter) each(ctx context.Context, req *Request, fn func(i int, sl *scene.Slide, img *image.RGBA) error) error {
	slides := x.ordered(req)
	if len(slides) == 0 {
		return ErrNoSlides
	}
	assets, err := x.preload(ctx, imageSources(slides))
	if err != nil {
		return err
	}
	engine := x.engine.WithAssets(assets)
	for i, sl := range slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		img := x.draw(engine, sl)
		if err := fn(i, sl, img); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
		if req.OnProgress != nil {
			req.OnProgress(100 * float64(i+1) / float64(len(slides)))
		}
	}
	return nil
}

func (x *Exporter) draw(engine *render.Engine, sl *scene.Slide) *image.RGBA {
	w, h := engine.Size()
	c := raster.NewScaled(w, h, x.opts.Scale, x.opts.Fonts)
	engine.DrawSlide(c, sl)
	return raster.Flatten(c.Image(), color.White)
}

// RenderSlide renders one slide, flattened onto white, at the supersampled
// resolution. Its image assets are loaded first.
func (x *Exporter) RenderSlide(ctx context.Context, sl *scene.Slide) (*image.RGBA, error) {
	engine, err := x.engineFor(ctx, sl)
	if err != nil {
		return nil, err
	}
	return x.draw(engine, sl), nil
}

// Draw loads the assets of one slide and draws it onto s, which may be any
// surface such as a display list recorder.
func (x *Exporter) Draw(ctx context.Context, s render.Surface, sl *scene.Slide) error {
	engine, err := x.engineFor(ctx, sl)
	if err != nil {
		return err
	}
	engine.DrawSlide(s, sl)
	return nil
}

func (x *Exporter) engineFor(ctx context.Context, sl *scene.Slide) (*render.Engine, error) {
	if sl == nil {
		return nil, ErrNoSlides
	}
	assets, err := x.preload(ctx, imageSources([]*scene.Slide{sl}))
	if err != nil {
		return nil, err
	}
	return x.engine.WithAssets(assets), nil
}

// Fonts returns the font cache shared by every render.
func (x *Exporter) Fonts() *fonts.Cache { return x.opts.Fonts }

// Export renders the requested slides into a PDF with one page per slide.
func (x *Exporter) Export(ctx context.Context, req Request) (Result, error) {
	quality := req.Quality
	if quality < 1 || quality > 100 {
		quality = x.opts.Quality
	}
	w, h := x.engine.Size()
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr:        "pt",
		OrientationStr: "P",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("GoSlides "+Version, true)
	if req.Title != "" {
		pdf.SetTitle(req.Title, true)
	}

	start := time.Now()
	pages := 0
	err := x.each(ctx, &req, func(i int, sl *scene.Slide, img *image.RGBA) error {
		var buf bytes.Buffer
		if err := EncodeImage(&buf, img, FormatJPEG, quality); err != nil {
			return err
		}
		name := fmt.Sprintf("slide-%d-%s", i+1, sl.ID)
		opt := fpdf.ImageOptions{ImageType: "JPG"}
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opt, &buf)
		pdf.ImageOptions(name, 0, 0, w, h, false, opt, 0, "")
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("pdf page: %w", err)
		}
		pages++
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{Pages: pages}
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return Result{}, fmt.Errorf("write pdf: %w", err)
	}
	if req.ReturnBytes {
		res.Bytes = out.Bytes()
	} else {
		res.Path = pdfName(req.FileName)
		if dir := filepath.Dir(res.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return Result{}, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(res.Path, out.Bytes(), 0o644); err != nil {
			return Result{}, fmt.Errorf("write pdf: %w", err)
		}
	}
	x.log.Info("export finished",
		slog.Int("pages", pages),
		slog.Int("bytes", out.Len()),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

func pdfName(name string) string {
	if name == "" {
		return DefaultFileName
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
