package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/VantageDataChat/GoSlides/render"
	"github.com/VantageDataChat/GoSlides/scene"
)

// ErrAssetMissing is returned by loaders for a source that does not exist.
var ErrAssetMissing = errors.New("asset missing")

// maxAssetBytes bounds a single downloaded or decoded-from-URI asset.
const maxAssetBytes = 64 << 20

// Loader fetches and decodes an image source.
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, src string) (image.Image, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, src string) (image.Image, error) { return f(ctx, src) }

// SourceLoader resolves data: URIs, http(s) URLs and local files.
// Relative file paths are resolved against BaseDir.
type SourceLoader struct {
	Client  *http.Client
	BaseDir string
}

// Load implements Loader.
func (l *SourceLoader) Load(ctx context.Context, src string) (image.Image, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(src, "data:"):
		data, err = decodeDataURI(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		data, err = l.fetch(ctx, src)
	default:
		data, err = l.readFile(src)
	}
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func (l *SourceLoader) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", src, ErrAssetMissing)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: %s", src, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
}

func (l *SourceLoader) readFile(src string) ([]byte, error) {
	path := src
	if u, err := url.Parse(src); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", src, ErrAssetMissing)
	}
	return data, err
}

// decodeDataURI returns the payload of a data: URI.
func decodeDataURI(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	}
	s, err := url.PathUnescape(payload)
	return []byte(s), err
}

// imageSources lists the distinct image sources referenced by slides, in
// first-seen order.
func imageSources(slides []*scene.Slide) []string {
	seen := map[string]bool{}
	var out []string
	for _, sl := range slides {
		for _, el := range sl.Elements {
			if el == nil || el.Image == nil || el.Image.Src == "" || seen[el.Image.Src] {
				continue
			}
			seen[el.Image.Src] = true
			out = append(out, el.Image.Src)
		}
	}
	return out
}

// preload loads every source once with bounded concurrency. A source that
// fails or times out is logged and left out of the result; it never fails
// the export.
func (x *Exporter) preload(ctx context.Context, srcs []string) (render.AssetMap, error) {
	assets := make(render.AssetMap, len(srcs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.opts.Concurrency)
	for _, src := range srcs {
		src := src
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, x.opts.AssetTimeout)
			defer cancel()
			img, err := x.opts.Loader.Load(lctx, src)
			if err != nil {
				x.log.Warn("preload asset failed", slog.String("src", abbreviate(src)), slog.Any("err", err))
				return nil
			}
			mu.Lock()
			assets[src] = img
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// a cancelled export must not continue with a partial asset set
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

// abbreviate shortens data URIs for logging.
func abbreviate(src string) string {
	if len(src) > 80 {
		return src[:77] + "..."
	}
	return src
}
