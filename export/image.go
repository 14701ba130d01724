package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is an output image format.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
)

// FormatFromPath picks the format for a file name by extension. Anything
// other than .jpg or .jpeg is PNG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG
	default:
		return FormatPNG
	}
}

// EncodeImage writes img to w. quality applies to JPEG only; out of range
// values use DefaultQuality.
func EncodeImage(w io.Writer, img image.Image, format Format, quality int) error {
	switch format {
	case FormatJPEG:
		if quality <= 0 || quality > 100 {
			quality = DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return png.Encode(w, img)
	}
}

// SaveImage writes img to path, creating parent directories. The format
// follows the extension.
func SaveImage(img image.Image, path string, quality int) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := EncodeImage(f, img, FormatFromPath(path), quality); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
