// Package export writes rendered fabric to lossless image files and
// truecolour terminal previews.
package export

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
)

// Formats returns the supported output formats.
func Formats() []Format {
	return []Format{FormatPNG, FormatTIFF, FormatBMP}
}

// ParseFormat parses a format name. The empty string selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	default:
		names := make([]string, 0, len(Formats()))
		for _, f := range Formats() {
			names = append(names, string(f))
		}
		return "", fmt.Errorf("unsupported format %q (supported: %s)", s, strings.Join(names, ", "))
	}
}

// FormatFromPath picks the format from the file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatPNG
	}
	return f
}

// Extension returns the conventional file extension for f, with the dot.
func (f Format) Extension() string {
	switch f {
	case FormatTIFF:
		return ".tiff"
	case FormatBMP:
		return ".bmp"
	default:
		return ".png"
	}
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case FormatPNG, "":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return nil
}

// WriteFile encodes img to path, creating parent directories as needed.
func WriteFile(path string, img image.Image, f Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Output directory, user-readable
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	bw := bufio.NewWriter(file)
	if err := Encode(bw, img, f); err != nil {
		file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
