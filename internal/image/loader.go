// Package image loads images from local files and HTTP(S) URLs.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	httputil "github.com/jmylchreest/sett/internal/util/http"
	"github.com/jmylchreest/sett/internal/util/imagecache"
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(ctx context.Context, path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP, BMP, TIFF.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	return img, nil
}

// IsURL reports whether path is an HTTP(S) URL.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidateImagePath checks that path is an HTTP(S) URL or a readable file
// in a supported format. URLs are not fetched.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}
	if IsURL(path) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file not found: %s", path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	return nil
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	fileLoader *FileLoader
	fetchOpts  httputil.FetchOptions
	cache      *imagecache.CacheOptions
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader() *SmartLoader {
	return &SmartLoader{
		fileLoader: NewFileLoader(),
	}
}

// WithFetchOptions sets the options used for URL downloads.
func (l *SmartLoader) WithFetchOptions(opts httputil.FetchOptions) *SmartLoader {
	l.fetchOpts = opts
	return l
}

// WithCache keeps downloaded images in dir (DefaultCacheDir when empty) and
// reuses them on later loads of the same URL.
func (l *SmartLoader) WithCache(dir string) *SmartLoader {
	l.cache = &imagecache.CacheOptions{CacheDir: dir}
	return l
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if IsURL(path) {
		return l.loadFromURL(ctx, path)
	}
	return l.fileLoader.Load(ctx, path)
}

// loadFromURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	if l.cache != nil {
		opts := *l.cache
		opts.Fetch = l.fetchOpts
		path, err := imagecache.Fetch(ctx, url, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
		return l.fileLoader.Load(ctx, path)
	}

	data, err := httputil.Fetch(ctx, url, l.fetchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	return img, nil
}
