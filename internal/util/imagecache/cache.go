// Package imagecache keeps downloaded images on disk so repeated runs against
// the same URL do not fetch it again.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	httputil "github.com/jmylchreest/sett/internal/util/http"
	"github.com/jmylchreest/sett/internal/version"
)

// CacheOptions configures image caching behavior.
type CacheOptions struct {
	// CacheDir is the directory where images will be cached.
	// If empty, DefaultCacheDir is used.
	CacheDir string

	// Refresh downloads the image even when a cached copy exists.
	Refresh bool

	// Fetch configures the download.
	Fetch httputil.FetchOptions
}

// DefaultCacheDir returns $XDG_CACHE_HOME/sett/images or the platform equivalent.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", version.Name, "images"), nil
	}
	return filepath.Join(cacheDir, version.Name, "images"), nil
}

// Filename returns the cache filename for url: a hash of the URL plus its
// extension, without any query string.
func Filename(url string) string {
	hash := sha256.Sum256([]byte(url))

	ext := filepath.Ext(url)
	if i := strings.IndexAny(ext, "?#"); i != -1 {
		ext = ext[:i]
	}
	if ext == "" || len(ext) > 5 || strings.Contains(ext, "/") {
		ext = ".img"
	}
	return fmt.Sprintf("%x%s", hash[:16], strings.ToLower(ext))
}

// Fetch returns the path of a cached copy of url, downloading it first if
// needed.
func Fetch(ctx context.Context, url string, opts CacheOptions) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		var err error
		if cacheDir, err = DefaultCacheDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cachedPath := filepath.Join(cacheDir, Filename(url))
	if !opts.Refresh {
		if _, err := os.Stat(cachedPath); err == nil {
			return cachedPath, nil
		}
	}

	data, err := httputil.Fetch(ctx, url, opts.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	// Write then rename so a failed write never leaves a truncated cache entry.
	tmp, err := os.CreateTemp(cacheDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp.Name(), cachedPath); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}

	return cachedPath, nil
}
