package image

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := range 4 {
		for x := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: 100, B: uint8(y * 60), A: 255})
		}
	}
	return img
}

func encodeAll(t *testing.T, img image.Image) map[string][]byte {
	t.Helper()
	out := map[string][]byte{}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	out["test.png"] = bytes.Clone(buf.Bytes())

	buf.Reset()
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	out["test.bmp"] = bytes.Clone(buf.Bytes())

	buf.Reset()
	if err := tiff.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	out["test.tiff"] = bytes.Clone(buf.Bytes())
	return out
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	loader := NewFileLoader()
	ctx := context.Background()

	for name, data := range encodeAll(t, testImage()) {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, data, 0o600); err != nil {
				t.Fatal(err)
			}
			img, err := loader.Load(ctx, path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
				t.Errorf("bounds = %v, want 8x4", b)
			}
			if err := ValidateImagePath(path); err != nil {
				t.Errorf("ValidateImagePath() error = %v", err)
			}
		})
	}

	notImage := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notImage, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"", filepath.Join(dir, "missing.png"), dir, notImage} {
		if _, err := loader.Load(ctx, path); err == nil {
			t.Errorf("Load(%q) error = nil, want error", path)
		}
		if err := ValidateImagePath(path); err == nil {
			t.Errorf("ValidateImagePath(%q) error = nil, want error", path)
		}
	}
}

func TestSmartLoaderURL(t *testing.T) {
	data := encodeAll(t, testImage())["test.png"]
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cloth.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	loader := NewSmartLoader()
	img, err := loader.Load(context.Background(), srv.URL+"/cloth.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("bounds = %v, want 8x4", b)
	}

	cacheDir := t.TempDir()
	cached := NewSmartLoader().WithCache(cacheDir)
	for range 2 {
		if _, err := cached.Load(context.Background(), srv.URL+"/cloth.png"); err != nil {
			t.Fatalf("cached Load() error = %v", err)
		}
	}
	if entries, _ := os.ReadDir(cacheDir); len(entries) != 1 {
		t.Errorf("cache holds %d files, want 1", len(entries))
	}

	if _, err := loader.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("Load() of missing URL: want error")
	}
	if err := ValidateImagePath(srv.URL + "/anything"); err != nil {
		t.Errorf("ValidateImagePath(url) error = %v", err)
	}
}
