package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		url     string
		wantExt string
	}{
		{"https://example.com/cloth.PNG", ".png"},
		{"https://example.com/cloth.jpg?size=large", ".jpg"},
		{"https://example.com/image", ".img"},
		{"https://example.com/v1.2/image", ".img"},
	}
	for _, tt := range tests {
		got := Filename(tt.url)
		if !strings.HasSuffix(got, tt.wantExt) {
			t.Errorf("Filename(%q) = %q, want suffix %q", tt.url, got, tt.wantExt)
		}
		if len(got) != 32+len(tt.wantExt) {
			t.Errorf("Filename(%q) = %q, want 32 hex characters", tt.url, got)
		}
	}
	if Filename("https://a/x.png") == Filename("https://b/x.png") {
		t.Error("different URLs share a cache filename")
	}
}

func TestFetch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("image bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	ctx := context.Background()
	url := srv.URL + "/cloth.png"

	path, err := Fetch(ctx, url, CacheOptions{CacheDir: dir})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "image bytes" {
		t.Fatalf("cached file = %q, %v", data, err)
	}

	if _, err := Fetch(ctx, url, CacheOptions{CacheDir: dir}); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1 (second fetch cached)", hits.Load())
	}

	if _, err := Fetch(ctx, url, CacheOptions{CacheDir: dir, Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times after refresh, want 2", hits.Load())
	}

	if _, err := Fetch(ctx, "ftp://example.com/x.png", CacheOptions{CacheDir: dir}); err == nil {
		t.Error("Fetch() of non-HTTP URL: want error")
	}
}
