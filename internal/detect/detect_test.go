package detect

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/jmylchreest/sett/internal/palette"
	"github.com/jmylchreest/sett/internal/threadcount"
	"github.com/jmylchreest/sett/internal/weave"
)

// stripedImage draws the mirrored sett of tc as vertical stripes, starting
// shift pixels into the repeat.
func stripedImage(t *testing.T, tc threadcount.Threadcount, threadWidth float64, width, height, shift int) *image.RGBA {
	t.Helper()
	opts := weave.DefaultOptions()
	opts.ThreadWidth = threadWidth
	bands, err := weave.Bands(tc, palette.Default(), opts)
	if err != nil {
		t.Fatal(err)
	}
	row := weave.Stripe(bands)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, row[(x+shift)%len(row)].RGBA())
		}
	}
	return img
}

func TestDetectStripes(t *testing.T) {
	pal := palette.Default()
	want := threadcount.MustParse("R4 W2 B6", pal)
	img := stripedImage(t, want, 4, 400, 20, 30)

	opts := DefaultOptions()
	opts.ThreadWidth = 4
	res, err := Detect(img, pal, opts)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if !res.Folded {
		t.Error("Folded = false, want true")
	}
	if !res.Threadcount.Equal(want) {
		t.Errorf("Detect() = %q, want %q", res.Threadcount, want)
	}
	if res.Scale != 1 {
		t.Errorf("Scale = %g, want 1", res.Scale)
	}
}

func TestDetectUnfolded(t *testing.T) {
	pal := palette.Default()
	img := stripedImage(t, threadcount.MustParse("R4 W2 B6", pal), 4, 400, 20, 30)

	opts := DefaultOptions()
	opts.ThreadWidth = 4
	opts.Fold = false
	res, err := Detect(img, pal, opts)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if res.Folded {
		t.Error("Folded = true with Fold disabled")
	}

	// 400px from offset 30 covers the partial first band, then full bands.
	want := threadcount.MustParse("W2 R8 W2 B6", pal)
	if got := res.Threadcount[:4]; !got.Equal(want) {
		t.Errorf("first runs = %q, want %q", got, want)
	}
}

func TestDetectWovenRoundTrip(t *testing.T) {
	pal := palette.Default()

	for _, size := range []int{900, 2000} {
		want := threadcount.MustParse("K8 G28 B28", pal)
		opts := weave.DefaultOptions()
		opts.Size = size
		fabric, err := weave.Render(want, pal, opts)
		if err != nil {
			t.Fatal(err)
		}

		dopts := DefaultOptions()
		dopts.Woven = true
		dopts.MaxWidth = 0
		res, err := Detect(fabric.Image, pal, dopts)
		if err != nil {
			t.Fatalf("size %d: Detect() error = %v", size, err)
		}
		if !res.Threadcount.Equal(want) {
			t.Errorf("size %d: Detect() = %q, want %q", size, res.Threadcount, want)
		}
	}
}

func TestDetectDownscale(t *testing.T) {
	pal := palette.Default()
	img := stripedImage(t, threadcount.MustParse("K16 Y4 G32", pal), 6, 1600, 10, 0)

	opts := DefaultOptions()
	opts.MaxWidth = 800
	opts.MinRunWidth = 3
	res, err := Detect(img, pal, opts)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if res.Scale != 0.5 {
		t.Errorf("Scale = %g, want 0.5", res.Scale)
	}
	if res.Threadcount.Empty() {
		t.Error("Detect() returned an empty threadcount")
	}
}

func TestDetectRowInDownscaledImage(t *testing.T) {
	pal := palette.Default()
	top := stripedImage(t, threadcount.MustParse("R4 W2 B6", pal), 8, 2048, 1000, 0)
	bottom := stripedImage(t, threadcount.MustParse("K4 Y2 G6", pal), 8, 2048, 1000, 0)
	img := image.NewRGBA(top.Bounds())
	for y := range 1000 {
		src := top
		if y >= 600 {
			src = bottom
		}
		copy(img.Pix[y*img.Stride:(y+1)*img.Stride], src.Pix[y*src.Stride:(y+1)*src.Stride])
	}

	opts := DefaultOptions()
	opts.MaxWidth = 1024
	opts.MinRunWidth = 4
	opts.Fold = false

	tests := []struct {
		name  string
		row   int
		codes string
	}{
		{name: "upper pattern", row: 200, codes: "RWB"},
		{name: "lower pattern below downscaled height", row: 800, codes: "KYG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := opts
			o.Row = tt.row
			res, err := Detect(img, pal, o)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if res.Scale != 0.5 {
				t.Errorf("Scale = %g, want 0.5", res.Scale)
			}
			for _, r := range res.Runs {
				if !strings.Contains(tt.codes, string(r.Code)) {
					t.Errorf("run %v is not one of %s", r, tt.codes)
				}
			}
		})
	}

	o := opts
	o.Row = 1000
	if _, err := Detect(img, pal, o); err == nil {
		t.Error("Detect() with row past the source height: want error")
	}
}

func TestDetectErrors(t *testing.T) {
	pal := palette.Default()
	solid := stripedImage(t, threadcount.MustParse("G4", pal), 4, 50, 10, 0)

	tests := []struct {
		name   string
		img    image.Image
		mutate func(*Options)
		target error
	}{
		{"zero thread width", solid, func(o *Options) { o.ThreadWidth = 0 }, nil},
		{"negative tolerance", solid, func(o *Options) { o.Tolerance = -1 }, nil},
		{"row outside", solid, func(o *Options) { o.Row = 10 }, nil},
		{"empty image", image.NewRGBA(image.Rect(0, 0, 0, 0)), func(*Options) {}, nil},
		{"single colour trimmed away", solid, func(o *Options) {}, ErrNoRuns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			_, err := Detect(tt.img, pal, opts)
			if err == nil {
				t.Fatal("Detect() error = nil, want error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Detect() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestFold(t *testing.T) {
	pal := palette.Default()
	runs := func(s string, tw float64) []Run {
		var out []Run
		for _, r := range threadcount.MustParse(s, pal) {
			out = append(out, Run{Code: r.Code, Width: int(r.Count * tw)})
		}
		return out
	}

	tests := []struct {
		name   string
		in     string
		want   string
		folded bool
	}{
		{"two pivots", "B28 G28 K16 G28 B28 G28 K16", "K8 G28 B28", true},
		{"one pivot, right side", "B28 G28 K16 G28 B28", "K8 G28 B28", true},
		{"one pivot, left side", "R2 W4 B8 Y2 B8 W4", "Y1 B8 W4 R2", true},
		{"no pivot", "R2 W4 B8", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fold(runs(tt.in, 6), 6)
			if ok != tt.folded {
				t.Fatalf("fold() ok = %v, want %v", ok, tt.folded)
			}
			if ok && !got.Equal(threadcount.MustParse(tt.want, pal)) {
				t.Errorf("fold() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeAndDropNarrow(t *testing.T) {
	runs := []Run{{"K", 1}, {"R", 10}, {"G", 1}, {"R", 5}, {"W", 8}}
	got := mergeAdjacent(dropNarrow(runs, 2))
	want := []Run{{"R", 17}, {"W", 8}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("run %d = %v, want %v", i, got[i], want[i])
		}
	}
}
