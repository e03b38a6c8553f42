// Package detect recovers a threadcount from an image of striped or woven cloth.
package detect

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/image/draw"

	"github.com/jmylchreest/sett/internal/palette"
	"github.com/jmylchreest/sett/internal/threadcount"
	"github.com/jmylchreest/sett/internal/weave"
)

// Defaults for Options.
const (
	DefaultMaxWidth    = 1024
	DefaultTolerance   = 0.1
	DefaultThreadWidth = 6
	DefaultMinRunWidth = 2
)

// ErrNoRuns is returned when nothing usable is left after edge trimming.
var ErrNoRuns = errors.New("no colour runs detected")

// Options controls detection.
type Options struct {
	// Row is the pixel row of the source image to sample; negative selects
	// the middle row. It is mapped onto the downscaled image when MaxWidth
	// applies.
	Row int

	// Woven samples the main diagonal instead of a row and matches each
	// pixel against palette colours crossed with themselves. Use it for
	// images produced by the renderer, where a row mixes every warp colour
	// with a single weft colour.
	Woven bool

	// MaxWidth downscales wider images before sampling. Zero disables it.
	MaxWidth int

	// Tolerance is the CIE L*a*b* distance within which a pixel extends
	// the current run.
	Tolerance float64

	// ThreadWidth is the pixel width of one thread in the source image.
	ThreadWidth float64

	// MinRunWidth drops runs narrower than this many pixels, which absorbs
	// anti-aliased transitions between bands.
	MinRunWidth int

	// TrimEdges drops the first and last run, which are usually cut off.
	TrimEdges bool

	// Fold returns only the half sett between two mirror pivots.
	Fold bool

	Logger hclog.Logger
}

// DefaultOptions returns options suitable for most images.
func DefaultOptions() Options {
	return Options{
		Row:         -1,
		MaxWidth:    DefaultMaxWidth,
		Tolerance:   DefaultTolerance,
		ThreadWidth: DefaultThreadWidth,
		MinRunWidth: DefaultMinRunWidth,
		TrimEdges:   true,
		Fold:        true,
	}
}

// Run is a detected stripe with its measured width.
type Run struct {
	Code  palette.Code
	Width int
}

// Result is the outcome of a detection.
type Result struct {
	Threadcount threadcount.Threadcount

	// Runs are the merged pixel runs along the sampled line, after trimming.
	Runs []Run

	// Folded reports whether a mirror pivot pair was found.
	Folded bool

	// Scale is the factor the image was resized by before sampling.
	Scale float64
}

// Detect samples img and returns the threadcount of the stripes it crosses.
func Detect(img image.Image, pal *palette.Palette, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if opts.ThreadWidth <= 0 {
		return nil, fmt.Errorf("thread width must be positive, got %g", opts.ThreadWidth)
	}
	if opts.Tolerance < 0 {
		return nil, fmt.Errorf("tolerance must not be negative, got %g", opts.Tolerance)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.New("image is empty")
	}

	row := opts.Row
	if row < 0 {
		row = bounds.Dy() / 2
	}
	if !opts.Woven && row >= bounds.Dy() {
		return nil, fmt.Errorf("row %d is outside the image (height %d)", row, bounds.Dy())
	}

	scale := 1.0
	if opts.MaxWidth > 0 && bounds.Dx() > opts.MaxWidth {
		img, scale = downscale(img, opts.MaxWidth)
		bounds = img.Bounds()
		row = min(int(math.Round(float64(row)*scale)), bounds.Dy()-1)
		logger.Debug("downscaled image", "width", bounds.Dx(), "height", bounds.Dy(), "scale", scale)
	}

	match := pal
	var pixels []color.Color
	if opts.Woven {
		var err error
		if match, err = crossedPalette(pal); err != nil {
			return nil, err
		}
		pixels = sampleDiagonal(img)
	} else {
		pixels = sampleRow(img, bounds.Min.Y+row)
	}

	runs := segment(pixels, opts.Tolerance)
	logger.Debug("segmented pixels", "pixels", len(pixels), "segments", len(runs))

	coded := classify(runs, match)
	coded = dropNarrow(coded, opts.MinRunWidth)
	coded = mergeAdjacent(coded)
	if opts.TrimEdges {
		if len(coded) > 2 {
			coded = coded[1 : len(coded)-1]
		} else {
			coded = nil
		}
	}
	if len(coded) == 0 {
		return nil, ErrNoRuns
	}

	tw := opts.ThreadWidth * scale
	res := &Result{Runs: coded, Scale: scale}
	res.Threadcount = toThreadcount(coded, tw)

	if opts.Fold {
		if folded, ok := fold(coded, tw); ok {
			res.Threadcount = folded
			res.Folded = true
		} else {
			logger.Debug("no mirror pivots found, returning unfolded runs", "runs", len(coded))
		}
	}

	logger.Debug("detected threadcount", "threadcount", res.Threadcount.String(), "folded", res.Folded)
	return res, nil
}

func downscale(img image.Image, maxWidth int) (image.Image, float64) {
	b := img.Bounds()
	scale := float64(maxWidth) / float64(b.Dx())
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, scale
}

func sampleRow(img image.Image, y int) []color.Color {
	b := img.Bounds()
	out := make([]color.Color, 0, b.Dx())
	for x := b.Min.X; x < b.Max.X; x++ {
		out = append(out, img.At(x, y))
	}
	return out
}

func sampleDiagonal(img image.Image) []color.Color {
	b := img.Bounds()
	n := min(b.Dx(), b.Dy())
	out := make([]color.Color, 0, n)
	for i := range n {
		out = append(out, img.At(b.Min.X+i, b.Min.Y+i))
	}
	return out
}

// crossedPalette maps each code to the colour of a thread crossing itself.
func crossedPalette(pal *palette.Palette) (*palette.Palette, error) {
	entries := pal.Entries()
	for i, e := range entries {
		entries[i].RGB = weave.Cross(e.RGB, e.RGB)
	}
	return palette.New(entries)
}

type segmentRun struct {
	first color.Color
	width int
}

// segment groups consecutive pixels within tolerance of each run's first pixel.
func segment(pixels []color.Color, tolerance float64) []segmentRun {
	var runs []segmentRun
	for _, px := range pixels {
		if n := len(runs); n > 0 && palette.Distance(runs[n-1].first, px) <= tolerance {
			runs[n-1].width++
			continue
		}
		runs = append(runs, segmentRun{first: px, width: 1})
	}
	return runs
}

func classify(runs []segmentRun, pal *palette.Palette) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		out = append(out, Run{Code: pal.Nearest(r.first).Code, Width: r.width})
	}
	return out
}

// dropNarrow folds runs narrower than minWidth into the preceding run, or
// the following one at the start of the line.
func dropNarrow(runs []Run, minWidth int) []Run {
	if minWidth <= 1 {
		return runs
	}
	var out []Run
	pending := 0
	for _, r := range runs {
		if r.Width < minWidth {
			if len(out) > 0 {
				out[len(out)-1].Width += r.Width
			} else {
				pending += r.Width
			}
			continue
		}
		r.Width += pending
		pending = 0
		out = append(out, r)
	}
	return out
}

func mergeAdjacent(runs []Run) []Run {
	var out []Run
	for _, r := range runs {
		if n := len(out); n > 0 && out[n-1].Code == r.Code {
			out[n-1].Width += r.Width
			continue
		}
		out = append(out, r)
	}
	return out
}

func threads(width int, tw float64) float64 {
	return max(1, math.Round(float64(width)/tw))
}

func toThreadcount(runs []Run, tw float64) threadcount.Threadcount {
	tc := make(threadcount.Threadcount, 0, len(runs))
	for _, r := range runs {
		tc = append(tc, threadcount.Run{Code: r.Code, Count: threads(r.Width, tw)})
	}
	return tc
}

// fold returns the half sett starting at a mirror pivot. Rendering mirrors
// the half and doubles its first run where repeats meet, so the starting
// pivot is halved. With two pivots the half runs from the first to the
// second; with one, it runs to the end of the longer side.
func fold(runs []Run, tw float64) (threadcount.Threadcount, bool) {
	counts := toThreadcount(runs, tw)

	var pivots []int
	for i := 1; i < len(counts)-1 && len(pivots) < 2; i++ {
		if symmetricAround(counts, i) {
			pivots = append(pivots, i)
		}
	}

	var rest threadcount.Threadcount
	switch len(pivots) {
	case 2:
		rest = counts[pivots[0]+1 : pivots[1]+1]
	case 1:
		p := pivots[0]
		if len(counts)-1-p >= p {
			rest = counts[p+1:]
		} else {
			rest = slices.Clone(counts[:p])
			slices.Reverse(rest)
		}
	default:
		return nil, false
	}

	p := counts[pivots[0]]
	half := make(threadcount.Threadcount, 0, len(rest)+1)
	half = append(half, threadcount.Run{Code: p.Code, Count: p.Count / 2})
	return append(half, rest...), true
}

func symmetricAround(tc threadcount.Threadcount, p int) bool {
	for k := 1; p-k >= 0 && p+k < len(tc); k++ {
		if tc[p-k] != tc[p+k] {
			return false
		}
	}
	return true
}
