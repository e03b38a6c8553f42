package weave

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/jmylchreest/sett/internal/palette"
	"github.com/jmylchreest/sett/internal/threadcount"
)

// MaxSettRuns bounds the number of runs in a mirrored sett.
const MaxSettRuns = 4096

// ErrEmptySett is returned when there are no runs to weave.
var ErrEmptySett = errors.New("threadcount is empty, nothing to render")

// Band is one run of the sett after width quantization.
type Band struct {
	Code  palette.Code
	RGB   palette.RGB
	Width int
}

// Fabric is a rendered image together with the geometry used to build it.
type Fabric struct {
	Image *image.RGBA

	// Sett is the mirrored threadcount that was woven.
	Sett threadcount.Threadcount

	// Bands are the quantized runs of one repeat.
	Bands []Band

	// RepeatWidth is the pixel width of one sett repeat.
	RepeatWidth int

	// Repeats is the number of repeats tiled along each axis of the working canvas.
	Repeats int

	// Offset is where the output window starts on the working canvas.
	Offset int

	// Seed is the texture seed, meaningful only when texture was enabled.
	Seed int64
}

// CanvasSize returns the side of the working canvas the output is cropped from.
func (f *Fabric) CanvasSize() int {
	return f.Repeats * f.RepeatWidth
}

// Quantize converts a thread count into a pixel width: rounded to the
// nearest pixel, at least 1 so every declared colour is visible, and at most
// maxWidth.
func Quantize(count, threadWidth float64, maxWidth int) int {
	v := math.Round(count * threadWidth)
	if !(v >= 1) {
		return 1
	}
	if v >= float64(maxWidth) {
		return maxWidth
	}
	return int(v)
}

// Bands mirrors tc into a sett and quantizes each run's width.
func Bands(tc threadcount.Threadcount, pal *palette.Palette, opts Options) ([]Band, error) {
	if tc.Empty() {
		return nil, ErrEmptySett
	}

	sett := tc.Mirror()
	if len(sett) > MaxSettRuns {
		return nil, fmt.Errorf("sett too long: %d runs (maximum: %d)", len(sett), MaxSettRuns)
	}

	maxWidth := min(opts.maxRunWidth(), MaxRunWidthLimit)
	bands := make([]Band, len(sett))
	total := 0
	for i, run := range sett {
		entry, ok := pal.Lookup(run.Code)
		if !ok {
			return nil, &threadcount.UnknownColourError{Token: string(run.Code)}
		}
		width := Quantize(run.Count, opts.ThreadWidth, maxWidth)
		if total += width; total > MaxRepeatWidth {
			return nil, fmt.Errorf("sett repeat too wide: more than %d pixels", MaxRepeatWidth)
		}
		bands[i] = Band{
			Code:  run.Code,
			RGB:   entry.RGB,
			Width: width,
		}
	}
	return bands, nil
}

// Stripe lays bands out left to right, one colour per pixel column. The row
// is cut off at MaxRepeatWidth.
func Stripe(bands []Band) []palette.RGB {
	total := 0
	for _, b := range bands {
		total = min(total+max(b.Width, 0), MaxRepeatWidth)
	}

	row := make([]palette.RGB, 0, total)
	for _, b := range bands {
		for range min(b.Width, total-len(row)) {
			row = append(row, b.RGB)
		}
	}
	return row
}

// Render weaves tc into a square image.
//
// The sett repeat is tiled at least twice, and enough times to cover
// opts.Size, on a working canvas; the output is the centred Size x Size
// window of that canvas. The canvas is periodic, so it is never allocated:
// canvas coordinates are wrapped onto the single repeat row instead.
//
// Without texture the output is a pure function of its inputs.
func Render(tc threadcount.Threadcount, pal *palette.Palette, opts Options) (*Fabric, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render options: %w", err)
	}

	bands, err := Bands(tc, pal, opts)
	if err != nil {
		return nil, err
	}

	row := Stripe(bands)
	repeat := len(row)
	if repeat == 0 {
		return nil, ErrEmptySett
	}

	size := opts.Size
	repeats := max(2, (size+repeat-1)/repeat)
	offset := (repeats*repeat - size) / 2

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		weft := row[(y+offset)%repeat]
		for x := range size {
			warp := row[(x+offset)%repeat]
			i := img.PixOffset(x, y)
			img.Pix[i+0] = addSaturating(warp.R, weft.R)
			img.Pix[i+1] = addSaturating(warp.G, weft.G)
			img.Pix[i+2] = addSaturating(warp.B, weft.B)
			img.Pix[i+3] = 255
		}
	}

	if opts.Twill {
		applyTwill(img, offset, opts.TwillStrength)
		if opts.EdgeEmphasis > 0 {
			emphasizeEdges(img, opts.EdgeEmphasis)
		}
	}

	if opts.Texture && opts.TextureAmplitude > 0 {
		addNoise(img, opts.Seed, opts.TextureAmplitude)
	}

	return &Fabric{
		Image:       img,
		Sett:        tc.Mirror(),
		Bands:       bands,
		RepeatWidth: repeat,
		Repeats:     repeats,
		Offset:      offset,
		Seed:        opts.Seed,
	}, nil
}

// Cross returns the colour where a warp thread of colour a crosses a weft
// thread of colour b.
func Cross(a, b palette.RGB) palette.RGB {
	return palette.RGB{
		R: addSaturating(a.R, b.R),
		G: addSaturating(a.G, b.G),
		B: addSaturating(a.B, b.B),
	}
}

func addSaturating(a, b uint8) uint8 {
	return uint8(min(int(a)+int(b), 255))
}
