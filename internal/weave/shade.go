package weave

import (
	"image"
	"math"
	"math/rand/v2"
	"slices"
)

// twillPeriod is the length of the diagonal over/under cycle; the first
// twillRaised positions of each cycle are threads lying on top.
const (
	twillPeriod = 4
	twillRaised = 2
)

// applyTwill brightens raised positions and darkens sunk ones along the
// diagonal (x + y) of the working canvas.
func applyTwill(img *image.RGBA, offset int, strength float64) {
	if strength == 0 {
		return
	}

	up := 1 + strength
	down := 1 - strength
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			factor := down
			if (x+y+2*offset)%twillPeriod < twillRaised {
				factor = up
			}
			i := img.PixOffset(x, y)
			for c := range 3 {
				img.Pix[i+c] = clampChannel(float64(img.Pix[i+c]) * factor)
			}
		}
	}
}

// emphasizeEdges adds amount times the absolute difference to the right and
// lower neighbours, sharpening thread boundaries. Differences are measured
// on the unmodified image.
func emphasizeEdges(img *image.RGBA, amount float64) {
	src := slices.Clone(img.Pix)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			right, below := i, i
			if x+1 < b.Max.X {
				right = img.PixOffset(x+1, y)
			}
			if y+1 < b.Max.Y {
				below = img.PixOffset(x, y+1)
			}
			for c := range 3 {
				v := float64(src[i+c])
				d := math.Abs(v-float64(src[right+c])) + math.Abs(v-float64(src[below+c]))
				img.Pix[i+c] = clampChannel(v + amount*d)
			}
		}
	}
}

// addNoise perturbs every colour channel independently by a uniform value in
// [-amplitude, amplitude].
func addNoise(img *image.RGBA, seed int64, amplitude int) {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)) // #nosec G404 -- visual noise, not security
	span := 2*amplitude + 1
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			for c := range 3 {
				n := rng.IntN(span) - amplitude
				img.Pix[i+c] = clampChannel(float64(int(img.Pix[i+c]) + n))
			}
		}
	}
}

func clampChannel(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
