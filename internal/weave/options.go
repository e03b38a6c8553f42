// Package weave rasterizes a threadcount into a square image of woven
// fabric: warp and weft bands of the mirrored sett crossed by saturating
// addition, with optional twill shading and texture noise.
package weave

import (
	"fmt"
)

const (
	// MaxSize is the largest output side in pixels.
	MaxSize = 8192

	// MaxThreadWidth is the largest pixel width of a single thread.
	MaxThreadWidth = 64.0

	// DefaultMaxRunWidth caps the pixel width of one run so that huge
	// declared counts cannot inflate the repeat.
	DefaultMaxRunWidth = 512

	// MaxRunWidthLimit is the largest MaxRunWidth a caller may ask for.
	MaxRunWidthLimit = MaxSize

	// MaxRepeatWidth bounds the pixel width of one sett repeat.
	MaxRepeatWidth = 1 << 24

	// MaxTextureAmplitude bounds the per-channel noise range.
	MaxTextureAmplitude = 128
)

// Options controls how a threadcount is rendered.
type Options struct {
	// Size is the side of the square output image in pixels.
	Size int `json:"size" yaml:"size"`

	// ThreadWidth is the pixel width of one thread.
	ThreadWidth float64 `json:"thread_width" yaml:"thread_width"`

	// MaxRunWidth caps the quantized width of any run. Zero means DefaultMaxRunWidth.
	MaxRunWidth int `json:"max_run_width" yaml:"max_run_width"`

	// Twill enables the diagonal over/under shading.
	Twill bool `json:"twill" yaml:"twill"`

	// TwillStrength is the brighten/darken factor for raised and sunk threads (0-1).
	TwillStrength float64 `json:"twill_strength" yaml:"twill_strength"`

	// EdgeEmphasis adds this fraction of the local pixel difference (0-1).
	// Only applied with Twill.
	EdgeEmphasis float64 `json:"edge_emphasis" yaml:"edge_emphasis"`

	// Texture enables random per-pixel noise.
	Texture bool `json:"texture" yaml:"texture"`

	// TextureAmplitude is the maximum absolute noise added per channel.
	TextureAmplitude int `json:"texture_amplitude" yaml:"texture_amplitude"`

	// Seed drives the texture noise. Identical seeds give identical noise.
	Seed int64 `json:"seed" yaml:"seed"`
}

// DefaultOptions returns options for a plain, reproducible 900px render.
func DefaultOptions() Options {
	return Options{
		Size:             900,
		ThreadWidth:      6,
		MaxRunWidth:      DefaultMaxRunWidth,
		Twill:            false,
		TwillStrength:    0.15,
		EdgeEmphasis:     0,
		Texture:          false,
		TextureAmplitude: 12,
	}
}

// Validate checks that the options describe a bounded render.
func (o Options) Validate() error {
	if o.Size < 1 {
		return fmt.Errorf("size must be at least 1, got %d", o.Size)
	}
	if o.Size > MaxSize {
		return fmt.Errorf("size too large: %d (maximum: %d)", o.Size, MaxSize)
	}
	if !(o.ThreadWidth > 0) {
		return fmt.Errorf("thread width must be positive, got %v", o.ThreadWidth)
	}
	if o.ThreadWidth > MaxThreadWidth {
		return fmt.Errorf("thread width too large: %v (maximum: %v)", o.ThreadWidth, MaxThreadWidth)
	}
	if o.MaxRunWidth < 0 {
		return fmt.Errorf("max run width must not be negative, got %d", o.MaxRunWidth)
	}
	if o.MaxRunWidth > MaxRunWidthLimit {
		return fmt.Errorf("max run width too large: %d (maximum: %d)", o.MaxRunWidth, MaxRunWidthLimit)
	}
	if o.TwillStrength < 0 || o.TwillStrength > 1 {
		return fmt.Errorf("twill strength must be between 0 and 1, got %v", o.TwillStrength)
	}
	if o.EdgeEmphasis < 0 || o.EdgeEmphasis > 1 {
		return fmt.Errorf("edge emphasis must be between 0 and 1, got %v", o.EdgeEmphasis)
	}
	if o.TextureAmplitude < 0 || o.TextureAmplitude > MaxTextureAmplitude {
		return fmt.Errorf("texture amplitude must be between 0 and %d, got %d", MaxTextureAmplitude, o.TextureAmplitude)
	}
	return nil
}

func (o Options) maxRunWidth() int {
	if o.MaxRunWidth == 0 {
		return DefaultMaxRunWidth
	}
	return o.MaxRunWidth
}
