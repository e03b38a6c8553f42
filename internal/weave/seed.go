package weave

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/jmylchreest/sett/internal/threadcount"
)

// SeedMode determines how the texture noise seed is chosen.
type SeedMode string

const (
	// SeedModeContent derives the seed from the threadcount and geometry
	// (default, deterministic by content).
	SeedModeContent SeedMode = "content"
	// SeedModeManual uses a user-provided seed value.
	SeedModeManual SeedMode = "manual"
	// SeedModeRandom uses a non-deterministic seed (varies each run).
	SeedModeRandom SeedMode = "random"
)

// ValidSeedModes returns the accepted seed modes.
func ValidSeedModes() []SeedMode {
	return []SeedMode{SeedModeContent, SeedModeManual, SeedModeRandom}
}

// ParseSeedMode converts a string to a SeedMode.
func ParseSeedMode(s string) (SeedMode, error) {
	mode := SeedMode(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidSeedModes() {
		if mode == valid {
			return mode, nil
		}
	}
	return "", fmt.Errorf("invalid seed mode %q (valid: content, manual, random)", s)
}

// CalculateSeed picks the texture seed for a render.
// value is required for SeedModeManual and ignored otherwise.
func CalculateSeed(mode SeedMode, tc threadcount.Threadcount, opts Options, value *int64) (int64, error) {
	switch mode {
	case SeedModeContent, "":
		return ContentSeed(tc, opts), nil
	case SeedModeManual:
		if value == nil {
			return 0, fmt.Errorf("seed value is required for manual seed mode")
		}
		return *value, nil
	case SeedModeRandom:
		return rand.Int64(), nil // #nosec G404 -- random seed is intentionally non-deterministic
	default:
		return 0, fmt.Errorf("unknown seed mode: %s", mode)
	}
}

// ContentSeed hashes the canonical threadcount and the geometry options so
// the same fabric always gets the same texture.
func ContentSeed(tc threadcount.Threadcount, opts Options) int64 {
	hasher := sha256.New()
	fmt.Fprintf(hasher, "%s|%d|%g|%d", tc.String(), opts.Size, opts.ThreadWidth, opts.TextureAmplitude)
	hash := hasher.Sum(nil)
	return int64(binary.LittleEndian.Uint64(hash[:8])) // #nosec G115 -- hash conversion is safe
}
