package palette

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColour parses "#rrggbb", "#rgb" or a CSS colour name such as "navy".
func ParseColour(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGB{}, fmt.Errorf("empty colour")
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return RGB{R: r, G: g, B: b}, nil
	}

	named, ok := colornames.Map[strings.ToLower(strings.ReplaceAll(s, " ", ""))]
	if !ok {
		return RGB{}, fmt.Errorf("unknown colour name %q", s)
	}
	return ToRGB(named), nil
}

// WithOverrides returns a copy of the palette with colours replaced or added.
// Keys are colour codes (case-insensitive); values are accepted by ParseColour.
// Added codes are appended in sorted order so the result is deterministic.
func (p *Palette) WithOverrides(overrides map[string]string) (*Palette, error) {
	if len(overrides) == 0 {
		return p, nil
	}

	entries := p.Entries()
	index := make(map[Code]int, len(entries))
	for i, e := range entries {
		index[e.Code] = i
	}

	for _, key := range slices.Sorted(maps.Keys(overrides)) {
		code := Code(strings.ToUpper(strings.TrimSpace(key)))
		rgb, err := ParseColour(overrides[key])
		if err != nil {
			return nil, fmt.Errorf("palette override %s: %w", code, err)
		}

		if i, ok := index[code]; ok {
			entries[i].RGB = rgb
			continue
		}
		index[code] = len(entries)
		entries = append(entries, Entry{Code: code, Name: strings.ToLower(overrides[key]), RGB: rgb})
	}

	return New(entries)
}
