// Package palette provides the colour-code table shared by the threadcount
// parser, the fabric renderer and the image detector.
package palette

import (
	"fmt"
	"image/color"
	"regexp"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Code is a short uppercase colour token such as "R" or "DB".
type Code string

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// RGBA returns the colour as an opaque color.RGBA.
func (rgb RGB) RGBA() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// Entry binds a colour code to its dye colour.
type Entry struct {
	Code Code   `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
	RGB  RGB    `json:"rgb" yaml:"rgb"`
}

var codePattern = regexp.MustCompile(`^[A-Z]{1,2}$`)

// ValidCode reports whether s is a well-formed colour code.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}

// Palette is an immutable lookup table from colour code to colour.
// Construct one with Default or New and pass it explicitly; methods that
// change the table return a new Palette.
type Palette struct {
	entries []Entry
	byCode  map[Code]Entry
	codes   []Code // longest first, then alphabetical
}

// New validates entries and builds a palette from them.
func New(entries []Entry) (*Palette, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("palette must contain at least one colour")
	}

	p := &Palette{
		entries: make([]Entry, 0, len(entries)),
		byCode:  make(map[Code]Entry, len(entries)),
		codes:   make([]Code, 0, len(entries)),
	}
	for _, e := range entries {
		if !ValidCode(string(e.Code)) {
			return nil, fmt.Errorf("invalid colour code %q (want 1-2 uppercase letters)", e.Code)
		}
		if _, dup := p.byCode[e.Code]; dup {
			return nil, fmt.Errorf("duplicate colour code %q", e.Code)
		}
		p.entries = append(p.entries, e)
		p.byCode[e.Code] = e
		p.codes = append(p.codes, e.Code)
	}

	slices.SortFunc(p.codes, func(a, b Code) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(string(a), string(b))
	})

	return p, nil
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.entries)
}

// Lookup returns the entry for code.
func (p *Palette) Lookup(code Code) (Entry, bool) {
	e, ok := p.byCode[code]
	return e, ok
}

// Codes returns every code, longest first. Matching a token against codes in
// this order guarantees "DR" is tried before "R".
func (p *Palette) Codes() []Code {
	return slices.Clone(p.codes)
}

// Entries returns the entries in declaration order.
func (p *Palette) Entries() []Entry {
	return slices.Clone(p.entries)
}

// Nearest returns the entry perceptually closest to c, measured as
// euclidean distance in CIE L*a*b*.
func (p *Palette) Nearest(c color.Color) Entry {
	target, _ := colorful.MakeColor(opaque(c))

	best := p.entries[0]
	bestDist := -1.0
	for _, e := range p.entries {
		candidate, _ := colorful.MakeColor(e.RGB.RGBA())
		d := target.DistanceLab(candidate)
		if bestDist < 0 || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

// Distance returns the CIE L*a*b* distance between two colours.
func Distance(a, b color.Color) float64 {
	ca, _ := colorful.MakeColor(opaque(a))
	cb, _ := colorful.MakeColor(opaque(b))
	return ca.DistanceLab(cb)
}

// opaque drops alpha so MakeColor never fails on transparent pixels.
func opaque(c color.Color) color.Color {
	return ToRGB(c).RGBA()
}
