package palette

import (
	"image/color"
	"strings"
	"testing"
)

func TestDefaultPalette(t *testing.T) {
	p := Default()

	if p.Len() != 15 {
		t.Errorf("Len() = %d, want 15", p.Len())
	}

	for _, code := range []Code{"R", "K", "B", "DB", "LG", "W", "Y"} {
		if _, ok := p.Lookup(code); !ok {
			t.Errorf("Lookup(%q) not found", code)
		}
	}
}

func TestCodesLongestFirst(t *testing.T) {
	codes := Default().Codes()

	seenShort := false
	for _, c := range codes {
		if len(c) == 1 {
			seenShort = true
			continue
		}
		if seenShort {
			t.Fatalf("two-letter code %q ordered after a one-letter code: %v", c, codes)
		}
	}
	if codes[0] != "DB" {
		t.Errorf("codes[0] = %q, want DB (alphabetical among two-letter codes)", codes[0])
	}
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr string
	}{
		{name: "empty", entries: nil, wantErr: "at least one"},
		{name: "lowercase code", entries: []Entry{{Code: "r"}}, wantErr: "invalid colour code"},
		{name: "three letters", entries: []Entry{{Code: "RED"}}, wantErr: "invalid colour code"},
		{name: "digit", entries: []Entry{{Code: "R1"}}, wantErr: "invalid colour code"},
		{name: "duplicate", entries: []Entry{{Code: "R"}, {Code: "R"}}, wantErr: "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			if err == nil {
				t.Fatal("New() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNearest(t *testing.T) {
	p := Default()

	tests := []struct {
		name  string
		color color.Color
		want  Code
	}{
		{name: "exact red", color: color.RGBA{R: 200, G: 0, B: 0, A: 255}, want: "R"},
		{name: "near red", color: color.RGBA{R: 210, G: 10, B: 5, A: 255}, want: "R"},
		{name: "near black", color: color.RGBA{R: 0, G: 0, B: 0, A: 255}, want: "K"},
		{name: "near white", color: color.RGBA{R: 255, G: 255, B: 255, A: 255}, want: "W"},
		{name: "exact dark blue", color: color.RGBA{R: 0, G: 24, B: 72, A: 255}, want: "DB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Nearest(tt.color).Code; got != tt.want {
				t.Errorf("Nearest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseColour(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{in: "#ff0000", want: RGB{R: 255}},
		{in: "#0f0", want: RGB{G: 255}},
		{in: "navy", want: RGB{B: 128}},
		{in: "Dark Blue", want: RGB{B: 139}},
		{in: "", wantErr: true},
		{in: "#zzzzzz", wantErr: true},
		{in: "tartanish", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColour(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColour(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColour(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithOverrides(t *testing.T) {
	base := Default()

	p, err := base.WithOverrides(map[string]string{
		"r":  "#ff0000",
		"HG": "olive",
	})
	if err != nil {
		t.Fatalf("WithOverrides() error = %v", err)
	}

	red, _ := p.Lookup("R")
	if red.RGB != (RGB{R: 255}) {
		t.Errorf("R = %+v, want #ff0000", red.RGB)
	}

	if _, ok := p.Lookup("HG"); !ok {
		t.Error("new code HG not added")
	}

	// The original palette is unchanged.
	orig, _ := base.Lookup("R")
	if orig.RGB != (RGB{R: 200}) {
		t.Errorf("base palette mutated: R = %+v", orig.RGB)
	}

	if _, err := base.WithOverrides(map[string]string{"RED": "#ff0000"}); err == nil {
		t.Error("expected error for invalid override code")
	}
}

func TestRGBHex(t *testing.T) {
	if got := (RGB{R: 26, G: 43, B: 60}).Hex(); got != "#1a2b3c" {
		t.Errorf("Hex() = %q, want #1a2b3c", got)
	}
}

func TestSwatch(t *testing.T) {
	s := Swatch(RGB{R: 1, G: 2, B: 3}, 2)
	want := "\033[48;2;1;2;3m  \033[0m"
	if s != want {
		t.Errorf("Swatch() = %q, want %q", s, want)
	}
}
