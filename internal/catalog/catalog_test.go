package catalog

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/sett/internal/palette"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Len() != 15 {
		t.Fatalf("Default().Len() = %d, want 15", c.Len())
	}
	if err := c.Validate(palette.Default()); err != nil {
		t.Errorf("built-in catalog does not validate: %v", err)
	}

	e, ok := c.Get("royal stewart")
	if !ok {
		t.Fatal("Get(royal stewart) not found")
	}
	if e.Threadcount != "R8 B4 R4 W4 R4 Y4 R32" {
		t.Errorf("Royal Stewart threadcount = %q", e.Threadcount)
	}
}

func TestSearch(t *testing.T) {
	c := Default()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"mac", []string{"MacDonald", "MacGregor", "MacKenzie", "MacLeod Of Lewis"}},
		{"  STEW", []string{"Stewart Hunting"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got := c.Search(tt.prefix)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) returned %d entries, want %d", tt.prefix, len(got), len(tt.want))
			}
			for i, e := range got {
				if e.Name != tt.want[i] {
					t.Errorf("Search(%q)[%d] = %q, want %q", tt.prefix, i, e.Name, tt.want[i])
				}
			}
		})
	}

	if got := c.Search(""); len(got) != c.Len() {
		t.Errorf("Search(\"\") returned %d entries, want %d", len(got), c.Len())
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantLen int
		wantErr bool
	}{
		{"trims and keeps", []Entry{{Name: " A ", Threadcount: " K4 "}}, 1, false},
		{"later replaces earlier", []Entry{{Name: "A", Threadcount: "K4"}, {Name: "a", Threadcount: "W4"}}, 1, false},
		{"missing name", []Entry{{Threadcount: "K4"}}, 0, true},
		{"missing threadcount", []Entry{{Name: "A"}}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.entries)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", c.Len(), tt.wantLen)
			}
		})
	}

	c, _ := New([]Entry{{Name: "A", Threadcount: "K4"}, {Name: "a", Threadcount: "W4"}})
	if e, _ := c.Get("A"); e.Threadcount != "W4" {
		t.Errorf("replaced entry threadcount = %q, want W4", e.Threadcount)
	}
}

func TestMerge(t *testing.T) {
	extra, err := New([]Entry{
		{Name: "Royal Stewart", Threadcount: "R4 K4"},
		{Name: "Test Tartan", Threadcount: "G4 W2"},
	})
	if err != nil {
		t.Fatal(err)
	}

	base := Default()
	merged := base.Merge(extra)
	if merged.Len() != base.Len()+1 {
		t.Errorf("merged Len() = %d, want %d", merged.Len(), base.Len()+1)
	}
	if e, _ := merged.Get("Royal Stewart"); e.Threadcount != "R4 K4" {
		t.Errorf("merged Royal Stewart = %q, want override", e.Threadcount)
	}
	if e, _ := base.Get("Royal Stewart"); e.Threadcount == "R4 K4" {
		t.Error("Merge modified the receiver")
	}
}

func TestValidate(t *testing.T) {
	c, err := New([]Entry{
		{Name: "Good", Threadcount: "K4 R8"},
		{Name: "Bad Colour", Threadcount: "K4 Q8"},
		{Name: "Bad Count", Threadcount: "K0"},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = c.Validate(palette.Default())
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	msg := err.Error()
	for _, name := range []string{"Bad Colour", "Bad Count"} {
		if !strings.Contains(msg, name) {
			t.Errorf("Validate() error %q does not mention %q", msg, name)
		}
	}
	if strings.Contains(msg, "\"Good\"") {
		t.Errorf("Validate() error mentions valid entry: %q", msg)
	}
}

func TestParseCSV(t *testing.T) {
	input := `name,threadcount,description
# comment
Test One,K4 R8,"first, with comma"
Test Two,G4 W2
`
	c, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	e, _ := c.Get("test one")
	if e.Description != "first, with comma" {
		t.Errorf("Description = %q", e.Description)
	}

	if _, err := ParseCSV(strings.NewReader("only-one-field\n")); err == nil {
		t.Error("ParseCSV() with one field: want error")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.yaml", FormatYAML, false},
		{"a.YML", FormatYAML, false},
		{"a.csv", FormatCSV, false},
		{"a.csv.xz", FormatCSV, false},
		{"a.yaml.gz", FormatYAML, false},
		{"a.txt", "", true},
		{"a.gz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlDoc := "tartans:\n  - name: Loaded\n    threadcount: K4 W4\n"
	csvDoc := "Loaded,K4 W4\n"

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, _ = gw.Write([]byte(yamlDoc))
	_ = gw.Close()

	var xzBuf bytes.Buffer
	xw, err := xz.NewWriter(&xzBuf)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = xw.Write([]byte(csvDoc))
	_ = xw.Close()

	files := map[string][]byte{
		"plain.yaml":    []byte(yamlDoc),
		"plain.csv":     []byte(csvDoc),
		"packed.yml.gz": gz.Bytes(),
		"packed.csv.xz": xzBuf.Bytes(),
	}

	for name, data := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, data, 0o600); err != nil {
				t.Fatal(err)
			}
			c, err := Load(path, nil)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			e, ok := c.Get("loaded")
			if !ok || e.Threadcount != "K4 W4" {
				t.Errorf("Get(loaded) = %+v, %v", e, ok)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml"), nil); err == nil {
		t.Error("Load() of missing file: want error")
	}
}

func TestLoadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.csv")
	if err := os.WriteFile(path, []byte("Extra,K2 W2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := LoadAll([]string{path}, nil)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if c.Len() != Default().Len()+1 {
		t.Errorf("LoadAll().Len() = %d", c.Len())
	}
}

func TestEncodeYAMLRoundTrip(t *testing.T) {
	data, err := Default().EncodeYAML()
	if err != nil {
		t.Fatal(err)
	}
	c, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML(EncodeYAML()) error = %v", err)
	}
	if c.Len() != Default().Len() {
		t.Errorf("round trip Len() = %d", c.Len())
	}
}
