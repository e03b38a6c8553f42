// Package catalog provides lookup of named tartans and their threadcounts.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jmylchreest/sett/internal/palette"
	"github.com/jmylchreest/sett/internal/threadcount"
)

//go:embed tartans.yaml
var builtinYAML []byte

// Entry is one named tartan.
type Entry struct {
	Name        string `yaml:"name" json:"name"`
	Threadcount string `yaml:"threadcount" json:"threadcount"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Parse parses the entry's threadcount against pal.
func (e Entry) Parse(pal *palette.Palette) (threadcount.Threadcount, error) {
	tc, err := threadcount.Parse(e.Threadcount, pal)
	if err != nil {
		return nil, fmt.Errorf("tartan %q: %w", e.Name, err)
	}
	return tc, nil
}

// Catalog is an ordered set of tartans keyed by case-insensitive name.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New builds a catalog. A later entry replaces an earlier one with the same name.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(entries))}
	for i, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		e.Threadcount = strings.TrimSpace(e.Threadcount)
		e.Description = strings.TrimSpace(e.Description)
		if e.Name == "" {
			return nil, fmt.Errorf("entry %d: name is required", i+1)
		}
		if e.Threadcount == "" {
			return nil, fmt.Errorf("entry %d (%s): threadcount is required", i+1, e.Name)
		}
		c.put(e)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := ParseYAML(builtinYAML)
	if err != nil {
		panic("catalog: invalid built-in table: " + err.Error())
	}
	return c
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *Catalog) put(e Entry) {
	k := key(e.Name)
	if i, ok := c.index[k]; ok {
		c.entries[i] = e
		return
	}
	c.index[k] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Len returns the number of tartans.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns all tartans in catalog order.
func (c *Catalog) Entries() []Entry {
	return slices.Clone(c.entries)
}

// Get looks a tartan up by exact, case-insensitive name.
func (c *Catalog) Get(name string) (Entry, bool) {
	i, ok := c.index[key(name)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Search returns tartans whose name starts with prefix, ignoring case,
// sorted by name. An empty prefix matches everything.
func (c *Catalog) Search(prefix string) []Entry {
	p := key(prefix)
	var out []Entry
	for _, e := range c.entries {
		if strings.HasPrefix(key(e.Name), p) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return strings.Compare(key(a.Name), key(b.Name))
	})
	return out
}

// Merge returns a new catalog with other's entries added; entries in other
// replace same-named entries in c.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	merged := &Catalog{index: make(map[string]int, len(c.entries)+len(other.entries))}
	for _, e := range c.entries {
		merged.put(e)
	}
	for _, e := range other.entries {
		merged.put(e)
	}
	return merged
}

// Validate parses every threadcount and reports all failures together.
func (c *Catalog) Validate(pal *palette.Palette) error {
	var errs []error
	for _, e := range c.entries {
		if _, err := e.Parse(pal); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
