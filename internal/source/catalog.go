package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sett/internal/catalog"
	"github.com/jmylchreest/sett/internal/threadcount"
)

// Catalog looks a threadcount up by tartan name.
type Catalog struct {
	name  string
	files []string
}

// NewCatalog creates a new catalog source.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Name returns the source name.
func (s *Catalog) Name() string {
	return "catalog"
}

// Description returns the source description.
func (s *Catalog) Description() string {
	return "Look up a named tartan in the catalog"
}

// RegisterFlags registers source-specific flags with the cobra command.
func (s *Catalog) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.name, "catalog.name", "", "Tartan name (alternative to positional arguments)")
	cmd.Flags().StringArrayVar(&s.files, "catalog.file", nil, "Extra catalog file (.yaml, .csv, optionally compressed; repeatable)")
}

// Validate checks that extra catalog files exist.
func (s *Catalog) Validate() error {
	for _, f := range s.files {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("catalog file %s: %w", f, err)
		}
	}
	return nil
}

// Threadcount finds the named tartan and parses its threadcount.
func (s *Catalog) Threadcount(_ context.Context, opts Options) (threadcount.Threadcount, error) {
	name := s.name
	if name == "" {
		name = opts.joinedArgs()
	}
	if name == "" {
		return nil, fmt.Errorf("no tartan name given (use --catalog.name or a positional argument)")
	}

	files := append(append([]string{}, opts.CatalogFiles...), s.files...)
	c, err := catalog.LoadAll(files, opts.logger())
	if err != nil {
		return nil, err
	}

	entry, ok := c.Get(name)
	if !ok {
		matches := c.Search(name)
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("tartan %q not found in catalog", name)
		case 1:
			entry = matches[0]
		default:
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = m.Name
			}
			return nil, fmt.Errorf("tartan %q is ambiguous: %s", name, strings.Join(names, ", "))
		}
	}

	opts.logger().Debug("resolved tartan", "source", s.Name(), "name", entry.Name, "threadcount", entry.Threadcount)
	return entry.Parse(opts.Palette)
}
